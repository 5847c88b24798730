// Package chat runs the tool-calling analyst over a client's warehouse
// dataset and streams its output as typed events.
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"

	"github.com/rooted/analytics/internal/domain/client"
	"github.com/rooted/analytics/internal/domain/shared"
)

// Defaults of the agent loop
const (
	DefaultMaxSteps  = 10
	DefaultMaxTokens = 4096
)

// Service runs chat requests against the model
type Service struct {
	model     llms.Model
	clients   *client.Registry
	querier   Querier
	catalog   Catalog
	maxSteps  int
	maxTokens int
	metrics   Metrics
	logger    *zap.Logger
}

// Metrics records model and tool calls
type Metrics interface {
	LLMRequest(ctx context.Context, operation string, d time.Duration, err error)
	ToolCalled(ctx context.Context, tool string, err error)
}

// Option configures a Service
type Option func(*Service)

// WithMaxSteps bounds the model calls per request
func WithMaxSteps(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxSteps = n
		}
	}
}

// WithMaxTokens bounds the tokens generated per model call
func WithMaxTokens(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxTokens = n
		}
	}
}

// WithMetrics reports model and tool calls to m
func WithMetrics(m Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService creates a chat service. model may be nil when no API key is
// configured; Stream then fails with ErrUnavailable.
func NewService(model llms.Model, clients *client.Registry, q Querier, catalog Catalog, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		model:     model,
		clients:   clients,
		querier:   q,
		catalog:   catalog,
		maxSteps:  DefaultMaxSteps,
		maxTokens: DefaultMaxTokens,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Stream validates the request and starts the agent loop. The channel is
// closed when the loop ends; cancelling ctx stops the loop.
func (s *Service) Stream(ctx context.Context, clientID string, req Request) (<-chan Event, error) {
	cfg, err := s.clients.Get(clientID)
	if err != nil {
		return nil, err
	}
	if s.model == nil {
		return nil, shared.ErrUnavailable.WithDetails("chat model not configured")
	}
	if len(req.Messages) == 0 {
		return nil, shared.ErrInvalidInput.WithMessage("messages are required")
	}

	var tools *Toolset
	var toolNames []string
	if !req.DisableTools {
		tools = NewToolset(s.querier, s.catalog, cfg.Dataset, s.logger.With(zap.String("client_id", cfg.ID)))
		toolNames = tools.Names()
	}
	system := SystemPrompt(PromptInput{
		Client:            cfg,
		SystemContext:     req.SystemContext,
		ExpectsReport:     req.ExpectsReport,
		HasPrefetchedData: req.HasPrefetchedData,
		Tools:             toolNames,
	})

	events := make(chan Event)
	go func() {
		defer close(events)
		s.run(ctx, toModelMessages(system, req.Messages), tools, events)
	}()
	return events, nil
}

func (s *Service) run(ctx context.Context, messages []llms.MessageContent, tools *Toolset, events chan<- Event) {
	emit := func(e Event) bool {
		select {
		case events <- e:
			return true
		case <-ctx.Done():
			return false
		}
	}

	opts := []llms.CallOption{llms.WithMaxTokens(s.maxTokens)}
	if tools != nil {
		opts = append(opts, llms.WithTools(tools.Definitions()))
	}

	for step := 0; step < s.maxSteps; step++ {
		if !emit(Event{Type: EventStepStart}) {
			return
		}

		streamed := false
		stream := llms.WithStreamingFunc(func(ctx context.Context, chunk []byte) error {
			if len(chunk) == 0 {
				return nil
			}
			streamed = true
			if !emit(Event{Type: EventTextDelta, Text: string(chunk)}) {
				return ctx.Err()
			}
			return nil
		})

		start := time.Now()
		resp, err := s.model.GenerateContent(ctx, messages, append(opts, stream)...)
		if s.metrics != nil {
			s.metrics.LLMRequest(ctx, "chat", time.Since(start), err)
		}
		if err != nil {
			if ctx.Err() == nil {
				s.logger.Error("Chat model call failed", zap.Int("step", step), zap.Error(err))
				emit(Event{Type: EventError, Err: err})
			}
			return
		}
		text, calls := collect(resp)
		if text != "" {
			if !streamed && !emit(Event{Type: EventTextDelta, Text: text}) {
				return
			}
			messages = append(messages, llms.TextParts(llms.ChatMessageTypeAI, text))
		}

		if tools == nil || len(calls) == 0 {
			if emit(Event{Type: EventStepFinish}) {
				emit(Event{Type: EventFinish, FinishReason: FinishStop})
			}
			return
		}

		for _, call := range calls {
			input := json.RawMessage(call.FunctionCall.Arguments)
			if !emit(Event{Type: EventToolCall, ToolCallID: call.ID, ToolName: call.FunctionCall.Name, Input: input}) {
				return
			}
			out := tools.Call(ctx, call.FunctionCall.Name, input)
			if s.metrics != nil {
				var err error
				if te, ok := out.(ToolError); ok {
					err = errors.New(te.Message)
				}
				s.metrics.ToolCalled(ctx, call.FunctionCall.Name, err)
			}
			if !emit(Event{Type: EventToolResult, ToolCallID: call.ID, ToolName: call.FunctionCall.Name, Output: out}) {
				return
			}
			encoded, err := json.Marshal(out)
			if err != nil {
				encoded, _ = json.Marshal(ToolError{Error: true, Message: err.Error()})
			}
			messages = append(messages,
				llms.MessageContent{Role: llms.ChatMessageTypeAI, Parts: []llms.ContentPart{call}},
				llms.MessageContent{Role: llms.ChatMessageTypeTool, Parts: []llms.ContentPart{
					llms.ToolCallResponse{ToolCallID: call.ID, Name: call.FunctionCall.Name, Content: string(encoded)},
				}},
			)
		}
		if !emit(Event{Type: EventStepFinish}) {
			return
		}
	}

	s.logger.Info("Chat stopped at step limit", zap.Int("max_steps", s.maxSteps))
	emit(Event{Type: EventFinish, FinishReason: FinishMaxSteps})
}

// collect joins the text choices and gathers the tool calls of a response
func collect(resp *llms.ContentResponse) (string, []llms.ToolCall) {
	var (
		text  string
		calls []llms.ToolCall
	)
	if resp == nil {
		return "", nil
	}
	for _, c := range resp.Choices {
		if c == nil {
			continue
		}
		text += c.Content
		for _, tc := range c.ToolCalls {
			if tc.FunctionCall != nil {
				calls = append(calls, tc)
			}
		}
	}
	return text, calls
}

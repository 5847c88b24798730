package chat

import (
	"context"
	"errors"
	"sync"

	"github.com/tmc/langchaingo/llms"
)

type turn func(ctx context.Context, opts llms.CallOptions) (*llms.ContentResponse, error)

// scriptedModel answers each GenerateContent call with the next turn and
// records what it was sent
type scriptedModel struct {
	mu       sync.Mutex
	turns    []turn
	options  []llms.CallOptions
	messages [][]llms.MessageContent
}

func (m *scriptedModel) GenerateContent(ctx context.Context, msgs []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	var o llms.CallOptions
	for _, opt := range options {
		opt(&o)
	}
	m.mu.Lock()
	n := len(m.options)
	m.options = append(m.options, o)
	m.messages = append(m.messages, append([]llms.MessageContent(nil), msgs...))
	m.mu.Unlock()

	if n >= len(m.turns) {
		return nil, errors.New("script exhausted")
	}
	return m.turns[n](ctx, o)
}

func (m *scriptedModel) Call(context.Context, string, ...llms.CallOption) (string, error) {
	return "", errors.New("not used")
}

func (m *scriptedModel) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.options)
}

// say streams text in the given chunks
func say(chunks ...string) turn {
	return func(ctx context.Context, o llms.CallOptions) (*llms.ContentResponse, error) {
		var full string
		for _, c := range chunks {
			if o.StreamingFunc != nil {
				if err := o.StreamingFunc(ctx, []byte(c)); err != nil {
					return nil, err
				}
			}
			full += c
		}
		return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: full, StopReason: "end_turn"}}}, nil
	}
}

// use asks for one tool call
func use(id, name, args string) turn {
	return func(context.Context, llms.CallOptions) (*llms.ContentResponse, error) {
		return &llms.ContentResponse{Choices: []*llms.ContentChoice{{
			StopReason: "tool_use",
			ToolCalls: []llms.ToolCall{{
				ID:           id,
				FunctionCall: &llms.FunctionCall{Name: name, Arguments: args},
			}},
		}}}, nil
	}
}

func fail(err error) turn {
	return func(context.Context, llms.CallOptions) (*llms.ContentResponse, error) {
		return nil, err
	}
}

// block waits for cancellation
func block() turn {
	return func(ctx context.Context, o llms.CallOptions) (*llms.ContentResponse, error) {
		if o.StreamingFunc != nil {
			_ = o.StreamingFunc(ctx, []byte("thinking"))
		}
		<-ctx.Done()
		return nil, ctx.Err()
	}
}

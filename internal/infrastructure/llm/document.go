package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rooted/analytics/internal/infrastructure/config"
)

const (
	defaultBaseURL   = "https://api.anthropic.com"
	anthropicVersion = "2023-06-01"
	defaultMaxTokens = 4096
	defaultTimeout   = 120 * time.Second
)

// ErrNoText is returned when the response carries no text block
var ErrNoText = errors.New("No text response")

// ErrUnsupportedMedia is returned for media types the Messages API cannot read
var ErrUnsupportedMedia = errors.New("unsupported media type")

// Media types accepted by Extract
var documentMediaTypes = map[string]string{
	"application/pdf": "document",
	"image/jpeg":      "image",
	"image/png":       "image",
	"image/gif":       "image",
	"image/webp":      "image",
}

// SupportedMediaType reports whether mediaType can be sent to Extract
func SupportedMediaType(mediaType string) bool {
	_, ok := documentMediaTypes[mediaType]
	return ok
}

// DocumentRequest is one file plus the instructions to apply to it
type DocumentRequest struct {
	MediaType string
	Data      []byte
	Prompt    string
	MaxTokens int
}

// DocumentReader sends a document to the model and returns its text answer
type DocumentReader interface {
	ReadDocument(ctx context.Context, req DocumentRequest) (string, error)
}

// DocumentClient calls the Messages API directly
type DocumentClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	logger     *zap.Logger
}

// DocumentOption configures a DocumentClient
type DocumentOption func(*DocumentClient)

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(c *http.Client) DocumentOption {
	return func(d *DocumentClient) { d.httpClient = c }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) DocumentOption {
	return func(d *DocumentClient) { d.logger = l }
}

// NewDocumentClient builds the extraction client from the LLM settings
func NewDocumentClient(cfg config.LLMConfig, opts ...DocumentOption) (*DocumentClient, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	d := &DocumentClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		model:      cfg.ExtractionModel,
		logger:     zap.NewNop(),
	}
	if d.baseURL == "" {
		d.baseURL = defaultBaseURL
	}
	if d.model == "" {
		d.model = DefaultExtractionModel
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

type messageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type contentBlock struct {
	Type   string         `json:"type"`
	Text   string         `json:"text,omitempty"`
	Source *messageSource `json:"source,omitempty"`
}

type message struct {
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type messagesResponse struct {
	Content []contentBlock `json:"content"`
	Error   *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// APIError is a non-2xx answer from the API
type APIError struct {
	Status  int
	Type    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("anthropic api: %d %s: %s", e.Status, e.Type, e.Message)
}

// ReadDocument sends the file followed by the prompt in a single user turn
// and returns the first text block of the answer. Failures are returned as
// is; the caller decides what a failed extraction means.
func (d *DocumentClient) ReadDocument(ctx context.Context, req DocumentRequest) (string, error) {
	blockType, ok := documentMediaTypes[req.MediaType]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedMedia, req.MediaType)
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	body, err := json.Marshal(messagesRequest{
		Model:     d.model,
		MaxTokens: maxTokens,
		Messages: []message{{
			Role: "user",
			Content: []contentBlock{
				{Type: blockType, Source: &messageSource{
					Type:      "base64",
					MediaType: req.MediaType,
					Data:      base64.StdEncoding.EncodeToString(req.Data),
				}},
				{Type: "text", Text: req.Prompt},
			},
		}},
	})
	if err != nil {
		return "", err
	}

	resp, err := d.send(ctx, body)
	if err != nil {
		d.logger.Warn("Document request failed", zap.String("media_type", req.MediaType), zap.Error(err))
		return "", err
	}

	for _, block := range resp.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", ErrNoText
}

func (d *DocumentClient) send(ctx context.Context, body []byte) (*messagesResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", d.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	res, err := d.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("anthropic request: %w", err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read anthropic response: %w", err)
	}

	var out messagesResponse
	if err := json.Unmarshal(raw, &out); err != nil && res.StatusCode < 300 {
		return nil, fmt.Errorf("decode anthropic response: %w", err)
	}
	if res.StatusCode >= 300 {
		apiErr := &APIError{Status: res.StatusCode, Message: strings.TrimSpace(string(raw))}
		if out.Error != nil {
			apiErr.Type = out.Error.Type
			apiErr.Message = out.Error.Message
		}
		return nil, apiErr
	}
	return &out, nil
}

var _ DocumentReader = (*DocumentClient)(nil)

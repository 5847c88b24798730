package chat

import (
	"strings"

	"github.com/tmc/langchaingo/llms"
)

// Part is one part of a UI message. Only text parts reach the model.
type Part struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// Message is a conversation turn as posted by the chat UI. Content is the
// plain form; Parts is the UI message form.
type Message struct {
	Role    string `json:"role" binding:"required"`
	Content string `json:"content,omitempty"`
	Parts   []Part `json:"parts,omitempty"`
}

// Text joins the text parts, falling back to Content
func (m Message) Text() string {
	if len(m.Parts) == 0 {
		return m.Content
	}
	var texts []string
	for _, p := range m.Parts {
		if p.Type == "text" && p.Text != "" {
			texts = append(texts, p.Text)
		}
	}
	if len(texts) == 0 {
		return m.Content
	}
	return strings.Join(texts, "\n")
}

// Request is the body of POST /api/chat
type Request struct {
	Messages          []Message `json:"messages" binding:"required,min=1,dive"`
	SystemContext     string    `json:"systemContext,omitempty"`
	ExpectsReport     bool      `json:"expectsReport,omitempty"`
	HasPrefetchedData bool      `json:"hasPrefetchedData,omitempty"`
	DisableTools      bool      `json:"disableTools,omitempty"`
}

// toModelMessages converts the conversation, dropping empty and system turns.
// The system prompt is built server side.
func toModelMessages(system string, msgs []Message) []llms.MessageContent {
	out := make([]llms.MessageContent, 0, len(msgs)+1)
	out = append(out, llms.TextParts(llms.ChatMessageTypeSystem, system))
	for _, m := range msgs {
		text := m.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		switch m.Role {
		case "user":
			out = append(out, llms.TextParts(llms.ChatMessageTypeHuman, text))
		case "assistant":
			out = append(out, llms.TextParts(llms.ChatMessageTypeAI, text))
		}
	}
	return out
}

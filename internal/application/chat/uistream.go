package chat

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
)

// UIStreamVersion is the protocol version announced in the response headers
const UIStreamVersion = "v1"

// SetUIStreamHeaders prepares a response for the UI message stream
func SetUIStreamHeaders(h http.Header) {
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	h.Set("x-vercel-ai-ui-message-stream", UIStreamVersion)
}

// UIStreamWriter renders agent events as the UI message stream: one JSON
// chunk per SSE data line, terminated by [DONE].
type UIStreamWriter struct {
	w         io.Writer
	flush     func()
	messageID string
	textSeq   int
	textID    string
	closed    bool
}

// NewUIStreamWriter writes to w and calls flush after every chunk. flush may be nil.
func NewUIStreamWriter(w io.Writer, flush func(), messageID string) *UIStreamWriter {
	if flush == nil {
		flush = func() {}
	}
	return &UIStreamWriter{w: w, flush: flush, messageID: messageID}
}

type chunk map[string]any

func (u *UIStreamWriter) write(c chunk) error {
	b, err := json.Marshal(c)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(u.w, "data: %s\n\n", b); err != nil {
		return err
	}
	u.flush()
	return nil
}

// Start opens the message
func (u *UIStreamWriter) Start() error {
	return u.write(chunk{"type": "start", "messageId": u.messageID})
}

func (u *UIStreamWriter) endText() error {
	if u.textID == "" {
		return nil
	}
	id := u.textID
	u.textID = ""
	return u.write(chunk{"type": "text-end", "id": id})
}

// Write renders one event
func (u *UIStreamWriter) Write(e Event) error {
	switch e.Type {
	case EventStepStart:
		return u.write(chunk{"type": "start-step"})
	case EventTextDelta:
		if u.textID == "" {
			u.textID = strconv.Itoa(u.textSeq)
			u.textSeq++
			if err := u.write(chunk{"type": "text-start", "id": u.textID}); err != nil {
				return err
			}
		}
		return u.write(chunk{"type": "text-delta", "id": u.textID, "delta": e.Text})
	case EventToolCall:
		if err := u.endText(); err != nil {
			return err
		}
		return u.write(chunk{
			"type":       "tool-input-available",
			"toolCallId": e.ToolCallID,
			"toolName":   e.ToolName,
			"input":      toolInput(e.Input),
		})
	case EventToolResult:
		return u.write(chunk{"type": "tool-output-available", "toolCallId": e.ToolCallID, "output": e.Output})
	case EventStepFinish:
		if err := u.endText(); err != nil {
			return err
		}
		return u.write(chunk{"type": "finish-step"})
	case EventFinish:
		if err := u.endText(); err != nil {
			return err
		}
		return u.write(chunk{"type": "finish"})
	case EventError:
		if err := u.endText(); err != nil {
			return err
		}
		msg := "unknown error"
		if e.Err != nil {
			msg = e.Err.Error()
		}
		return u.write(chunk{"type": "error", "errorText": msg})
	}
	return nil
}

// Close ends an open text part and terminates the stream. It is idempotent.
func (u *UIStreamWriter) Close() error {
	if u.closed {
		return nil
	}
	u.closed = true
	if err := u.endText(); err != nil {
		return err
	}
	if _, err := io.WriteString(u.w, "data: [DONE]\n\n"); err != nil {
		return err
	}
	u.flush()
	return nil
}

// Pipe writes every event of the stream and closes the writer. On a write
// error (client gone) the remaining events are discarded until the producer
// closes the channel.
func (u *UIStreamWriter) Pipe(events <-chan Event) error {
	if err := u.Start(); err != nil {
		drain(events)
		return err
	}
	for e := range events {
		if err := u.Write(e); err != nil {
			drain(events)
			return err
		}
	}
	return u.Close()
}

func drain(events <-chan Event) {
	for range events {
	}
}

func toolInput(raw json.RawMessage) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || !json.Valid(trimmed) {
		return json.RawMessage("{}")
	}
	return trimmed
}

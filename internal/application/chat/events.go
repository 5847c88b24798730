package chat

import "encoding/json"

// EventType names one event of the agent stream
type EventType string

// Event types, in the order they occur within a step
const (
	EventStepStart  EventType = "step-start"
	EventTextDelta  EventType = "text-delta"
	EventToolCall   EventType = "tool-call"
	EventToolResult EventType = "tool-result"
	EventStepFinish EventType = "step-finish"
	EventFinish     EventType = "finish"
	EventError      EventType = "error"
)

// Finish reasons
const (
	FinishStop     = "stop"
	FinishMaxSteps = "max-steps"
)

// Event is one item produced by the agent loop
type Event struct {
	Type EventType

	// text-delta
	Text string

	// tool-call, tool-result
	ToolCallID string
	ToolName   string
	Input      json.RawMessage
	Output     any

	// finish
	FinishReason string

	// error
	Err error
}

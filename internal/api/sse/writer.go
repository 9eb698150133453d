// Package sse provides Server-Sent Events support for streaming chat turns.
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// EventType identifies a stream event. A successful turn emits start,
// response, end in order; a failed turn emits start then a single error.
type EventType string

const (
	// EventStart opens a turn stream.
	EventStart EventType = "start"
	// EventResponse carries the chat turn output.
	EventResponse EventType = "response"
	// EventEnd closes a successful turn stream.
	EventEnd EventType = "end"
	// EventError closes a failed turn stream.
	EventError EventType = "error"
)

// Event is the wire payload of one stream event.
type Event struct {
	Type      EventType `json:"type"`
	Data      any       `json:"data,omitempty"`
	Message   string    `json:"message,omitempty"`
	UserID    string    `json:"userId"`
	SessionID string    `json:"sessionId"`
}

// Writer writes Server-Sent Events to an HTTP response.
type Writer struct {
	writer  http.ResponseWriter
	flusher http.Flusher
}

// NewWriter creates a new SSE writer and sets the streaming headers.
func NewWriter(w http.ResponseWriter) (*Writer, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	return &Writer{
		writer:  w,
		flusher: flusher,
	}, nil
}

// WriteEvent writes one event and flushes it.
func (w *Writer) WriteEvent(event *Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if _, err := fmt.Fprintf(w.writer, "data: %s\n\n", payload); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	w.flusher.Flush()
	return nil
}

// WriteStart writes the start event of a turn.
func (w *Writer) WriteStart(userID, sessionID string) error {
	return w.WriteEvent(&Event{Type: EventStart, UserID: userID, SessionID: sessionID})
}

// WriteResponse writes the chat turn output.
func (w *Writer) WriteResponse(data any, userID, sessionID string) error {
	return w.WriteEvent(&Event{Type: EventResponse, Data: data, UserID: userID, SessionID: sessionID})
}

// WriteEnd writes the end event of a successful turn.
func (w *Writer) WriteEnd(userID, sessionID string) error {
	return w.WriteEvent(&Event{Type: EventEnd, UserID: userID, SessionID: sessionID})
}

// WriteError writes the error event of a failed turn.
func (w *Writer) WriteError(message, userID, sessionID string) error {
	return w.WriteEvent(&Event{Type: EventError, Message: message, UserID: userID, SessionID: sessionID})
}

// Flush flushes the response writer.
func (w *Writer) Flush() {
	w.flusher.Flush()
}

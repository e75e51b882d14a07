package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"
)

// Event types written to the journal. Store changes use the store's kind
// names; the rest mark the edges of a run.
const (
	EventAdd    = "add"
	EventToggle = "toggle"
	EventDelete = "delete"
	EventStart  = "start"
	EventEnd    = "end"
	EventError  = "error"
)

// Event is a single journal record.
type Event struct {
	// Type is the event type: add, toggle, delete, start, end, error
	Type string `json:"type"`

	// Timestamp is when the event occurred
	Timestamp time.Time `json:"timestamp"`

	// TaskID, Title and Completed describe the affected task after the change
	TaskID    string `json:"task_id,omitempty"`
	Title     string `json:"title,omitempty"`
	Completed bool   `json:"completed"`

	// Count is the collection size after the change
	Count int `json:"count"`

	// Version is the snapshot version after the change
	Version uint64 `json:"version"`

	// Content carries free text (for start, end and error events)
	Content string `json:"content,omitempty"`
}

// Writer writes journal events.
type Writer interface {
	Write(event Event) error
}

// StreamWriter writes events as JSON Lines to an io.Writer.
type StreamWriter struct {
	w io.Writer
}

// NewStreamWriter creates a writer that appends one JSON object per line to w.
func NewStreamWriter(w io.Writer) *StreamWriter {
	return &StreamWriter{w: w}
}

// Write encodes event and writes it followed by a newline.
func (l *StreamWriter) Write(event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal log event: %w", err)
	}
	data = append(data, '\n')
	_, err = l.w.Write(data)
	return err
}

// MultiWriter writes to multiple writers.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a writer that fans out to writers. Nil entries are
// skipped.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	kept := make([]Writer, 0, len(writers))
	for _, w := range writers {
		if w != nil {
			kept = append(kept, w)
		}
	}
	return &MultiWriter{writers: kept}
}

// Write writes the event to all underlying writers, even if one fails.
func (m *MultiWriter) Write(event Event) error {
	var errs []error
	for _, w := range m.writers {
		if err := w.Write(event); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("multi-writer errors: %v", errs)
	}
	return nil
}

// NullWriter discards every event.
type NullWriter struct{}

// Write does nothing.
func (NullWriter) Write(event Event) error {
	return nil
}

type lockedWriter struct {
	mu     sync.Mutex
	writer Writer
}

func (l *lockedWriter) Write(event Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.writer.Write(event)
}

// Locked wraps writer so concurrent Write calls are serialized. A nil writer
// becomes a NullWriter.
func Locked(writer Writer) Writer {
	if writer == nil {
		return NullWriter{}
	}
	if _, ok := writer.(*lockedWriter); ok {
		return writer
	}
	return &lockedWriter{writer: writer}
}

// Package events writes machine-readable NDJSON records for the --json mode
// of the doctor, info and init commands.
package events

import (
	"encoding/json"
	"io"
	"sync"
	"time"
)

// Event types.
const (
	TypeCheck   = "doctor.check"
	TypeVerdict = "doctor.summary"
	TypeInfo    = "info.row"
	TypeStep    = "init.step"
	TypeWarning = "warning"
	TypeFeature = "feature.report"
	TypeDone    = "init.done"
)

// Event represents a single NDJSON record.
type Event struct {
	Type      string                 `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Message   string                 `json:"message,omitempty"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// Emitter writes NDJSON events to an io.Writer safely across goroutines.
type Emitter struct {
	writer io.Writer
	mu     sync.Mutex
	now    func() time.Time
}

// NewEmitter returns a new NDJSON emitter.
func NewEmitter(w io.Writer) *Emitter {
	return &Emitter{writer: w, now: func() time.Time { return time.Now().UTC() }}
}

// Emit serializes the event to JSON and appends a newline.
func (e *Emitter) Emit(evt Event) error {
	if evt.Timestamp.IsZero() {
		evt.Timestamp = e.now()
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.writer.Write(append(payload, '\n')); err != nil {
		return err
	}

	return nil
}

// Record emits an event of type typ with the given message and fields.
// A nil Emitter discards the event, so callers can keep one code path for
// human and JSON output.
func (e *Emitter) Record(typ, message string, fields map[string]interface{}) error {
	if e == nil {
		return nil
	}
	return e.Emit(Event{Type: typ, Message: message, Fields: fields})
}

package api

import (
	"bytes"
	"io"
	"strings"
	"sync"
)

// EventWriter is an io.Writer that broadcasts each complete line written to
// it as a log event to WebSocket subscribers of one session. The lift
// handler hands one to an arm32.LiftTrace so per-instruction translation
// summaries stream live; partial writes are buffered until their newline
// arrives, and Flush pushes out any unterminated tail.
type EventWriter struct {
	broadcaster *Broadcaster
	sessionID   string
	stream      string // "diagnostic", by convention

	mu  sync.Mutex
	buf bytes.Buffer
}

// NewEventWriter creates a line-broadcasting writer for one session.
func NewEventWriter(broadcaster *Broadcaster, sessionID string, stream string) *EventWriter {
	return &EventWriter{
		broadcaster: broadcaster,
		sessionID:   sessionID,
		stream:      stream,
	}
}

// Write implements io.Writer: buffer p, then broadcast every complete line
// accumulated so far, one log event per line.
func (w *EventWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	n, err := w.buf.Write(p)
	if err != nil {
		return n, err
	}
	for {
		line, err := w.buf.ReadString('\n')
		if err != nil {
			// No newline yet; keep the partial line buffered.
			w.buf.WriteString(line)
			break
		}
		w.emit(strings.TrimRight(line, "\n"))
	}
	return n, nil
}

// Flush broadcasts any buffered partial line.
func (w *EventWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.buf.Len() == 0 {
		return
	}
	w.emit(w.buf.String())
	w.buf.Reset()
}

func (w *EventWriter) emit(line string) {
	if w.broadcaster == nil || line == "" {
		return
	}
	w.broadcaster.BroadcastLog(w.sessionID, w.stream, line)
}

var _ io.Writer = (*EventWriter)(nil)

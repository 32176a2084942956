package diag

import (
	"context"
	"log/slog"
)

// Handler accumulates messages. The zero value is ready to use. A Handler is
// not safe for concurrent use; parallel producers should each fill their own
// and merge them with Combine.
type Handler struct {
	messages []Message
}

// NewHandler returns a handler holding msgs.
func NewHandler(msgs ...Message) *Handler {
	h := &Handler{}
	h.Add(msgs...)
	return h
}

// Add appends messages.
func (h *Handler) Add(msgs ...Message) {
	h.messages = append(h.messages, msgs...)
}

// Combine merges the messages of others into h and returns h.
func (h *Handler) Combine(others ...*Handler) *Handler {
	for _, other := range others {
		if other == nil || other == h {
			continue
		}
		h.messages = append(h.messages, other.messages...)
	}
	return h
}

// Messages returns a copy of the collected messages in arrival order.
func (h *Handler) Messages() []Message {
	out := make([]Message, len(h.messages))
	copy(out, h.messages)
	return out
}

// Len returns the number of collected messages.
func (h *Handler) Len() int {
	return len(h.messages)
}

// Count returns the number of messages with exactly the given severity.
func (h *Handler) Count(severity Severity) int {
	n := 0
	for _, m := range h.messages {
		if m.Severity == severity {
			n++
		}
	}
	return n
}

// MostSevere returns the highest severity seen, or ok=false when empty.
func (h *Handler) MostSevere() (severity Severity, ok bool) {
	for i, m := range h.messages {
		if i == 0 || m.Severity > severity {
			severity = m.Severity
		}
	}
	return severity, len(h.messages) > 0
}

// AtLeast reports whether any message reaches the threshold severity.
func (h *Handler) AtLeast(threshold Severity) bool {
	severity, ok := h.MostSevere()
	return ok && severity >= threshold
}

// HasErrors reports whether any Error message was collected.
func (h *Handler) HasErrors() bool {
	return h.AtLeast(Error)
}

// Log writes every message to logger at the level matching its severity.
func (h *Handler) Log(ctx context.Context, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	for _, m := range h.messages {
		logger.Log(ctx, m.Severity.Level(), m.Text, slog.String("severity", m.Severity.String()))
	}
}

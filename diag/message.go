package diag

import (
	"fmt"
	"log/slog"
)

// Severity classifies a diagnostic.
type Severity int

const (
	// Info is purely informational.
	Info Severity = iota
	// Warning marks something suspicious that is not incorrect.
	Warning
	// Error blocks correctness.
	Error
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Level maps the severity onto a slog level.
func (s Severity) Level() slog.Level {
	switch s {
	case Error:
		return slog.LevelError
	case Warning:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// Message is a single diagnostic.
type Message struct {
	Severity Severity
	Text     string
}

// Errorf builds an Error message.
func Errorf(format string, args ...any) Message {
	return Message{Severity: Error, Text: fmt.Sprintf(format, args...)}
}

// Warningf builds a Warning message.
func Warningf(format string, args ...any) Message {
	return Message{Severity: Warning, Text: fmt.Sprintf(format, args...)}
}

// Infof builds an Info message.
func Infof(format string, args ...any) Message {
	return Message{Severity: Info, Text: fmt.Sprintf(format, args...)}
}

func (m Message) String() string {
	return fmt.Sprintf("[%s] %s", m.Severity, m.Text)
}

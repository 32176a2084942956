package diag

// Result is a value that may be absent, together with the messages that
// concern it. Results are immutable.
type Result[T any] struct {
	value    T
	present  bool
	messages []Message
}

// Of returns a present result.
func Of[T any](value T, msgs ...Message) Result[T] {
	return Result[T]{value: value, present: true, messages: clone(msgs)}
}

// Empty returns an absent result carrying msgs.
func Empty[T any](msgs ...Message) Result[T] {
	return Result[T]{messages: clone(msgs)}
}

// Get returns the value and whether it is present.
func (r Result[T]) Get() (T, bool) {
	return r.value, r.present
}

// Messages returns a copy of the attached messages.
func (r Result[T]) Messages() []Message {
	return clone(r.messages)
}

func clone(msgs []Message) []Message {
	if len(msgs) == 0 {
		return nil
	}
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out
}

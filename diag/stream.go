package diag

// Stream is a lazy, finite sequence of results. A Stream built from pure
// functions is restartable: ranging over it twice yields the same results.
// Consumers may stop early by breaking out of the range loop.
type Stream[T any] func(yield func(Result[T]) bool)

// StreamOf returns a stream over the given results.
func StreamOf[T any](results ...Result[T]) Stream[T] {
	return func(yield func(Result[T]) bool) {
		for _, r := range results {
			if !yield(r) {
				return
			}
		}
	}
}

// Values returns a stream of present results without messages.
func Values[T any](values ...T) Stream[T] {
	return func(yield func(Result[T]) bool) {
		for _, v := range values {
			if !yield(Of(v)) {
				return
			}
		}
	}
}

// Concat chains streams in order.
func Concat[T any](streams ...Stream[T]) Stream[T] {
	return func(yield func(Result[T]) bool) {
		for _, s := range streams {
			cont := true
			s(func(r Result[T]) bool {
				cont = yield(r)
				return cont
			})
			if !cont {
				return
			}
		}
	}
}

// FlatMapStream replaces every present value of s by the stream f returns for
// it. Absent results pass through with their messages.
func FlatMapStream[T, U any](s Stream[T], f func(T) Stream[U]) Stream[U] {
	return func(yield func(Result[U]) bool) {
		cont := true
		s(func(r Result[T]) bool {
			v, ok := r.Get()
			if !ok {
				cont = yield(Empty[U](r.messages...))
				return cont
			}
			if len(r.messages) > 0 {
				if cont = yield(Empty[U](r.messages...)); !cont {
					return false
				}
			}
			f(v)(func(inner Result[U]) bool {
				cont = yield(inner)
				return cont
			})
			return cont
		})
	}
}

// Collect drains s, returning the present values and every message.
func Collect[T any](s Stream[T]) ([]T, *Handler) {
	var values []T
	handler := &Handler{}
	for r := range s {
		handler.Add(r.messages...)
		if v, ok := r.Get(); ok {
			values = append(values, v)
		}
	}
	return values, handler
}

// Each calls consume for every present value and returns the messages seen.
func Each[T any](s Stream[T], consume func(T)) *Handler {
	handler := &Handler{}
	for r := range s {
		handler.Add(r.messages...)
		if v, ok := r.Get(); ok {
			consume(v)
		}
	}
	return handler
}

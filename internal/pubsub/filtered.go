package pubsub

func NewFilteredSender[T any](s ClosableSender[T], f func(T) bool) ClosableSender[T] {
	return &filteredSender[T]{
		ClosableSender: s,
		filter:         f,
	}
}

type filteredSender[T any] struct {
	ClosableSender[T]
	filter func(T) bool
}

func (s *filteredSender[T]) Send(msg T) bool {
	select {
	case <-s.Closed():
		return false
	default:
		if s.filter == nil || s.filter(msg) {
			return s.ClosableSender.Send(msg)
		}
		// "true" because channel is not closed, it "accepted" the message, it just dropped it
		return true
	}
}

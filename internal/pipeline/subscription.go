package pipeline

// Subscription is a handle returned by a Controller subscribe call.
// Unsubscribe signals the producer goroutine to stop and waits for it to
// acknowledge, so callers can release their handles in a defined order
// before the underlying controller disappears.
type Subscription interface {
	Unsubscribe()
	Err() <-chan error
}

// producerFunc is the loop body a NewSubscription runs until quit is
// closed. Returning nil after quit is closed is the normal exit path.
type producerFunc func(quit <-chan struct{}) error

// funcSubscription adapts a producerFunc into a Subscription, the same
// shape event.NewSubscription uses.
type funcSubscription struct {
	quit chan struct{}
	err  chan error
	once chan struct{}
}

// NewSubscription starts fn in its own goroutine and returns a handle that
// stops it on Unsubscribe.
func NewSubscription(fn producerFunc) Subscription {
	s := &funcSubscription{
		quit: make(chan struct{}),
		err:  make(chan error, 1),
		once: make(chan struct{}),
	}
	go func() {
		err := fn(s.quit)
		s.err <- err
		close(s.err)
	}()
	return s
}

func (s *funcSubscription) Unsubscribe() {
	select {
	case <-s.once:
		return
	default:
		close(s.once)
	}
	close(s.quit)
	<-s.err
}

func (s *funcSubscription) Err() <-chan error { return s.err }

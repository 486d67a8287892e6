package lifecycle

import (
	"context"
	"sync"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/jot/pkg/core"
)

// Subscriber is the part of core.Store a Source needs.
type Subscriber interface {
	Subscribe(l core.Listener) (unsubscribe func())
}

type storeSource struct {
	store  Subscriber
	buffer int
	out    chan lifecycle.Event
	once   sync.Once
}

// NewSource creates a lifecycle.Source that emits the store's change events.
// Events are queued up to buffer; when the consumer falls behind, new events are dropped
// so store mutations never block.
func NewSource(store Subscriber, buffer int) lifecycle.Source {
	if buffer <= 0 {
		buffer = 64
	}
	return &storeSource{
		store:  store,
		buffer: buffer,
		out:    make(chan lifecycle.Event),
	}
}

func (s *storeSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *storeSource) Start(ctx context.Context) error {
	s.once.Do(func() {
		queue := make(chan core.Event, s.buffer)
		unsubscribe := s.store.Subscribe(func(e core.Event) {
			select {
			case queue <- e:
			default:
			}
		})

		// Bridge the listener queue to the lifecycle channel on a tracked goroutine.
		lifecycle.Go(ctx, func(ctx context.Context) error {
			defer close(s.out)
			defer unsubscribe()
			for {
				select {
				case <-ctx.Done():
					return nil
				case e := <-queue:
					// core.Event implements lifecycle.Event (has String())
					select {
					case s.out <- e:
					case <-ctx.Done():
						return nil
					}
				}
			}
		})
	})
	return nil
}

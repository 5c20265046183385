package stream

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Broadcaster is an in-memory, multi-consumer stream that remembers the last
// published value. A new subscriber first receives that value and then every
// later one.
//
// Each subscriber channel holds a single value. When a subscriber has not
// consumed the previous value yet it is replaced by the newer one, so a slow
// reader never blocks Publish and always ends up on the latest snapshot.
type Broadcaster[T any] struct {
	mu          sync.RWMutex
	subscribers map[string]*subscriber[T]
	latest      T
	hasLatest   bool
	closed      bool
	logger      *slog.Logger
}

// subscriber's done is closed together with ch and releases the goroutine
// watching the subscription context.
type subscriber[T any] struct {
	ch   chan T
	done chan struct{}
}

func (s *subscriber[T]) close() {
	close(s.ch)
	close(s.done)
}

// NewBroadcaster creates a broadcaster. Pass nil logger for default.
func NewBroadcaster[T any](name string, logger *slog.Logger) *Broadcaster[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Broadcaster[T]{
		subscribers: make(map[string]*subscriber[T]),
		logger:      logger.With("component", "broadcaster", "stream", name),
	}
}

// Subscribe registers a subscriber and returns its channel together with a
// subscription ID for Unsubscribe. The subscription is removed and the
// channel closed by whichever comes first of ctx being done, Unsubscribe
// and Close. Subscribing to a closed broadcaster returns an already closed
// channel.
func (b *Broadcaster[T]) Subscribe(ctx context.Context) (<-chan T, string) {
	subID := uuid.New().String()
	sub := &subscriber[T]{ch: make(chan T, 1), done: make(chan struct{})}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		sub.close()
		return sub.ch, subID
	}
	if b.hasLatest {
		sub.ch <- b.latest
	}
	b.subscribers[subID] = sub
	b.mu.Unlock()

	b.logger.Debug("subscriber added", "sub_id", subID)

	go func() {
		select {
		case <-ctx.Done():
			b.Unsubscribe(subID)
		case <-sub.done:
		}
	}()

	return sub.ch, subID
}

// Publish records v as the latest value and hands it to every subscriber.
func (b *Broadcaster[T]) Publish(v T) {
	// Sends happen under the write lock so Unsubscribe cannot close a
	// channel mid-send. Sends never block: buffers are drained first.
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.latest = v
	b.hasLatest = true

	for subID, sub := range b.subscribers {
		ch := sub.ch
		select {
		case ch <- v:
			continue
		default:
		}

		// Buffer full: drop the stale snapshot
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- v:
		default:
			b.logger.Debug("dropped snapshot for subscriber", "sub_id", subID)
		}
	}
}

// Latest returns the last published value, if any.
func (b *Broadcaster[T]) Latest() (T, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.latest, b.hasLatest
}

// Len reports the number of active subscribers.
func (b *Broadcaster[T]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Unsubscribe removes a subscription and closes its channel.
func (b *Broadcaster[T]) Unsubscribe(subID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub, ok := b.subscribers[subID]
	if !ok {
		return
	}
	delete(b.subscribers, subID)
	sub.close()

	b.logger.Debug("subscriber removed", "sub_id", subID)
}

// Close shuts down the broadcaster and closes all subscriber channels.
func (b *Broadcaster[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for subID, sub := range b.subscribers {
		sub.close()
		delete(b.subscribers, subID)
	}

	b.logger.Debug("broadcaster closed")
}

package services

import (
	"context"
	"log/slog"
	"merquelo/stream"
	"sync"
	"time"
)

// DefaultPollInterval is how often a stream with subscribers rereads its
// table to pick up writes made by other connections.
const DefaultPollInterval = 500 * time.Millisecond

// liveSnapshot keeps a broadcaster in step with one table. Writes made
// through the service refresh it directly. While it has subscribers a
// poller rereads the table so writes from other processes show up too.
type liveSnapshot[T any] struct {
	load     func(context.Context) (T, error)
	equal    func(a, b T) bool
	b        *stream.Broadcaster[T]
	interval time.Duration
	logger   *slog.Logger

	// ctx is cancelled by close and bounds the poller's queries
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// Serializes load-then-publish so an older snapshot never overwrites a
	// newer one.
	mu      sync.Mutex
	polling bool
}

func newLiveSnapshot[T any](name string, load func(context.Context) (T, error), equal func(a, b T) bool, interval time.Duration, logger *slog.Logger) *liveSnapshot[T] {
	ctx, cancel := context.WithCancel(context.Background())
	return &liveSnapshot[T]{
		load:     load,
		equal:    equal,
		b:        stream.NewBroadcaster[T](name, logger),
		interval: interval,
		logger:   logger.With("stream", name),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// subscribe brings the snapshot up to date, registers a subscriber and
// makes sure the poller runs.
func (l *liveSnapshot[T]) subscribe(ctx context.Context) (<-chan T, string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.syncLocked(ctx); err != nil {
		return nil, "", err
	}

	ch, subID := l.b.Subscribe(ctx)
	l.startPollerLocked()
	return ch, subID, nil
}

// refresh republishes after a committed write. A failure only costs
// subscribers this update, so it is logged and dropped.
func (l *liveSnapshot[T]) refresh(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.syncLocked(context.WithoutCancel(ctx)); err != nil {
		l.logger.Warn("failed to refresh stream", "error", err)
	}
}

// syncLocked loads the table and publishes it unless subscribers already
// hold an equal snapshot.
func (l *liveSnapshot[T]) syncLocked(ctx context.Context) error {
	v, err := l.load(ctx)
	if err != nil {
		return err
	}

	if latest, ok := l.b.Latest(); ok && l.equal(latest, v) {
		return nil
	}
	l.b.Publish(v)
	return nil
}

func (l *liveSnapshot[T]) startPollerLocked() {
	if l.polling || l.ctx.Err() != nil {
		return
	}
	l.polling = true
	l.wg.Add(1)
	go l.poll()

	l.logger.Debug("poller started", "interval", l.interval)
}

func (l *liveSnapshot[T]) poll() {
	defer l.wg.Done()

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-l.ctx.Done():
			return
		case <-ticker.C:
		}

		if !l.pollOnce() {
			return
		}
	}
}

// pollOnce reports whether the poller should keep running. It stops once
// the last subscriber is gone; the next subscribe starts a new one.
func (l *liveSnapshot[T]) pollOnce() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.b.Len() == 0 || l.ctx.Err() != nil {
		l.polling = false
		l.logger.Debug("poller stopped")
		return false
	}

	if err := l.syncLocked(l.ctx); err != nil && l.ctx.Err() == nil {
		l.logger.Warn("failed to poll stream", "error", err)
	}
	return true
}

// close stops the poller and ends every subscription
func (l *liveSnapshot[T]) close() {
	l.mu.Lock()
	l.cancel()
	l.mu.Unlock()

	l.wg.Wait()
	l.b.Close()
}

package feed

import (
	"context"
	"sync"
)

// Bus fans trust updates out to in-process subscribers. Sends never
// block: a subscriber whose buffer is full misses the update.
type Bus struct {
	subscribers map[*Subscription]bool
	mu          sync.RWMutex

	shutdown   chan struct{}
	shutdownMu sync.Mutex
	isShutdown bool
}

// Subscription is one subscriber's view of the bus.
type Subscription struct {
	channel   chan Update
	bus       *Bus
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewBus creates an empty update bus.
func NewBus() *Bus {
	return &Bus{
		subscribers: make(map[*Subscription]bool),
		shutdown:    make(chan struct{}),
	}
}

// Subscribe registers a new subscriber. The subscription closes when
// the context is cancelled or the bus shuts down.
func (b *Bus) Subscribe(ctx context.Context) *Subscription {
	b.shutdownMu.Lock()
	if b.isShutdown {
		b.shutdownMu.Unlock()
		closed := &Subscription{channel: make(chan Update)}
		close(closed.channel)
		return closed
	}
	b.shutdownMu.Unlock()

	subCtx, cancel := context.WithCancel(ctx)
	sub := &Subscription{
		channel: make(chan Update, 100),
		bus:     b,
		cancel:  cancel,
	}

	b.mu.Lock()
	b.subscribers[sub] = true
	b.mu.Unlock()

	go func() {
		select {
		case <-subCtx.Done():
			sub.Unsubscribe()
		case <-b.shutdown:
			sub.close()
		}
	}()

	return sub
}

// Publish delivers the update to every subscriber without blocking.
func (b *Bus) Publish(update Update) {
	b.shutdownMu.Lock()
	if b.isShutdown {
		b.shutdownMu.Unlock()
		return
	}
	b.shutdownMu.Unlock()

	b.mu.RLock()
	subs := make([]*Subscription, 0, len(b.subscribers))
	for sub := range b.subscribers {
		subs = append(subs, sub)
	}
	b.mu.RUnlock()

	for _, sub := range subs {
		select {
		case sub.channel <- update:
		default:
			// Subscriber buffer full, update dropped.
		}
	}
}

// SubscriberCount returns the number of live subscriptions.
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Shutdown closes the bus and every subscription.
func (b *Bus) Shutdown() {
	b.shutdownMu.Lock()
	if b.isShutdown {
		b.shutdownMu.Unlock()
		return
	}
	b.isShutdown = true
	close(b.shutdown)
	b.shutdownMu.Unlock()

	b.mu.Lock()
	subs := make([]*Subscription, 0, len(b.subscribers))
	for sub := range b.subscribers {
		subs = append(subs, sub)
	}
	b.subscribers = make(map[*Subscription]bool)
	b.mu.Unlock()

	for _, sub := range subs {
		sub.close()
	}
}

// Updates returns the subscription's receive channel. The channel is
// closed when the subscription ends.
func (s *Subscription) Updates() <-chan Update {
	return s.channel
}

// Unsubscribe removes the subscription from the bus and closes its
// channel.
func (s *Subscription) Unsubscribe() {
	if s.bus != nil {
		s.bus.mu.Lock()
		delete(s.bus.subscribers, s)
		s.bus.mu.Unlock()
	}
	s.close()
}

func (s *Subscription) close() {
	s.closeOnce.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
		close(s.channel)
	})
}

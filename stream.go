package session

import (
	"sync"
)

var _ IdentityStream = &IdentityFeed{}

// IdentityFeed is an in-process IdentityStream. Every sign-in, sign-out, and
// session-restore event is published here; subscribers observe events in
// publication order. A slow subscriber backpressures the feed rather than
// reordering or dropping events.
type IdentityFeed struct {
	mu        sync.Mutex
	publishMu sync.Mutex
	subs      []*feedSubscriber
}

type feedSubscriber struct {
	ch     chan *Session
	done   chan struct{}
	once   sync.Once
	mu     sync.Mutex
	closed bool
}

func NewIdentityFeed() *IdentityFeed {
	return &IdentityFeed{}
}

// Subscribe registers a new observer. The unsubscribe handle is idempotent
// and closes the delivery channel.
func (f *IdentityFeed) Subscribe() (<-chan *Session, func()) {
	sub := &feedSubscriber{
		ch:   make(chan *Session, 8),
		done: make(chan struct{}),
	}

	f.mu.Lock()
	f.subs = append(f.subs, sub)
	f.mu.Unlock()

	return sub.ch, func() { f.unsubscribe(sub) }
}

// Publish delivers the identity to every subscriber in order. nil means
// signed out.
func (f *IdentityFeed) Publish(identity *Session) {
	f.publishMu.Lock()
	defer f.publishMu.Unlock()

	f.mu.Lock()
	subs := make([]*feedSubscriber, len(f.subs))
	copy(subs, f.subs)
	f.mu.Unlock()

	for _, sub := range subs {
		sub.send(identity)
	}
}

// Close unsubscribes every observer.
func (f *IdentityFeed) Close() {
	f.mu.Lock()
	subs := f.subs
	f.subs = nil
	f.mu.Unlock()

	for _, sub := range subs {
		sub.close()
	}
}

func (f *IdentityFeed) unsubscribe(sub *feedSubscriber) {
	f.mu.Lock()
	for i, s := range f.subs {
		if s == sub {
			f.subs = append(f.subs[:i], f.subs[i+1:]...)
			break
		}
	}
	f.mu.Unlock()

	sub.close()
}

func (s *feedSubscriber) send(v *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	select {
	case s.ch <- v:
	case <-s.done:
	}
}

func (s *feedSubscriber) close() {
	// closing done first unblocks any in-flight send before we take the lock
	s.once.Do(func() { close(s.done) })

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.ch)
}

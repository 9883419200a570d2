package game

import "sync"

// Subscriber receives marshalled events for one attached connection.
// Deliver must never block; slow consumers drop messages.
type Subscriber interface {
	Deliver(msg []byte)
}

// Bus fans typed events out to every socket attached to one room.
type Bus struct {
	mu   sync.RWMutex
	subs map[uint]Subscriber
}

func NewBus() *Bus {
	return &Bus{subs: make(map[uint]Subscriber)}
}

// Attach registers the subscriber for the user, replacing any previous
// connection for the same user.
func (b *Bus) Attach(userID uint, s Subscriber) {
	b.mu.Lock()
	b.subs[userID] = s
	b.mu.Unlock()
}

// Detach removes the user's subscriber only if s is still the
// registered one. A stale connection superseded by Attach must not
// detach its replacement. Reports whether anything was removed.
func (b *Bus) Detach(userID uint, s Subscriber) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if cur, ok := b.subs[userID]; !ok || cur != s {
		return false
	}
	delete(b.subs, userID)
	return true
}

func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Publish marshals the event once and delivers it to every subscriber.
func (b *Bus) Publish(ev Envelope) {
	msg := ev.Marshal()
	b.mu.RLock()
	subs := make([]Subscriber, 0, len(b.subs))
	for _, s := range b.subs {
		subs = append(subs, s)
	}
	b.mu.RUnlock()

	for _, s := range subs {
		s.Deliver(msg)
	}
}

// Send delivers the event to a single user, if still attached.
func (b *Bus) Send(userID uint, ev Envelope) {
	b.mu.RLock()
	s, ok := b.subs[userID]
	b.mu.RUnlock()
	if ok {
		s.Deliver(ev.Marshal())
	}
}

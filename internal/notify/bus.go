package notify

import (
	"encoding/json"
	"sync"
	"time"

	"gearshare/internal/domain/notification"
)

// Event is the wire shape pushed to live subscribers.
type Event struct {
	ID        string            `json:"id"`
	UserID    string            `json:"user_id"`
	Type      notification.Type `json:"type"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	Payload   json.RawMessage   `json:"payload,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

const defaultBufferSize = 16

// Bus fans events out to per-user subscribers. Delivery is fire-and-forget:
// a subscriber with a full buffer or no open subscription misses the push
// and catches up from stored notification rows.
type Bus struct {
	mu      sync.RWMutex
	subs    map[string]map[*Subscription]struct{}
	bufSize int
}

func NewBus() *Bus {
	return &Bus{
		subs:    make(map[string]map[*Subscription]struct{}),
		bufSize: defaultBufferSize,
	}
}

// Publish delivers the event to every open subscription of the target user.
// It never blocks the caller.
func (b *Bus) Publish(ev Event) {
	if ev.UserID == "" {
		return
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for sub := range b.subs[ev.UserID] {
		select {
		case sub.ch <- ev:
		default:
			// slow consumer, drop; durable rows remain for polling
		}
	}
}

// Subscribe opens a live event feed for the user. The caller must Close the
// subscription on teardown.
func (b *Bus) Subscribe(userID string) *Subscription {
	sub := &Subscription{
		bus:    b,
		userID: userID,
		ch:     make(chan Event, b.bufSize),
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	set, ok := b.subs[userID]
	if !ok {
		set = make(map[*Subscription]struct{})
		b.subs[userID] = set
	}
	set[sub] = struct{}{}
	return sub
}

func (b *Bus) remove(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	set, ok := b.subs[sub.userID]
	if !ok {
		return
	}
	delete(set, sub)
	if len(set) == 0 {
		delete(b.subs, sub.userID)
	}
}

// Subscription is a scoped handle on the bus. Close stops delivery and is
// safe to call more than once.
type Subscription struct {
	bus    *Bus
	userID string
	ch     chan Event
	once   sync.Once
}

// Events returns the receive channel. It is closed by Close.
func (s *Subscription) Events() <-chan Event {
	return s.ch
}

func (s *Subscription) Close() {
	s.once.Do(func() {
		s.bus.remove(s)
		close(s.ch)
	})
}

// Package events delivers typed notifications to connected clients,
// filtered by role at publish time. Delivery is best-effort and
// at-most-once per connected client; nothing is persisted or retried.
package events

import (
	"sync"

	"github.com/google/uuid"

	"orgboard/pkg/logger"
	"orgboard/pkg/model"
)

// Publisher is the capability state-changing services depend on. They
// must never see the concrete transport.
type Publisher interface {
	Publish(audience []model.Role, event model.Event)
}

type Subscription struct {
	ID    string
	Roles []model.Role
	C     <-chan model.Event

	ch chan model.Event
}

func (s *Subscription) hasAnyRole(audience []model.Role) bool {
	for _, want := range audience {
		for _, have := range s.Roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

// Bus fans events out to subscribers over buffered channels. Publish
// never blocks; a subscriber that cannot keep up misses events.
type Bus struct {
	mu     sync.RWMutex
	subs   map[string]*Subscription
	buffer int
	log    *logger.Logger
}

func NewBus(buffer int, log *logger.Logger) *Bus {
	return &Bus{
		subs:   make(map[string]*Subscription),
		buffer: buffer,
		log:    log,
	}
}

// Subscribe registers a connection with the roles of its session. The
// caller must Unsubscribe when the connection goes away.
func (b *Bus) Subscribe(roles []model.Role) *Subscription {
	ch := make(chan model.Event, b.buffer)
	sub := &Subscription{
		ID:    uuid.NewString(),
		Roles: roles,
		C:     ch,
		ch:    ch,
	}

	b.mu.Lock()
	b.subs[sub.ID] = sub
	b.mu.Unlock()

	b.log.Debug("Event subscriber registered", "subscriber_id", sub.ID, "roles", roles)
	return sub
}

func (b *Bus) Unsubscribe(sub *Subscription) {
	b.mu.Lock()
	if _, ok := b.subs[sub.ID]; ok {
		delete(b.subs, sub.ID)
		close(sub.ch)
	}
	b.mu.Unlock()

	b.log.Debug("Event subscriber removed", "subscriber_id", sub.ID)
}

// Publish delivers event to every subscriber whose roles intersect the
// audience. Fire-and-forget: full buffers drop the event for that
// subscriber only.
func (b *Bus) Publish(audience []model.Role, event model.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subs {
		if !sub.hasAnyRole(audience) {
			continue
		}
		select {
		case sub.ch <- event:
		default:
			b.log.Warn("Dropping event for slow subscriber",
				"subscriber_id", sub.ID,
				"event_type", event.Type,
			)
		}
	}
}

// SubscriberCount reports how many connections are currently registered.
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

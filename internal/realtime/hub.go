package realtime

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// subscriberBuffer bounds each subscription channel. A slow consumer
// loses events rather than blocking the listener; it will still see the
// final state on its next resync or fetch.
const subscriberBuffer = 8

type subscriber struct {
	id     int
	userID uuid.UUID
	ch     chan ApplicationEvent
}

// Hub routes application events to the students they belong to. All
// methods are safe for concurrent use.
type Hub struct {
	log *zap.Logger

	mu     sync.RWMutex
	nextID int
	subs   map[uuid.UUID]map[int]*subscriber
}

// NewHub creates an empty hub.
func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		log:  log,
		subs: make(map[uuid.UUID]map[int]*subscriber),
	}
}

// Subscribe registers interest in changes of userID's application. The
// returned release func must be called on view teardown; a forgotten
// release leaks the subscription.
func (h *Hub) Subscribe(userID uuid.UUID) (<-chan ApplicationEvent, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	sub := &subscriber{
		id:     h.nextID,
		userID: userID,
		ch:     make(chan ApplicationEvent, subscriberBuffer),
	}
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[int]*subscriber)
	}
	h.subs[userID][sub.id] = sub

	release := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if set, ok := h.subs[userID]; ok {
			if _, ok := set[sub.id]; ok {
				delete(set, sub.id)
				close(sub.ch)
				if len(set) == 0 {
					delete(h.subs, userID)
				}
			}
		}
	}
	return sub.ch, release
}

// Publish delivers an event to every subscription of the owning student.
// Events that would move a decided application backward are anomalies:
// they are logged and dropped, never delivered.
func (h *Hub) Publish(ev ApplicationEvent) {
	if ev.New == nil {
		h.log.Warn("dropping change event without new row image")
		return
	}
	if ev.Old != nil && ev.Old.Status.Terminal() {
		h.log.Warn("dropping backward status transition",
			zap.String("application_id", ev.New.ID.String()),
			zap.String("old_status", string(ev.Old.Status)),
			zap.String("new_status", string(ev.New.Status)),
		)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, sub := range h.subs[ev.New.UserID] {
		select {
		case sub.ch <- ev:
		default:
			h.log.Warn("subscriber buffer full, dropping event",
				zap.String("user_id", ev.New.UserID.String()),
			)
		}
	}
}

// Resync tells every subscriber that the change feed reconnected and
// events may have been missed; each consumer must reconcile with a
// fresh fetch.
func (h *Hub) Resync() {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, set := range h.subs {
		for _, sub := range set {
			select {
			case sub.ch <- ApplicationEvent{Resync: true}:
			default:
			}
		}
	}
}

// SubscriberCount reports how many subscriptions a student currently holds.
func (h *Hub) SubscriberCount(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[userID])
}

package api

import "sync"

// EventType names the kinds of events a lift session can emit.
type EventType string

const (
	// EventTypeLayout is sent when a lift job's CFG layout is (re)computed.
	EventTypeLayout EventType = "layout"
	// EventTypeLog carries diagnostic output produced while lifting a batch.
	EventTypeLog EventType = "log"
	// EventTypeLiftError is sent when arm32.Translate fails partway through
	// a batch.
	EventTypeLiftError EventType = "error"
)

// BroadcastEvent is one event fanned out to WebSocket subscribers.
type BroadcastEvent struct {
	Type      EventType              `json:"type"`
	SessionID string                 `json:"sessionId"`
	Data      map[string]interface{} `json:"data"`
}

// Subscription is one subscriber's view of the event stream: a session/type
// filter plus the channel matching events arrive on. The channel is closed
// by Unsubscribe (or Broadcaster.Close); receivers range over it until then.
type Subscription struct {
	SessionID  string // empty matches every session
	EventTypes map[EventType]bool
	Channel    chan BroadcastEvent
}

// matches reports whether ev passes this subscription's filters.
func (s *Subscription) matches(ev BroadcastEvent) bool {
	if s.SessionID != "" && s.SessionID != ev.SessionID {
		return false
	}
	if len(s.EventTypes) > 0 && !s.EventTypes[ev.Type] {
		return false
	}
	return true
}

// Broadcaster fans lift events out to subscribers. Subscription bookkeeping
// is plain mutex-guarded map mutation; there is no event-loop goroutine.
// Sends never block: a subscriber that falls behind loses events rather
// than stalling the lift path.
type Broadcaster struct {
	mu     sync.RWMutex
	subs   map[*Subscription]bool
	closed bool
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[*Subscription]bool)}
}

// Subscribe registers a subscription filtered to sessionID (empty = all
// sessions) and eventTypes (empty = all types). Subscribing to a closed
// broadcaster returns a subscription whose channel is already closed.
func (b *Broadcaster) Subscribe(sessionID string, eventTypes []EventType) *Subscription {
	filter := make(map[EventType]bool, len(eventTypes))
	for _, et := range eventTypes {
		filter[et] = true
	}
	sub := &Subscription{
		SessionID:  sessionID,
		EventTypes: filter,
		Channel:    make(chan BroadcastEvent, 64),
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(sub.Channel)
		return sub
	}
	b.subs[sub] = true
	return sub
}

// Unsubscribe removes sub and closes its channel. Unsubscribing twice is a
// no-op.
func (b *Broadcaster) Unsubscribe(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subs[sub] {
		delete(b.subs, sub)
		close(sub.Channel)
	}
}

// Broadcast delivers ev to every matching subscription without blocking.
func (b *Broadcaster) Broadcast(ev BroadcastEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for sub := range b.subs {
		if !sub.matches(ev) {
			continue
		}
		select {
		case sub.Channel <- ev:
		default:
			// Subscriber is too slow; drop the event for it.
		}
	}
}

// BroadcastLayout sends a newly computed CFG layout to subscribers of
// sessionID.
func (b *Broadcaster) BroadcastLayout(sessionID string, data map[string]interface{}) {
	b.Broadcast(BroadcastEvent{
		Type:      EventTypeLayout,
		SessionID: sessionID,
		Data:      data,
	})
}

// BroadcastLog sends a diagnostic line produced while lifting a batch.
func (b *Broadcaster) BroadcastLog(sessionID string, stream string, content string) {
	b.Broadcast(BroadcastEvent{
		Type:      EventTypeLog,
		SessionID: sessionID,
		Data: map[string]interface{}{
			"stream":  stream,
			"content": content,
		},
	})
}

// BroadcastLiftError sends a lift failure event (arm32.Translate returned an
// error partway through a batch).
func (b *Broadcaster) BroadcastLiftError(sessionID string, message string, details map[string]interface{}) {
	data := make(map[string]interface{})
	data["message"] = message
	for k, v := range details {
		data[k] = v
	}

	b.Broadcast(BroadcastEvent{
		Type:      EventTypeLiftError,
		SessionID: sessionID,
		Data:      data,
	})
}

// Close closes every subscription channel. Later Subscribes receive an
// already-closed channel and later Broadcasts are dropped.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for sub := range b.subs {
		close(sub.Channel)
	}
	b.subs = make(map[*Subscription]bool)
}

// SubscriptionCount returns the number of active subscriptions.
func (b *Broadcaster) SubscriptionCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Package event provides change notification for the editor engine.
//
// The bus implements an observer pattern: components subscribe to event
// types and receive synchronous callbacks when the editor publishes.
// Delivery is synchronous because all document mutation happens on a
// single logical thread; rendering workers never publish directly.
package event

import "sync"

// Type identifies the kind of event.
type Type int

const (
	// TypeDocumentChanged indicates the raw line buffer was mutated.
	TypeDocumentChanged Type = iota

	// TypeLineRendered indicates fresh rendered HTML was committed for a
	// line.
	TypeLineRendered

	// TypeRenderDropped indicates a stale render result was discarded.
	TypeRenderDropped

	// TypeSearchUpdated indicates search matches changed.
	TypeSearchUpdated

	// TypeCaretRestored indicates a pending caret restore resolved.
	TypeCaretRestored
)

// String returns the event type name.
func (t Type) String() string {
	switch t {
	case TypeDocumentChanged:
		return "document-changed"
	case TypeLineRendered:
		return "line-rendered"
	case TypeRenderDropped:
		return "render-dropped"
	case TypeSearchUpdated:
		return "search-updated"
	case TypeCaretRestored:
		return "caret-restored"
	default:
		return "unknown"
	}
}

// Event is a single notification.
type Event struct {
	Type Type

	// Line is the affected line index, -1 when not line-specific.
	Line int

	// Data carries event-specific payload (rendered HTML, match count,
	// restore location).
	Data any
}

// Observer is called when an event is published.
type Observer func(Event)

// Subscription represents an active observer subscription.
type Subscription struct {
	id  uint64
	typ Type
	all bool
	bus *Bus
}

// Unsubscribe removes this subscription.
func (s *Subscription) Unsubscribe() {
	if s.bus != nil {
		s.bus.unsubscribe(s)
	}
}

// Bus manages event subscriptions and synchronous delivery.
type Bus struct {
	mu sync.RWMutex

	// Observers that receive every event.
	global map[uint64]Observer

	// Per-type observers.
	byType map[Type]map[uint64]Observer

	nextID uint64
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{
		global: make(map[uint64]Observer),
		byType: make(map[Type]map[uint64]Observer),
	}
}

// Subscribe registers an observer for one event type.
func (b *Bus) Subscribe(typ Type, obs Observer) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	if b.byType[typ] == nil {
		b.byType[typ] = make(map[uint64]Observer)
	}
	b.byType[typ][b.nextID] = obs
	return &Subscription{id: b.nextID, typ: typ, bus: b}
}

// SubscribeAll registers an observer for every event.
func (b *Bus) SubscribeAll(obs Observer) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	b.global[b.nextID] = obs
	return &Subscription{id: b.nextID, all: true, bus: b}
}

// Publish delivers an event synchronously to all matching observers.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	observers := make([]Observer, 0, len(b.global)+len(b.byType[e.Type]))
	for _, obs := range b.global {
		observers = append(observers, obs)
	}
	for _, obs := range b.byType[e.Type] {
		observers = append(observers, obs)
	}
	b.mu.RUnlock()

	for _, obs := range observers {
		obs(e)
	}
}

func (b *Bus) unsubscribe(s *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if s.all {
		delete(b.global, s.id)
		return
	}
	if m := b.byType[s.typ]; m != nil {
		delete(m, s.id)
	}
}

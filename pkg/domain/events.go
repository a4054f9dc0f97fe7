package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventConnect    EventType = "connect"
	EventDisconnect EventType = "disconnect"
	EventTransition EventType = "transition"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SubjectID string    `json:"subject_id"`
}

// LinkEvent reports a subject entering or leaving the registry.
type LinkEvent struct {
	EventBase
	ActionLabel string `json:"action,omitempty"`
	// Replaced is set on connect when an existing record was overwritten.
	Replaced bool `json:"replaced,omitempty"`
	// Removed is set on disconnect when a record was actually deleted.
	Removed bool `json:"removed,omitempty"`
}

// TransitionEvent reports the outcome of a state change request.
type TransitionEvent struct {
	EventBase
	From      string `json:"from,omitempty"`
	Requested string `json:"requested"`
	To        string `json:"to,omitempty"`
	Err       error  `json:"-"`
}

// LifecycleHooks defines callbacks for registry observability.
type LifecycleHooks struct {
	OnConnect    func(context.Context, *LinkEvent)
	OnDisconnect func(context.Context, *LinkEvent)
	OnTransition func(context.Context, *TransitionEvent)
}

// Merge returns hooks that invoke h first and then other for every event.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnConnect:    chain(h.OnConnect, other.OnConnect),
		OnDisconnect: chain(h.OnDisconnect, other.OnDisconnect),
		OnTransition: chain(h.OnTransition, other.OnTransition),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}

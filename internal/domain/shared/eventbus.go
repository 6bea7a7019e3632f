package shared

import "context"

// EventPublisher delivers domain events to interested handlers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventHandler consumes published events. EventTypes narrows delivery;
// an empty slice subscribes the handler to everything.
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	EventTypes() []string
}

// EventSubscriber manages handler registrations on a bus.
type EventSubscriber interface {
	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
}

// EventBus is the combined publish and subscribe surface.
type EventBus interface {
	EventPublisher
	EventSubscriber
}

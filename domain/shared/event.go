package shared

import (
	"fmt"
	"time"
)

// DomainEvent something that happened inside an aggregate.
// Events are serialized to the outbox table as JSON, so implementations keep
// their payload in exported, tagged fields.
type DomainEvent interface {
	EventName() string
	OccurredOn() time.Time
	GetAggregateID() string
}

// BaseEvent common event header, embedded by concrete events.
type BaseEvent struct {
	Name        string    `json:"event_name"`
	AggregateID string    `json:"aggregate_id"`
	OccurredAt  time.Time `json:"occurred_on"`
}

// NewBaseEvent stamps an event header with the current time.
func NewBaseEvent(name, aggregateID string) BaseEvent {
	return BaseEvent{Name: name, AggregateID: aggregateID, OccurredAt: time.Now().UTC()}
}

func (e BaseEvent) EventName() string      { return e.Name }
func (e BaseEvent) OccurredOn() time.Time  { return e.OccurredAt }
func (e BaseEvent) GetAggregateID() string { return e.AggregateID }

// ValidateEvent rejects events the outbox cannot route.
func ValidateEvent(event DomainEvent) error {
	if event == nil {
		return fmt.Errorf("event cannot be nil")
	}
	if event.EventName() == "" {
		return fmt.Errorf("event name cannot be empty")
	}
	if event.GetAggregateID() == "" {
		return fmt.Errorf("aggregate ID cannot be empty")
	}
	if event.OccurredOn().IsZero() {
		return fmt.Errorf("occurred on time cannot be zero")
	}
	return nil
}

package shared

import "context"

// UnitOfWork manages the transaction boundary and aggregate event collection.
//
// Execute runs fn atomically: either every write made through ctx is
// committed together with the collected events, or none is. Nested calls
// with a context that already carries a unit of work join the outer one.
// Register* calls must pass the ctx handed to fn.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(ctx context.Context) error) error
	RegisterNew(ctx context.Context, aggregate AggregateRoot)
	RegisterDirty(ctx context.Context, aggregate AggregateRoot)
	RegisterRemoved(ctx context.Context, aggregate AggregateRoot)
}

// OutboxRepository persists domain events next to business data.
type OutboxRepository interface {
	SaveEvent(ctx context.Context, event DomainEvent) error
}

package memory

import (
	"context"
	"fmt"

	"storefront/domain/shared"
	"storefront/infrastructure/persistence"
)

type txKey struct{}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey{}).(bool)
	return v
}

// UnitOfWork serializes executions against a Store. A failed execution
// restores the store to the state it had before fn ran, so partial writes
// never survive an error.
type UnitOfWork struct {
	store *Store
}

// NewUnitOfWork creates a unit of work over store.
func NewUnitOfWork(store *Store) *UnitOfWork {
	return &UnitOfWork{store: store}
}

// Execute runs fn atomically and appends the events of registered
// aggregates to the outbox. A ctx already inside Execute joins it.
func (u *UnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTx(ctx) {
		return fn(ctx)
	}

	u.store.txMu.Lock()
	defer u.store.txMu.Unlock()

	snap := u.store.snapshot()
	txCtx := context.WithValue(ctx, txKey{}, true)
	txCtx, collector := persistence.ContextWithCollector(txCtx)

	if err := fn(txCtx); err != nil {
		u.store.restore(snap)
		return err
	}
	for _, event := range collector.PullEvents() {
		if err := u.store.SaveEvent(txCtx, event); err != nil {
			u.store.restore(snap)
			return fmt.Errorf("failed to save event to outbox: %w", err)
		}
	}
	return nil
}

func (u *UnitOfWork) RegisterNew(ctx context.Context, aggregate shared.AggregateRoot) {
	persistence.Register(ctx, aggregate)
}

func (u *UnitOfWork) RegisterDirty(ctx context.Context, aggregate shared.AggregateRoot) {
	persistence.Register(ctx, aggregate)
}

func (u *UnitOfWork) RegisterRemoved(ctx context.Context, aggregate shared.AggregateRoot) {
	persistence.Register(ctx, aggregate)
}

var _ shared.UnitOfWork = (*UnitOfWork)(nil)

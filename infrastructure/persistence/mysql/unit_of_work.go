package mysql

import (
	"context"
	"fmt"

	"storefront/domain/shared"
	"storefront/infrastructure/persistence"
	"storefront/infrastructure/persistence/retry"

	"gorm.io/gorm"
)

// UnitOfWork implements the Unit of Work pattern with GORM.
//
// The UnitOfWork itself is stateless and safe for concurrent use: the
// transaction and the registered aggregates live in the context handed to
// fn, so one instance serves every request.
type UnitOfWork struct {
	db               *gorm.DB
	outboxRepository *OutboxRepository
	retryConfig      retry.Config
}

// NewUnitOfWork creates a new UnitOfWork instance
func NewUnitOfWork(db *gorm.DB) *UnitOfWork {
	return &UnitOfWork{
		db:               db,
		outboxRepository: NewOutboxRepository(db),
		retryConfig:      retry.DefaultConfig,
	}
}

// SetRetryConfig updates the retry configuration for this UnitOfWork
func (u *UnitOfWork) SetRetryConfig(config retry.Config) {
	u.retryConfig = config
}

// Execute runs fn inside a database transaction:
//  1. begins a transaction and injects it into ctx for repositories
//  2. runs fn
//  3. writes the events of every registered aggregate to the outbox
//  4. commits on success, rolls back on error
//  5. re-runs the whole attempt on retryable errors (deadlock, lock wait
//     timeout, duplicate key race, optimistic lock conflict)
//
// A ctx that already carries a transaction joins it instead of nesting.
func (u *UnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	if persistence.TxFromContext(ctx) != nil {
		return fn(ctx)
	}

	executeOnce := func(ctx context.Context) error {
		tx := u.db.WithContext(ctx).Begin()
		if tx.Error != nil {
			return fmt.Errorf("failed to begin transaction: %w", tx.Error)
		}

		txCtx := persistence.ContextWithTx(ctx, tx)
		txCtx, collector := persistence.ContextWithCollector(txCtx)

		if err := fn(txCtx); err != nil {
			tx.Rollback()
			return err
		}

		for _, event := range collector.PullEvents() {
			if err := u.outboxRepository.SaveEvent(txCtx, event); err != nil {
				tx.Rollback()
				return fmt.Errorf("failed to save event to outbox: %w", err)
			}
		}

		if err := tx.Commit().Error; err != nil {
			return fmt.Errorf("failed to commit transaction: %w", err)
		}
		return nil
	}

	err := retry.ExecuteWithRetry(ctx, u.retryConfig, executeOnce)
	if err != nil && retry.IsDuplicateKey(err) {
		return shared.NewConflictError("record", "concurrent write conflict, please retry")
	}
	return err
}

// RegisterNew registers a newly created aggregate root for event collection
func (u *UnitOfWork) RegisterNew(ctx context.Context, aggregate shared.AggregateRoot) {
	persistence.Register(ctx, aggregate)
}

// RegisterDirty registers a modified aggregate root for event collection
func (u *UnitOfWork) RegisterDirty(ctx context.Context, aggregate shared.AggregateRoot) {
	persistence.Register(ctx, aggregate)
}

// RegisterRemoved registers a deleted aggregate root for event collection
func (u *UnitOfWork) RegisterRemoved(ctx context.Context, aggregate shared.AggregateRoot) {
	persistence.Register(ctx, aggregate)
}

// Compile-time check that UnitOfWork implements shared.UnitOfWork
var _ shared.UnitOfWork = (*UnitOfWork)(nil)

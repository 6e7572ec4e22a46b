package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/domain/shared"
	"storefront/infrastructure/persistence"
	"storefront/infrastructure/persistence/mysql/po"

	"gorm.io/gorm"
)

// ErrEventNotClaimed the event is missing or another worker moved it on.
var ErrEventNotClaimed = errors.New("outbox event not claimed")

// OutboxRepository order and cart events waiting for the relay.
type OutboxRepository struct {
	db *gorm.DB
}

func NewOutboxRepository(db *gorm.DB) *OutboxRepository {
	return &OutboxRepository{db: db}
}

func (r *OutboxRepository) conn(ctx context.Context) *gorm.DB {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

// SaveEvent inserts the event in the caller's transaction when there is one.
func (r *OutboxRepository) SaveEvent(ctx context.Context, event shared.DomainEvent) error {
	if err := shared.ValidateEvent(event); err != nil {
		return fmt.Errorf("invalid domain event: %w", err)
	}
	row, err := po.FromDomainEvent(event)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", event.EventName(), err)
	}
	if err := r.conn(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("failed to save %s to outbox: %w", event.EventName(), err)
	}
	return nil
}

// GetPendingEvents oldest pending events first, so an order's placed event
// is relayed before its status changes.
func (r *OutboxRepository) GetPendingEvents(ctx context.Context, limit int) ([]*po.OutboxEventPO, error) {
	var events []*po.OutboxEventPO
	err := r.conn(ctx).
		Where("status = ?", string(po.EventStatusPending)).
		Order("created_at ASC").
		Order("id ASC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get pending events: %w", err)
	}
	return events, nil
}

// MarkEventProcessing claims a pending event for this worker.
func (r *OutboxRepository) MarkEventProcessing(ctx context.Context, eventID string) error {
	return r.transition(ctx, eventID, po.EventStatusPending, map[string]interface{}{
		"status": string(po.EventStatusProcessing),
	})
}

// MarkEventPublished releases a claimed event as delivered.
func (r *OutboxRepository) MarkEventPublished(ctx context.Context, eventID string) error {
	return r.transition(ctx, eventID, po.EventStatusProcessing, map[string]interface{}{
		"status": string(po.EventStatusPublished),
	})
}

// MarkEventFailed returns a claimed event to the queue, or parks it as
// FAILED once it has been attempted maxRetries times.
func (r *OutboxRepository) MarkEventFailed(ctx context.Context, eventID string, maxRetries int) error {
	// MySQL assigns SET columns left to right and retry_count sorts before
	// status, so the CASE already sees the incremented count.
	return r.transition(ctx, eventID, po.EventStatusProcessing, map[string]interface{}{
		"status": gorm.Expr("CASE WHEN retry_count >= ? THEN ? ELSE ? END",
			maxRetries, string(po.EventStatusFailed), string(po.EventStatusPending)),
		"retry_count": gorm.Expr("retry_count + 1"),
	})
}

func (r *OutboxRepository) transition(ctx context.Context, eventID string, from po.EventStatus, set map[string]interface{}) error {
	set["updated_at"] = time.Now().UTC()
	result := r.conn(ctx).Model(&po.OutboxEventPO{}).
		Where("id = ? AND status = ?", eventID, string(from)).
		Updates(set)
	if result.Error != nil {
		return fmt.Errorf("failed to update outbox event %s: %w", eventID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s is not %s", ErrEventNotClaimed, eventID, from)
	}
	return nil
}

var (
	_ shared.OutboxRepository = (*OutboxRepository)(nil)
	_ OutboxStore             = (*OutboxRepository)(nil)
)

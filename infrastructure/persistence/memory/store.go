/*
Package memory in-process implementation of the persistence ports.

Used by the mock database mode and by application tests. Aggregates are
stored as reconstruction snapshots, never as live pointers, so a caller
mutating an aggregate it loaded cannot change stored state without a Save.
*/
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"storefront/domain/cart"
	"storefront/domain/catalog"
	"storefront/domain/order"
	"storefront/domain/shared"
	"storefront/infrastructure/persistence/mysql/po"
)

// Store shared state behind every memory repository.
type Store struct {
	mu sync.RWMutex
	// txMu serializes units of work; held for the whole of Execute
	txMu sync.Mutex

	products       map[string]catalog.Product
	carts          map[string]cart.ReconstructionDTO
	cartByCustomer map[string]string
	orders         map[string]order.ReconstructionDTO
	outbox         []*po.OutboxEventPO
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		products:       make(map[string]catalog.Product),
		carts:          make(map[string]cart.ReconstructionDTO),
		cartByCustomer: make(map[string]string),
		orders:         make(map[string]order.ReconstructionDTO),
	}
}

type snapshot struct {
	carts          map[string]cart.ReconstructionDTO
	cartByCustomer map[string]string
	orders         map[string]order.ReconstructionDTO
	outboxLen      int
}

// snapshot copies the mutable maps. Stored DTOs are replaced on save, never
// edited in place, so copying the maps is enough.
func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := snapshot{
		carts:          make(map[string]cart.ReconstructionDTO, len(s.carts)),
		cartByCustomer: make(map[string]string, len(s.cartByCustomer)),
		orders:         make(map[string]order.ReconstructionDTO, len(s.orders)),
		outboxLen:      len(s.outbox),
	}
	for k, v := range s.carts {
		snap.carts[k] = v
	}
	for k, v := range s.cartByCustomer {
		snap.cartByCustomer[k] = v
	}
	for k, v := range s.orders {
		snap.orders[k] = v
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts = snap.carts
	s.cartByCustomer = snap.cartByCustomer
	s.orders = snap.orders
	s.outbox = s.outbox[:snap.outboxLen]
}

// ============================================================================
// Outbox
// ============================================================================

// SaveEvent appends an event to the outbox.
func (s *Store) SaveEvent(ctx context.Context, event shared.DomainEvent) error {
	if err := shared.ValidateEvent(event); err != nil {
		return fmt.Errorf("invalid domain event: %w", err)
	}
	eventPO, err := po.FromDomainEvent(event)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outbox = append(s.outbox, eventPO)
	return nil
}

// Outbox returns a copy of every outbox entry in write order.
func (s *Store) Outbox() []po.OutboxEventPO {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := make([]po.OutboxEventPO, len(s.outbox))
	for i, e := range s.outbox {
		entries[i] = *e
	}
	return entries
}

// GetPendingEvents oldest first.
func (s *Store) GetPendingEvents(ctx context.Context, limit int) ([]*po.OutboxEventPO, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var pending []*po.OutboxEventPO
	for _, e := range s.outbox {
		if e.Status != string(po.EventStatusPending) {
			continue
		}
		copied := *e
		pending = append(pending, &copied)
	}
	sort.SliceStable(pending, func(i, j int) bool { return pending[i].CreatedAt.Before(pending[j].CreatedAt) })
	if len(pending) > limit {
		pending = pending[:limit]
	}
	return pending, nil
}

// MarkEventProcessing claims a pending event.
func (s *Store) MarkEventProcessing(ctx context.Context, eventID string) error {
	return s.updateEvent(eventID, func(e *po.OutboxEventPO) error {
		if e.Status != string(po.EventStatusPending) {
			return fmt.Errorf("event not found or already being processed: %s", eventID)
		}
		e.Status = string(po.EventStatusProcessing)
		return nil
	})
}

// MarkEventPublished marks an event as delivered.
func (s *Store) MarkEventPublished(ctx context.Context, eventID string) error {
	return s.updateEvent(eventID, func(e *po.OutboxEventPO) error {
		e.Status = string(po.EventStatusPublished)
		return nil
	})
}

// MarkEventFailed returns the event to pending until maxRetries is reached.
func (s *Store) MarkEventFailed(ctx context.Context, eventID string, maxRetries int) error {
	return s.updateEvent(eventID, func(e *po.OutboxEventPO) error {
		e.RetryCount++
		e.Status = string(po.EventStatusFailed)
		if e.RetryCount < maxRetries {
			e.Status = string(po.EventStatusPending)
		}
		return nil
	})
}

func (s *Store) updateEvent(eventID string, fn func(e *po.OutboxEventPO) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.outbox {
		if e.ID == eventID {
			if err := fn(e); err != nil {
				return err
			}
			e.UpdatedAt = time.Now()
			return nil
		}
	}
	return fmt.Errorf("event not found: %s", eventID)
}

var _ shared.OutboxRepository = (*Store)(nil)

package persistence

import (
	"context"
	"sync"

	"storefront/domain/shared"

	"gorm.io/gorm"
)

// txKey is the context key for storing the transaction
type txKey struct{}

// collectorKey is the context key for the per-execution aggregate collector
type collectorKey struct{}

// requestIDKey carries the HTTP request id down to SQL logging
type requestIDKey struct{}

// TxFromContext retrieves the GORM transaction from context
// Returns nil if no transaction is present
func TxFromContext(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return nil
}

// ContextWithTx returns a new context with the GORM transaction attached
func ContextWithTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// Collector gathers the aggregates registered during one unit-of-work
// execution so their events can be written to the outbox before commit.
type Collector struct {
	mu         sync.Mutex
	aggregates []shared.AggregateRoot
}

// Add registers an aggregate; the same aggregate is kept once.
func (c *Collector) Add(aggregate shared.AggregateRoot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, existing := range c.aggregates {
		if existing == aggregate {
			return
		}
	}
	c.aggregates = append(c.aggregates, aggregate)
}

// PullEvents drains the events of every registered aggregate in registration order.
func (c *Collector) PullEvents() []shared.DomainEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	var events []shared.DomainEvent
	for _, agg := range c.aggregates {
		events = append(events, agg.PullEvents()...)
	}
	return events
}

// ContextWithCollector attaches a fresh collector.
func ContextWithCollector(ctx context.Context) (context.Context, *Collector) {
	c := &Collector{}
	return context.WithValue(ctx, collectorKey{}, c), c
}

// CollectorFromContext returns nil outside a unit of work.
func CollectorFromContext(ctx context.Context) *Collector {
	if c, ok := ctx.Value(collectorKey{}).(*Collector); ok {
		return c
	}
	return nil
}

// Register adds aggregate to the collector in ctx, if any.
func Register(ctx context.Context, aggregate shared.AggregateRoot) {
	if c := CollectorFromContext(ctx); c != nil {
		c.Add(aggregate)
	}
}

// ContextWithRequestID attaches the request id.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestIDFromContext returns "" when no request id is attached.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

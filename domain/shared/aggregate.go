package shared

// AggregateRoot consistency boundary of an aggregate.
// All modifications go through the root; the root records domain events and
// the unit of work collects them on commit.
type AggregateRoot interface {
	ID() string

	// Version optimistic lock version
	Version() int

	// PullEvents returns and clears the recorded events
	PullEvents() []DomainEvent
}

// Entity identified by ID rather than by value.
type Entity interface {
	ID() string
}

// Actor the authenticated caller of an operation.
type Actor struct {
	CustomerID string
	Admin      bool
}

// Owns reports whether the actor may act on a resource owned by customerID.
func (a Actor) Owns(customerID string) bool {
	return a.Admin || (a.CustomerID != "" && a.CustomerID == customerID)
}

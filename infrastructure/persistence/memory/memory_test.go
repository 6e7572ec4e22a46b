package memory

import (
	"context"
	"errors"
	"testing"

	"storefront/domain/cart"
	"storefront/domain/catalog"
	"storefront/domain/order"
	"storefront/domain/shared"
	"storefront/infrastructure/persistence/mysql/po"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrder(t *testing.T, customerID string) *order.Order {
	t.Helper()
	o, err := order.NewOrder(customerID, []order.ItemRequest{
		{ProductID: "p1", ProductName: "GPU", Quantity: 1, UnitPrice: shared.MustParseMoney("10.00", "USD")},
	}, order.Discount{})
	require.NoError(t, err)
	return o
}

func TestUnitOfWork_CommitWritesOutbox(t *testing.T) {
	store := NewStore()
	uow := NewUnitOfWork(store)
	orders := NewOrderRepository(store)
	o := newOrder(t, "c1")

	err := uow.Execute(context.Background(), func(ctx context.Context) error {
		if err := orders.Save(ctx, o); err != nil {
			return err
		}
		uow.RegisterNew(ctx, o)
		return nil
	})
	require.NoError(t, err)

	outbox := store.Outbox()
	require.Len(t, outbox, 1)
	assert.Equal(t, "order.placed", outbox[0].EventType)
	assert.Equal(t, o.ID(), outbox[0].AggregateID)
}

func TestUnitOfWork_RollbackRestoresState(t *testing.T) {
	store := NewStore()
	uow := NewUnitOfWork(store)
	orders := NewOrderRepository(store)
	o := newOrder(t, "c1")
	boom := errors.New("boom")

	err := uow.Execute(context.Background(), func(ctx context.Context) error {
		require.NoError(t, orders.Save(ctx, o))
		uow.RegisterNew(ctx, o)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = orders.FindByID(context.Background(), o.ID())
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
	assert.Empty(t, store.Outbox())
}

func TestOrderRepository_VersionCheck(t *testing.T) {
	store := NewStore()
	orders := NewOrderRepository(store)
	ctx := context.Background()
	o := newOrder(t, "c1")
	require.NoError(t, orders.Save(ctx, o))

	first, err := orders.FindByID(ctx, o.ID())
	require.NoError(t, err)
	second, err := orders.FindByID(ctx, o.ID())
	require.NoError(t, err)

	require.NoError(t, first.TransitionTo(order.StatusPaid))
	require.NoError(t, orders.Save(ctx, first))
	assert.Equal(t, 1, first.Version())

	require.NoError(t, second.Cancel(""))
	err = orders.Save(ctx, second)
	assert.ErrorIs(t, err, order.ErrConcurrentModification)

	stored, err := orders.FindByID(ctx, o.ID())
	require.NoError(t, err)
	assert.Equal(t, order.StatusPaid, stored.Status())
}

func TestOrderRepository_FindItemAndDelete(t *testing.T) {
	store := NewStore()
	orders := NewOrderRepository(store)
	ctx := context.Background()
	o := newOrder(t, "c1")
	require.NoError(t, orders.Save(ctx, o))

	itemID := o.Items()[0].ID()
	owner, item, err := orders.FindItemByID(ctx, itemID)
	require.NoError(t, err)
	assert.Equal(t, o.ID(), owner.ID())
	assert.Equal(t, "p1", item.ProductID())

	_, _, err = orders.FindItemByID(ctx, "missing")
	assert.ErrorIs(t, err, order.ErrItemNotFound)

	require.NoError(t, orders.Delete(ctx, owner))
	_, err = orders.FindByID(ctx, o.ID())
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
}

func TestCartRepository_SaveAndReload(t *testing.T) {
	store := NewStore()
	carts := NewCartRepository(store)
	ctx := context.Background()

	c, err := cart.NewCart("c1")
	require.NoError(t, err)
	item, err := c.AddItem(&catalog.Product{ID: "p1", Price: shared.MustParseMoney("5.00", "USD")}, 2)
	require.NoError(t, err)
	require.NoError(t, carts.Save(ctx, c))

	// a second new cart for the same customer is a conflict
	dup, err := cart.NewCart("c1")
	require.NoError(t, err)
	assert.ErrorIs(t, carts.Save(ctx, dup), shared.ErrConflict)

	loaded, err := carts.LockByItemID(ctx, item.ID())
	require.NoError(t, err)
	assert.Equal(t, c.ID(), loaded.ID())

	// mutating a loaded cart does not leak into the store without Save
	_, err = loaded.UpdateQuantity(item.ID(), 9)
	require.NoError(t, err)
	fresh, err := carts.FindByCustomerID(ctx, "c1")
	require.NoError(t, err)
	got, ok := fresh.Item(item.ID())
	require.True(t, ok)
	assert.Equal(t, 2, got.Quantity())

	_, err = carts.FindByCustomerID(ctx, "nobody")
	assert.ErrorIs(t, err, cart.ErrCartNotFound)
}

func TestProductRepository_List(t *testing.T) {
	store := NewStore()
	products := NewProductRepository(store)
	products.Put(SeedProducts("USD")...)
	ctx := context.Background()

	gpus, err := products.List(ctx, catalog.Filter{Category: "gpu"})
	require.NoError(t, err)
	require.Len(t, gpus, 2)
	assert.Equal(t, "GeForce RTX 4070", gpus[0].Name)

	peripherals, err := products.List(ctx, catalog.Filter{Category: "peripherals", InStockOnly: true})
	require.NoError(t, err)
	assert.Empty(t, peripherals)

	page, err := products.List(ctx, catalog.Filter{Limit: 3, Offset: 2})
	require.NoError(t, err)
	assert.Len(t, page, 3)

	_, err = products.FindProduct(ctx, "ghost")
	assert.ErrorIs(t, err, catalog.ErrProductNotFound)
}

func TestStore_OutboxLifecycle(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	o := newOrder(t, "c1")
	for _, e := range o.PullEvents() {
		require.NoError(t, store.SaveEvent(ctx, e))
	}

	pending, err := store.GetPendingEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	id := pending[0].ID

	require.NoError(t, store.MarkEventProcessing(ctx, id))
	assert.Error(t, store.MarkEventProcessing(ctx, id))

	require.NoError(t, store.MarkEventFailed(ctx, id, 2))
	assert.Equal(t, string(po.EventStatusPending), store.Outbox()[0].Status)
	require.NoError(t, store.MarkEventFailed(ctx, id, 2))
	assert.Equal(t, string(po.EventStatusFailed), store.Outbox()[0].Status)
}

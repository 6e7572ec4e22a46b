package cart

import (
	"context"
	"sync"
	"testing"

	"storefront/domain/cart"
	"storefront/domain/catalog"
	"storefront/domain/pricing"
	"storefront/domain/shared"
	"storefront/infrastructure/persistence/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc      *ApplicationService
	store    *memory.Store
	products *memory.ProductRepository
}

func usd(s string) shared.Money { return shared.MustParseMoney(s, "USD") }

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	products := memory.NewProductRepository(store)
	products.Put(
		catalog.Product{ID: "p1", Name: "Widget", Category: "peripherals", Price: usd("10.00"), Stock: 5},
		catalog.Product{ID: "p2", Name: "Gadget", Category: "peripherals", Price: usd("40.00"), Stock: 5},
	)
	book, err := pricing.NewStaticCouponBook(pricing.DefaultCoupons()...)
	require.NoError(t, err)

	svc := NewApplicationService(
		memory.NewCartRepository(store),
		products,
		pricing.NewEngine(book, "USD"),
		memory.NewUnitOfWork(store),
	)
	return &fixture{svc: svc, store: store, products: products}
}

var alice = shared.Actor{CustomerID: "alice"}

func TestAddItem_MergesAndKeepsSnapshot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.AddItem(ctx, alice, AddItemRequest{ProductID: "p1", Quantity: 1})
	require.NoError(t, err)

	// price change after the first add does not affect the line
	f.products.Put(catalog.Product{ID: "p1", Name: "Widget", Price: usd("12.50"), Stock: 5})

	second, err := f.svc.AddItem(ctx, alice, AddItemRequest{ProductID: "p1", Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 3, second.Quantity)
	assert.Equal(t, "10.00", second.UnitPrice.String())
	assert.Equal(t, "30.00", second.Subtotal.String())

	view, err := f.svc.ListItems(ctx, alice)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
}

func TestAddItem_ConcurrentAddsProduceOneLine(t *testing.T) {
	f := newFixture(t)
	const workers = 20

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.AddItem(context.Background(), alice, AddItemRequest{ProductID: "p1", Quantity: 1})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	view, err := f.svc.ListItems(context.Background(), alice)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, workers, view.Items[0].Quantity)
}

func TestAddItem_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, qty := range []int{0, -1} {
		_, err := f.svc.AddItem(ctx, alice, AddItemRequest{ProductID: "p1", Quantity: qty})
		assert.ErrorIs(t, err, cart.ErrInvalidQuantity)
	}

	_, err := f.svc.AddItem(ctx, alice, AddItemRequest{ProductID: "ghost", Quantity: 1})
	assert.ErrorIs(t, err, catalog.ErrProductNotFound)

	// the failed add did not leave a cart behind
	_, err = memory.NewCartRepository(f.store).FindByCustomerID(ctx, "alice")
	assert.ErrorIs(t, err, cart.ErrCartNotFound)
}

func TestUpdateItemQuantity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item, err := f.svc.AddItem(ctx, alice, AddItemRequest{ProductID: "p1", Quantity: 2})
	require.NoError(t, err)

	t.Run("sets absolute quantity", func(t *testing.T) {
		updated, err := f.svc.UpdateItemQuantity(ctx, alice, item.ID, UpdateQuantityRequest{Quantity: 7})
		require.NoError(t, err)
		assert.Equal(t, 7, updated.Quantity)
	})

	t.Run("non-positive leaves item unchanged", func(t *testing.T) {
		for _, qty := range []int{0, -1} {
			_, err := f.svc.UpdateItemQuantity(ctx, alice, item.ID, UpdateQuantityRequest{Quantity: qty})
			assert.ErrorIs(t, err, cart.ErrInvalidQuantity)
		}
		view, err := f.svc.ListItems(ctx, alice)
		require.NoError(t, err)
		assert.Equal(t, 7, view.Items[0].Quantity)
	})

	t.Run("other customer is forbidden", func(t *testing.T) {
		_, err := f.svc.UpdateItemQuantity(ctx, shared.Actor{CustomerID: "mallory"}, item.ID, UpdateQuantityRequest{Quantity: 1})
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("admin may update", func(t *testing.T) {
		_, err := f.svc.UpdateItemQuantity(ctx, shared.Actor{CustomerID: "ops", Admin: true}, item.ID, UpdateQuantityRequest{Quantity: 3})
		assert.NoError(t, err)
	})

	t.Run("unknown item", func(t *testing.T) {
		_, err := f.svc.UpdateItemQuantity(ctx, alice, "nope", UpdateQuantityRequest{Quantity: 1})
		assert.ErrorIs(t, err, cart.ErrItemNotFound)
	})
}

func TestRemoveItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item, err := f.svc.AddItem(ctx, alice, AddItemRequest{ProductID: "p1", Quantity: 1})
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.RemoveItem(ctx, shared.Actor{CustomerID: "bob"}, item.ID), shared.ErrForbidden)
	require.NoError(t, f.svc.RemoveItem(ctx, alice, item.ID))
	assert.ErrorIs(t, f.svc.RemoveItem(ctx, alice, item.ID), cart.ErrItemNotFound)

	var types []string
	for _, e := range f.store.Outbox() {
		types = append(types, e.EventType)
	}
	assert.Equal(t, []string{"cart.item_added", "cart.item_removed"}, types)
}

func TestListItems_JoinsProductData(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	empty, err := f.svc.ListItems(ctx, alice)
	require.NoError(t, err)
	assert.NotEmpty(t, empty.ID)
	assert.Empty(t, empty.Items)
	assert.Equal(t, "0.00", empty.Subtotal.String())

	_, err = f.svc.AddItem(ctx, alice, AddItemRequest{ProductID: "p2", Quantity: 1})
	require.NoError(t, err)
	_, err = f.svc.AddItem(ctx, alice, AddItemRequest{ProductID: "p1", Quantity: 3})
	require.NoError(t, err)

	view, err := f.svc.ListItems(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, empty.ID, view.ID)
	require.Len(t, view.Items, 2)
	assert.Equal(t, "Gadget", view.Items[0].ProductName)
	assert.Equal(t, "Widget", view.Items[1].ProductName)
	assert.True(t, view.Items[1].Available)
	assert.Equal(t, "70.00", view.Subtotal.String())
}

func TestQuote(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	widgets, err := f.svc.AddItem(ctx, alice, AddItemRequest{ProductID: "p1", Quantity: 6})
	require.NoError(t, err)
	_, err = f.svc.AddItem(ctx, alice, AddItemRequest{ProductID: "p2", Quantity: 1})
	require.NoError(t, err)

	t.Run("all lines with SAVE20", func(t *testing.T) {
		q, err := f.svc.Quote(ctx, alice, QuoteRequest{CouponCode: "save20"})
		require.NoError(t, err)
		assert.Equal(t, "100.00", q.Subtotal.String())
		assert.Equal(t, "20.00", q.Discount.String())
		assert.Equal(t, "80.00", q.Total.String())
		assert.True(t, q.Applied)
		assert.Len(t, q.ItemIDs, 2)
	})

	t.Run("selected line only", func(t *testing.T) {
		q, err := f.svc.Quote(ctx, alice, QuoteRequest{ItemIDs: []string{widgets.ID}})
		require.NoError(t, err)
		assert.Equal(t, "60.00", q.Total.String())
	})

	t.Run("bogus coupon returns undiscounted quote", func(t *testing.T) {
		q, err := f.svc.Quote(ctx, alice, QuoteRequest{CouponCode: "BOGUS"})
		assert.ErrorIs(t, err, pricing.ErrInvalidCoupon)
		require.NotNil(t, q)
		assert.Equal(t, "0.00", q.Discount.String())
		assert.Equal(t, "100.00", q.Total.String())
	})

	t.Run("unknown item", func(t *testing.T) {
		_, err := f.svc.Quote(ctx, alice, QuoteRequest{ItemIDs: []string{"nope"}})
		assert.ErrorIs(t, err, cart.ErrItemNotFound)
	})

	t.Run("no cart yet", func(t *testing.T) {
		q, err := f.svc.Quote(ctx, shared.Actor{CustomerID: "newcomer"}, QuoteRequest{})
		require.NoError(t, err)
		assert.Equal(t, "0.00", q.Total.String())
	})
}

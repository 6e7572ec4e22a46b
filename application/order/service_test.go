package order

import (
	"context"
	"encoding/json"
	"testing"

	appcart "storefront/application/cart"
	"storefront/domain/cart"
	"storefront/domain/catalog"
	"storefront/domain/order"
	"storefront/domain/pricing"
	"storefront/domain/shared"
	"storefront/infrastructure/persistence/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	orders   *ApplicationService
	carts    *appcart.ApplicationService
	products *memory.ProductRepository
	store    *memory.Store
}

func usd(s string) shared.Money { return shared.MustParseMoney(s, "USD") }

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	products := memory.NewProductRepository(store)
	products.Put(
		catalog.Product{ID: "p1", Name: "Widget", Price: usd("10.00"), Stock: 5},
		catalog.Product{ID: "p2", Name: "Gadget", Price: usd("40.00"), Stock: 5},
	)
	book, err := pricing.NewStaticCouponBook(pricing.DefaultCoupons()...)
	require.NoError(t, err)
	engine := pricing.NewEngine(book, "USD")
	uow := memory.NewUnitOfWork(store)
	cartRepo := memory.NewCartRepository(store)

	return &fixture{
		orders:   NewApplicationService(memory.NewOrderRepository(store), cartRepo, products, engine, uow),
		carts:    appcart.NewApplicationService(cartRepo, products, engine, uow),
		products: products,
		store:    store,
	}
}

func (f *fixture) eventTypes() []string {
	var types []string
	for _, e := range f.store.Outbox() {
		types = append(types, e.EventType)
	}
	return types
}

var (
	alice = shared.Actor{CustomerID: "alice"}
	ops   = shared.Actor{CustomerID: "ops", Admin: true}
)

func TestPlaceOrder_Total(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	o, err := f.orders.PlaceOrder(ctx, alice, PlaceOrderRequest{
		Items: []OrderItemRequest{{ProductID: "p1", Quantity: 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, "20.00", o.Total.String())
	assert.Equal(t, "20.00", o.AmountDue.String())
	assert.Equal(t, "pending", o.Status)
	require.Len(t, o.Items, 1)
	assert.Equal(t, "10.00", o.Items[0].UnitPrice.String())
	assert.Equal(t, "Widget", o.Items[0].ProductName)

	stored, err := f.orders.GetOrder(ctx, alice, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.Total, stored.Total)
	assert.Equal(t, []string{"order.placed"}, f.eventTypes())
}

func TestPlaceOrder_MergesDuplicates(t *testing.T) {
	f := newFixture(t)
	o, err := f.orders.PlaceOrder(context.Background(), alice, PlaceOrderRequest{
		Items: []OrderItemRequest{{ProductID: "p2", Quantity: 1}, {ProductID: "p1", Quantity: 1}, {ProductID: "p2", Quantity: 2}},
	})
	require.NoError(t, err)
	require.Len(t, o.Items, 2)
	assert.Equal(t, "p2", o.Items[0].ProductID)
	assert.Equal(t, 3, o.Items[0].Quantity)
	assert.Equal(t, "130.00", o.Total.String())
}

func TestPlaceOrder_FailuresPersistNothing(t *testing.T) {
	tests := []struct {
		name string
		req  PlaceOrderRequest
		want error
	}{
		{"empty", PlaceOrderRequest{}, order.ErrEmptyOrder},
		{"unknown product", PlaceOrderRequest{Items: []OrderItemRequest{{ProductID: "p1", Quantity: 1}, {ProductID: "ghost", Quantity: 1}}}, catalog.ErrProductNotFound},
		{"zero quantity", PlaceOrderRequest{Items: []OrderItemRequest{{ProductID: "p1", Quantity: 0}}}, order.ErrInvalidQuantity},
		{"invalid coupon", PlaceOrderRequest{Items: []OrderItemRequest{{ProductID: "p1", Quantity: 1}}, CouponCode: "BOGUS"}, pricing.ErrInvalidCoupon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.orders.PlaceOrder(context.Background(), alice, tt.req)
			assert.ErrorIs(t, err, tt.want)

			orders, err := f.orders.ListOrders(context.Background(), alice)
			require.NoError(t, err)
			assert.Empty(t, orders)
			assert.Empty(t, f.store.Outbox())
		})
	}
}

func TestPlaceOrder_CouponSnapshot(t *testing.T) {
	f := newFixture(t)
	o, err := f.orders.PlaceOrder(context.Background(), alice, PlaceOrderRequest{
		Items:      []OrderItemRequest{{ProductID: "p1", Quantity: 6}, {ProductID: "p2", Quantity: 1}},
		CouponCode: "save20",
	})
	require.NoError(t, err)
	assert.Equal(t, "100.00", o.Total.String())
	assert.Equal(t, "20.00", o.Discount.String())
	assert.Equal(t, "80.00", o.AmountDue.String())
	assert.Equal(t, "SAVE20", o.CouponCode)
}

func TestCheckout_RemovesOnlyConvertedLines(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	widgets, err := f.carts.AddItem(ctx, alice, appcart.AddItemRequest{ProductID: "p1", Quantity: 2})
	require.NoError(t, err)
	gadgets, err := f.carts.AddItem(ctx, alice, appcart.AddItemRequest{ProductID: "p2", Quantity: 1})
	require.NoError(t, err)

	o, err := f.orders.Checkout(ctx, alice, CheckoutRequest{ItemIDs: []string{widgets.ID}})
	require.NoError(t, err)
	require.Len(t, o.Items, 1)
	assert.Equal(t, "p1", o.Items[0].ProductID)
	assert.Equal(t, "20.00", o.Total.String())

	view, err := f.carts.ListItems(ctx, alice)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, gadgets.ID, view.Items[0].ID)

	// nothing left selected after converting the remainder
	_, err = f.orders.Checkout(ctx, alice, CheckoutRequest{})
	require.NoError(t, err)
	_, err = f.orders.Checkout(ctx, alice, CheckoutRequest{})
	assert.ErrorIs(t, err, order.ErrEmptyOrder)
}

func TestCheckout_RepricesAtCurrentCatalogPrice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.carts.AddItem(ctx, alice, appcart.AddItemRequest{ProductID: "p1", Quantity: 2})
	require.NoError(t, err)
	f.products.Put(catalog.Product{ID: "p1", Name: "Widget", Price: usd("12.50"), Stock: 5})

	view, err := f.carts.ListItems(ctx, alice)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "10.00", view.Items[0].UnitPrice.String(), "cart keeps its snapshot")
	assert.Equal(t, "20.00", view.Subtotal.String())

	o, err := f.orders.Checkout(ctx, alice, CheckoutRequest{})
	require.NoError(t, err)
	require.Len(t, o.Items, 1)
	assert.Equal(t, "12.50", o.Items[0].UnitPrice.String())
	assert.Equal(t, "25.00", o.Total.String())

	placed, err := f.orders.PlaceOrder(ctx, alice, PlaceOrderRequest{Items: []OrderItemRequest{{ProductID: "p1", Quantity: 1}}})
	require.NoError(t, err)
	assert.Equal(t, "12.50", placed.Items[0].UnitPrice.String())
}

func TestCheckout_FailureKeepsCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.orders.Checkout(ctx, alice, CheckoutRequest{})
	assert.ErrorIs(t, err, order.ErrEmptyOrder)

	item, err := f.carts.AddItem(ctx, alice, appcart.AddItemRequest{ProductID: "p1", Quantity: 1})
	require.NoError(t, err)

	_, err = f.orders.Checkout(ctx, alice, CheckoutRequest{CouponCode: "BOGUS"})
	assert.ErrorIs(t, err, pricing.ErrInvalidCoupon)
	_, err = f.orders.Checkout(ctx, alice, CheckoutRequest{ItemIDs: []string{"nope"}})
	assert.ErrorIs(t, err, cart.ErrItemNotFound)

	view, err := f.carts.ListItems(ctx, alice)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, item.ID, view.Items[0].ID)
}

func TestOrderLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o, err := f.orders.PlaceOrder(ctx, alice, PlaceOrderRequest{Items: []OrderItemRequest{{ProductID: "p1", Quantity: 1}}})
	require.NoError(t, err)

	for _, status := range []string{"paid", "SHIPPED", "completed"} {
		o, err = f.orders.UpdateStatus(ctx, ops, o.ID, UpdateOrderStatusRequest{Status: status})
		require.NoError(t, err)
	}
	assert.Equal(t, "completed", o.Status)
	assert.Equal(t, 3, o.Version)

	_, err = f.orders.UpdateStatus(ctx, ops, o.ID, UpdateOrderStatusRequest{Status: "paid"})
	assert.ErrorIs(t, err, order.ErrInvalidTransition)
	_, err = f.orders.Cancel(ctx, alice, o.ID, CancelOrderRequest{})
	assert.ErrorIs(t, err, order.ErrInvalidTransition)
	_, err = f.orders.UpdateStatus(ctx, ops, o.ID, UpdateOrderStatusRequest{Status: "teleported"})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestUpdateStatus_FulfilmentRequiresAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o, err := f.orders.PlaceOrder(ctx, alice, PlaceOrderRequest{Items: []OrderItemRequest{{ProductID: "p1", Quantity: 1}}})
	require.NoError(t, err)

	for _, status := range []string{"paid", "shipped", "completed"} {
		_, err = f.orders.UpdateStatus(ctx, alice, o.ID, UpdateOrderStatusRequest{Status: status})
		assert.ErrorIs(t, err, shared.ErrForbidden, status)
	}
	current, err := f.orders.GetOrder(ctx, alice, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "pending", current.Status)
	assert.Equal(t, 0, current.Version)

	_, err = f.orders.UpdateStatus(ctx, shared.Actor{CustomerID: "bob"}, o.ID, UpdateOrderStatusRequest{Status: "cancelled"})
	assert.ErrorIs(t, err, shared.ErrForbidden)

	cancelled, err := f.orders.UpdateStatus(ctx, alice, o.ID, UpdateOrderStatusRequest{Status: "cancelled"})
	require.NoError(t, err)
	assert.Equal(t, "cancelled", cancelled.Status)
	assert.Equal(t, []string{"order.placed", "order.cancelled"}, f.eventTypes())
}

func TestCancel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o, err := f.orders.PlaceOrder(ctx, alice, PlaceOrderRequest{Items: []OrderItemRequest{{ProductID: "p1", Quantity: 1}}})
	require.NoError(t, err)

	_, err = f.orders.Cancel(ctx, shared.Actor{CustomerID: "bob"}, o.ID, CancelOrderRequest{})
	assert.ErrorIs(t, err, shared.ErrForbidden)

	cancelled, err := f.orders.Cancel(ctx, alice, o.ID, CancelOrderRequest{Reason: "changed my mind"})
	require.NoError(t, err)
	assert.Equal(t, "cancelled", cancelled.Status)
	assert.Equal(t, []string{"order.placed", "order.cancelled"}, f.eventTypes())
}

func TestDelete_WritesAuditEvent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o, err := f.orders.PlaceOrder(ctx, alice, PlaceOrderRequest{Items: []OrderItemRequest{{ProductID: "p2", Quantity: 2}}})
	require.NoError(t, err)

	assert.ErrorIs(t, f.orders.Delete(ctx, shared.Actor{CustomerID: "bob"}, o.ID), shared.ErrForbidden)
	assert.ErrorIs(t, f.orders.Delete(ctx, alice, o.ID), shared.ErrForbidden, "owners cannot hard-delete")
	assert.Equal(t, []string{"order.placed"}, f.eventTypes())
	require.NoError(t, f.orders.Delete(ctx, ops, o.ID))

	_, err = f.orders.GetOrder(ctx, alice, o.ID)
	assert.ErrorIs(t, err, order.ErrOrderNotFound)

	outbox := f.store.Outbox()
	require.Len(t, outbox, 2)
	audit := outbox[1]
	assert.Equal(t, "order.deleted", audit.EventType)
	assert.Equal(t, o.ID, audit.AggregateID)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(audit.Payload), &payload))
	assert.Equal(t, "ops", payload["deleted_by"])
	assert.Equal(t, "alice", payload["customer_id"])
}

func TestOrderItems(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o, err := f.orders.PlaceOrder(ctx, alice, PlaceOrderRequest{
		Items: []OrderItemRequest{{ProductID: "p1", Quantity: 1}, {ProductID: "p2", Quantity: 1}},
	})
	require.NoError(t, err)

	items, err := f.orders.ListOrderItems(ctx, alice, o.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)

	item, err := f.orders.GetOrderItem(ctx, alice, items[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "Gadget", item.ProductName)

	_, err = f.orders.GetOrderItem(ctx, shared.Actor{CustomerID: "bob"}, items[1].ID)
	assert.ErrorIs(t, err, shared.ErrForbidden)
	_, err = f.orders.GetOrderItem(ctx, alice, "nope")
	assert.ErrorIs(t, err, order.ErrItemNotFound)

	admin, err := f.orders.ListOrderItems(ctx, shared.Actor{CustomerID: "ops", Admin: true}, o.ID)
	require.NoError(t, err)
	assert.Len(t, admin, 2)
}

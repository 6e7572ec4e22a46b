package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	apicart "storefront/api/cart"
	"storefront/api/health"
	apiorder "storefront/api/order"
	"storefront/api/product"
	cartapp "storefront/application/cart"
	catalogapp "storefront/application/catalog"
	orderapp "storefront/application/order"
	"storefront/config"
	"storefront/domain/pricing"
	"storefront/infrastructure/persistence/memory"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type envelope struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	Error     string          `json:"error"`
	Code      int             `json:"code"`
	Message   string          `json:"message"`
	RequestID string          `json:"request_id"`
}

type testServer struct {
	t      *testing.T
	engine *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := &config.Config{
		App:    config.AppConfig{Name: "storefront", Version: "test", Env: "test"},
		Server: config.ServerConfig{RequestTimeout: 5 * time.Second},
		CORS: config.CORSConfig{
			AllowOrigins: []string{"http://localhost:3000"},
			AllowMethods: []string{"GET", "POST"},
			MaxAge:       86400,
		},
		Auth: config.AuthConfig{JWTSecret: testSecret, AdminClaim: "role", AdminValues: []string{"admin"}},
	}

	store := memory.NewStore()
	products := memory.NewProductRepository(store)
	products.Put(memory.SeedProducts("USD")...)
	book, err := pricing.NewStaticCouponBook(pricing.DefaultCoupons()...)
	require.NoError(t, err)
	engine := pricing.NewEngine(book, "USD")
	uow := memory.NewUnitOfWork(store)
	carts := memory.NewCartRepository(store)

	cartService := cartapp.NewApplicationService(carts, products, engine, uow)
	orderService := orderapp.NewApplicationService(memory.NewOrderRepository(store), carts, products, engine, uow)

	router := NewRouter(cfg,
		health.NewController(cfg),
		product.NewController(catalogapp.NewApplicationService(products)),
		apicart.NewController(cartService, orderService),
		apiorder.NewController(orderService),
	)
	router.SetupRoutes()
	return &testServer{t: t, engine: router.GetEngine()}
}

func token(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	if _, ok := claims["exp"]; !ok {
		claims["exp"] = time.Now().Add(time.Hour).Unix()
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func (s *testServer) do(method, path, bearer string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w, env
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	w, _ := s.do(http.MethodGet, "/api/v1/health/live", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w, _ = s.do(http.MethodGet, "/api/v1/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProducts(t *testing.T) {
	s := newTestServer(t)

	w, env := s.do(http.MethodGet, "/api/v1/products?category=gpu", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var products []catalogapp.ProductResponse
	require.NoError(t, json.Unmarshal(env.Data, &products))
	require.Len(t, products, 2)
	for _, p := range products {
		assert.Equal(t, "gpu", p.Category)
	}

	w, env = s.do(http.MethodGet, "/api/v1/products/gpu-rtx4070", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var p catalogapp.ProductResponse
	require.NoError(t, json.Unmarshal(env.Data, &p))
	assert.Equal(t, "549.99", p.Price.String())

	w, env = s.do(http.MethodGet, "/api/v1/products/ghost", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", env.Error)

	w, env = s.do(http.MethodGet, "/api/v1/products?category=toasters", "", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error)
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t)

	w, env := s.do(http.MethodGet, "/api/v1/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "UNAUTHORIZED", env.Error)

	w, _ = s.do(http.MethodGet, "/api/v1/cart", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	expired := token(t, jwt.MapClaims{"sub": "alice", "exp": time.Now().Add(-time.Minute).Unix()})
	w, _ = s.do(http.MethodGet, "/api/v1/cart", expired, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "alice"}).SignedString([]byte("other"))
	require.NoError(t, err)
	w, _ = s.do(http.MethodGet, "/api/v1/cart", forged, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCartFlow(t *testing.T) {
	s := newTestServer(t)
	alice := token(t, jwt.MapClaims{"sub": "alice"})
	bob := token(t, jwt.MapClaims{"sub": "bob"})

	w, env := s.do(http.MethodPost, "/api/v1/cart/items", alice, map[string]interface{}{"product_id": "ram-ddr5-32", "quantity": 2})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var item cartapp.LineItemResponse
	require.NoError(t, json.Unmarshal(env.Data, &item))
	assert.Equal(t, 2, item.Quantity)

	w, env = s.do(http.MethodPost, "/api/v1/cart/items", alice, map[string]interface{}{"product_id": "ram-ddr5-32", "quantity": 0})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "INVALID_QUANTITY", env.Error)

	w, env = s.do(http.MethodPost, "/api/v1/cart/items", alice, map[string]interface{}{"product_id": "ghost", "quantity": 1})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "PRODUCT_NOT_FOUND", env.Error)

	w, env = s.do(http.MethodPatch, "/api/v1/cart/items/"+item.ID, bob, map[string]interface{}{"quantity": 5})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", env.Error)

	w, env = s.do(http.MethodPatch, "/api/v1/cart/items/missing", alice, map[string]interface{}{"quantity": 5})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "CART_ITEM_NOT_FOUND", env.Error)

	w, _ = s.do(http.MethodPatch, "/api/v1/cart/items/"+item.ID, alice, map[string]interface{}{"quantity": 3})
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = s.do(http.MethodGet, "/api/v1/cart", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var view cartapp.CartView
	require.NoError(t, json.Unmarshal(env.Data, &view))
	require.Len(t, view.Items, 1)
	assert.Equal(t, 3, view.Items[0].Quantity)
	assert.NotEmpty(t, view.Items[0].ProductName)

	w, _ = s.do(http.MethodDelete, "/api/v1/cart/items/"+item.ID, bob, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = s.do(http.MethodDelete, "/api/v1/cart/items/"+item.ID, alice, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestQuote_InvalidCouponKeepsQuote(t *testing.T) {
	s := newTestServer(t)
	alice := token(t, jwt.MapClaims{"sub": "alice"})

	w, _ := s.do(http.MethodPost, "/api/v1/cart/items", alice, map[string]interface{}{"product_id": "kb-tkl", "quantity": 1})
	require.Equal(t, http.StatusCreated, w.Code)

	w, env := s.do(http.MethodPost, "/api/v1/cart/quote", alice, map[string]interface{}{"coupon_code": "bogus"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "INVALID_COUPON", env.Error)
	var quote cartapp.QuoteResponse
	require.NoError(t, json.Unmarshal(env.Data, &quote))
	assert.Equal(t, "79.99", quote.Total.String())
	assert.Equal(t, "0.00", quote.Discount.String())

	w, env = s.do(http.MethodPost, "/api/v1/cart/quote", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &quote))
	assert.Equal(t, "79.99", quote.Subtotal.String())
}

func TestOrderFlow(t *testing.T) {
	s := newTestServer(t)
	alice := token(t, jwt.MapClaims{"sub": "alice"})
	bob := token(t, jwt.MapClaims{"sub": "bob"})
	admin := token(t, jwt.MapClaims{"sub": "ops", "role": "admin"})

	w, env := s.do(http.MethodPost, "/api/v1/orders", alice, map[string]interface{}{
		"items":       []map[string]interface{}{{"product_id": "kb-tkl", "quantity": 2}},
		"coupon_code": "SAVE20",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var o orderapp.OrderResponse
	require.NoError(t, json.Unmarshal(env.Data, &o))
	assert.Equal(t, "159.98", o.Total.String())
	assert.Equal(t, "32.00", o.Discount.String())
	assert.Equal(t, "127.98", o.AmountDue.String())

	w, env = s.do(http.MethodPost, "/api/v1/orders", alice, map[string]interface{}{"items": []interface{}{}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "EMPTY_ORDER", env.Error)

	w, _ = s.do(http.MethodGet, "/api/v1/orders/"+o.ID, bob, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = s.do(http.MethodGet, "/api/v1/orders/"+o.ID, admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = s.do(http.MethodPatch, "/api/v1/orders/"+o.ID, alice, map[string]interface{}{"status": "paid"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", env.Error)

	w, env = s.do(http.MethodPatch, "/api/v1/orders/"+o.ID, admin, map[string]interface{}{"status": "shipped"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "INVALID_TRANSITION", env.Error)

	w, _ = s.do(http.MethodPatch, "/api/v1/orders/"+o.ID, admin, map[string]interface{}{"status": "paid"})
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = s.do(http.MethodGet, "/api/v1/order-items?order_id="+o.ID, alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var items []orderapp.OrderItemResponse
	require.NoError(t, json.Unmarshal(env.Data, &items))
	require.Len(t, items, 1)

	w, _ = s.do(http.MethodGet, "/api/v1/order-items/"+items[0].ID, alice, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	for _, method := range []string{http.MethodPatch, http.MethodDelete} {
		w, env = s.do(method, "/api/v1/order-items/"+items[0].ID, alice, map[string]interface{}{"quantity": 9})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "ORDER_ITEM_IMMUTABLE", env.Error)
	}
	w, _ = s.do(http.MethodPost, "/api/v1/order-items", alice, map[string]interface{}{"order_id": o.ID})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = s.do(http.MethodPost, "/api/v1/orders/"+o.ID+"/cancel", alice, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(http.MethodDelete, "/api/v1/orders/"+o.ID, alice, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = s.do(http.MethodDelete, "/api/v1/orders/"+o.ID, admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, env = s.do(http.MethodGet, "/api/v1/orders/"+o.ID, alice, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "ORDER_NOT_FOUND", env.Error)
}

func TestCheckout(t *testing.T) {
	s := newTestServer(t)
	alice := token(t, jwt.MapClaims{"sub": "alice"})

	w, env := s.do(http.MethodPost, "/api/v1/cart/checkout", alice, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "EMPTY_ORDER", env.Error)

	w, _ = s.do(http.MethodPost, "/api/v1/cart/items", alice, map[string]interface{}{"product_id": "psu-850", "quantity": 1})
	require.Equal(t, http.StatusCreated, w.Code)

	w, env = s.do(http.MethodPost, "/api/v1/cart/checkout", alice, map[string]interface{}{})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var o orderapp.OrderResponse
	require.NoError(t, json.Unmarshal(env.Data, &o))
	assert.Len(t, o.Items, 1)

	w, env = s.do(http.MethodGet, "/api/v1/orders", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var orders []orderapp.OrderResponse
	require.NoError(t, json.Unmarshal(env.Data, &orders))
	assert.Len(t, orders, 1)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/products", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "86400", w.Header().Get("Access-Control-Max-Age"))
	assert.Equal(t, "GET, POST", w.Header().Get("Access-Control-Allow-Methods"))
}

package services

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync"
	"testing"
	"time"

	"backoffice/internal/activity"
	"backoffice/internal/cache"
	"backoffice/internal/dashboard"
	"backoffice/internal/events"
	m "backoffice/internal/middlewares"
	"backoffice/internal/models"
	"backoffice/internal/orders"
	"backoffice/internal/products"
	"backoffice/internal/push"
	"backoffice/internal/session"
	"backoffice/internal/toast"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuth struct {
	response models.AuthLoginResponse
}

func (f *fakeAuth) Login(context.Context, string, string) (models.AuthLoginResponse, error) {
	return f.response, nil
}

type fakeShop struct {
	mu            sync.Mutex
	productWrites int
	statusUpdates map[string]string
}

func (f *fakeShop) ListOrders(context.Context, int, int) (models.OrderPage, error) {
	return models.OrderPage{
		Orders: []models.Order{
			{ID: "a1", RawStatus: "approved", Total: decimal.NewFromInt(100)},
			{ID: "a2", RawStatus: "pending", Total: decimal.NewFromInt(50)},
			{ID: "a3", RawStatus: "Shipped", Total: decimal.NewFromInt(75)},
		},
		Pagination: models.Pagination{CurrentPage: 1, TotalPages: 1, TotalOrders: 3},
	}, nil
}

func (f *fakeShop) UpdateOrderStatus(_ context.Context, id string, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.statusUpdates == nil {
		f.statusUpdates = map[string]string{}
	}
	f.statusUpdates[id] = status
	return nil
}

func (f *fakeShop) ListProducts(context.Context, int) ([]models.Product, error) {
	return []models.Product{
		{ID: "p1", Name: "Ragi Flour", Description: "Millet", Category: models.CategoryFlourProducts, Price: decimal.NewFromInt(85), Stock: 0},
		{ID: "p2", Name: "Bombay Rava", Description: "Semolina", Category: models.CategoryRavaSooji, Price: decimal.NewFromInt(40), Stock: 20},
		{ID: "p3", Name: "Wheat Flour", Description: "Chakki atta", Category: models.CategoryFlourProducts, Price: decimal.NewFromInt(60), Stock: 5},
	}, nil
}

func (f *fakeShop) CreateProduct(_ context.Context, draft models.ProductDraft, _ models.ImageUpload) (models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.productWrites++
	return models.Product{ID: "p9", Name: draft.Name}, nil
}

func (f *fakeShop) UpdateProduct(context.Context, string, models.ProductPatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.productWrites++
	return nil
}

func (f *fakeShop) DeleteProduct(context.Context, string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.productWrites++
	return nil
}

func (f *fakeShop) DashboardStats(context.Context) (models.DashboardStats, error) {
	return models.DashboardStats{TotalRevenue: decimal.NewFromInt(225), TotalOrders: 3}, nil
}

func (f *fakeShop) ProductStats(context.Context) ([]models.CategoryCount, error) {
	return nil, nil
}

type testConsole struct {
	router   chi.Router
	shop     *fakeShop
	auth     *fakeAuth
	fanOut   *events.FanOut
	sessions *session.Manager
}

func newTestConsole(t *testing.T) *testConsole {
	t.Helper()

	shop := &fakeShop{}
	auth := &fakeAuth{response: models.AuthLoginResponse{Success: true, Role: models.RoleAdmin, Token: "tok"}}
	board := toast.NewBoard(20)
	audit := activity.NewMemoryClient()
	t.Cleanup(func() { _ = audit.Close() })

	sessions := session.NewManager(session.NewCacheStore(cache.NewMemoryCache()), auth, board, audit)
	fanOut := events.NewFanOut(events.NewPendingQueue(), board, nil)
	fetcher := dashboard.NewFetcher(shop, models.DashboardConfiguration{
		StalenessMinutes: 5, RecentOrdersLimit: 5, ProductsLimit: 100,
	})
	pushClient := push.NewClient([]push.ITransport{push.NewMemoryTransport("test")}, "admin", "console-test")

	r := chi.NewRouter()
	r.Use(m.Logger)
	r.Mount("/auth", AuthService{Sessions: sessions}.Routes())
	r.Mount("/", StatusService{Push: pushClient, Queue: fanOut.Queue(), Fetcher: fetcher, Toasts: board}.Routes())
	r.Group(func(r chi.Router) {
		r.Use(m.RequireSession(sessions))
		r.Mount("/dashboard", DashboardService{
			Dashboard: dashboard.NewController(fetcher, fanOut.Queue(), fanOut.Trigger(), board),
			Queue:     fanOut.Queue(),
		}.Routes())
		r.Mount("/orders", OrderService{Orders: orders.NewController(shop, board, audit, 50)}.Routes())
		r.Mount("/products", ProductService{
			Products: products.NewController(shop, board, audit, models.ProductsConfiguration{
				ListingLimit: 100, PageSize: 2, MaxImageSize: 5 * 1024 * 1024,
			}),
			PageSize: 2,
		}.Routes())
		r.Mount("/activity", ActivityService{ActivityLogger: audit}.Routes())
	})

	return &testConsole{router: r, shop: shop, auth: auth, fanOut: fanOut, sessions: sessions}
}

func (c *testConsole) do(method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, req)
	return rec
}

func (c *testConsole) login(t *testing.T) {
	t.Helper()
	rec := c.do(http.MethodPost, "/auth/login", models.AuthLoginBody{Email: "admin@sithee.in", Password: "secret"})
	require.Equal(t, http.StatusCreated, rec.Code)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestAuthService_LoginLogout(t *testing.T) {
	console := newTestConsole(t)

	rec := console.do(http.MethodGet, "/auth/session", nil)
	assert.False(t, decode[models.SessionResponse](t, rec).Authenticated)

	console.login(t)
	rec = console.do(http.MethodGet, "/auth/session", nil)
	assert.True(t, decode[models.SessionResponse](t, rec).Authenticated)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	rec = console.do(http.MethodPost, "/auth/logout", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = console.do(http.MethodPost, "/auth/logout", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthService_LoginRejections(t *testing.T) {
	console := newTestConsole(t)

	rec := console.do(http.MethodPost, "/auth/login", map[string]string{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	console.auth.response = models.AuthLoginResponse{Success: true, Role: "customer", Token: "tok"}
	rec = console.do(http.MethodPost, "/auth/login", models.AuthLoginBody{Email: "user@sithee.in", Password: "secret"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, []string{"You are not an admin"}, decode[models.Error](t, rec).Error)
	assert.False(t, console.sessions.Authenticated())
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	console := newTestConsole(t)

	for _, path := range []string{"/dashboard/", "/orders/", "/products/", "/activity/"} {
		rec := console.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestOrderService_ListFiltersByStatus(t *testing.T) {
	console := newTestConsole(t)
	console.login(t)

	rec := console.do(http.MethodGet, "/orders/?status=Processing&page=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	response := decode[models.OrderListResponse](t, rec)
	require.Len(t, response.Orders, 1)
	assert.Equal(t, "a1", response.Orders[0].ID)
	assert.Equal(t, 3, response.Stats.Total)
	assert.Equal(t, 1, response.Stats.ByStatus[models.OrderStatusProcessing])
	assert.Equal(t, 0, response.Stats.ByStatus[models.OrderStatusCancelled])

	rec = console.do(http.MethodGet, "/orders/?limit=many", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOrderService_StatusChanges(t *testing.T) {
	console := newTestConsole(t)
	console.login(t)

	rec := console.do(http.MethodPut, "/orders/a2/status", models.OrderStatusBody{Status: "Lost"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = console.do(http.MethodPut, "/orders/a2/status", models.OrderStatusBody{Status: "Shipped"})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = console.do(http.MethodPost, "/orders/a1/cancel", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	assert.Equal(t, map[string]string{"a2": "Shipped", "a1": "Cancelled"}, console.shop.statusUpdates)
}

func TestProductService_List(t *testing.T) {
	console := newTestConsole(t)
	console.login(t)

	rec := console.do(http.MethodGet, "/products/?q=flour", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	response := decode[models.ProductListResponse](t, rec)
	assert.Equal(t, 2, response.Matched)
	assert.Equal(t, 1, response.TotalPages)
	assert.Equal(t, models.Inventory{Total: 3, InStock: 2, OutOfStock: 1}, response.Inventory)

	rec = console.do(http.MethodGet, "/products/?page=2", nil)
	response = decode[models.ProductListResponse](t, rec)
	require.Len(t, response.Products, 1)
	assert.Equal(t, "p3", response.Products[0].ID)

	rec = console.do(http.MethodGet, "/products/?filter=Stock%20%3E%200%20%26%26%20Stock%20%3C%2010", nil)
	response = decode[models.ProductListResponse](t, rec)
	require.Len(t, response.Products, 1)
	assert.Equal(t, "p3", response.Products[0].ID)

	rec = console.do(http.MethodGet, "/products/?filter=Stock%20%2B", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func multipartProduct(t *testing.T, imageSize int) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	fields := map[string]string{
		"name":        "Ragi Flour",
		"description": "Stone ground",
		"price":       "85",
		"category":    string(models.CategoryFlourProducts),
		"stock":       "10",
		"features":    "Organic, High fibre",
	}
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="image"; filename="ragi.png"`)
	header.Set("Content-Type", "image/png")
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(bytes.Repeat([]byte{1}, imageSize))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/products/", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestProductService_CreateMultipart(t *testing.T) {
	console := newTestConsole(t)
	console.login(t)

	rec := httptest.NewRecorder()
	console.router.ServeHTTP(rec, multipartProduct(t, 5*1024*1024+1))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, []string{"Image size should be less than 5MB"}, decode[models.Error](t, rec).Error)
	assert.Zero(t, console.shop.productWrites)

	rec = httptest.NewRecorder()
	console.router.ServeHTTP(rec, multipartProduct(t, 2048))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "p9", decode[models.Product](t, rec).ID)
	assert.Equal(t, 1, console.shop.productWrites)
}

func TestProductService_UpdateDelete(t *testing.T) {
	console := newTestConsole(t)
	console.login(t)

	rec := console.do(http.MethodPut, "/products/p2/", map[string]any{
		"name": "Bombay Rava", "description": "Semolina", "price": "42",
		"category": string(models.CategoryRavaSooji), "stock": 18,
	})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = console.do(http.MethodDelete, "/products/p2/", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 2, console.shop.productWrites)
}

func TestDashboardService_PendingLedger(t *testing.T) {
	console := newTestConsole(t)
	console.login(t)

	console.fanOut.OnPushEvent(context.Background(), models.NewOrderEvent(models.OrderSummary{
		CustomerName: "Priya", Total: decimal.NewFromInt(250),
	}, time.Now()))

	rec := console.do(http.MethodGet, "/dashboard/pending/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	pending := decode[models.PendingResponse](t, rec)
	require.Len(t, pending.Events, 1)
	assert.Equal(t, 1, pending.NewOrderCount)

	rec = console.do(http.MethodGet, "/status", nil)
	status := decode[models.StatusResponse](t, rec)
	assert.Equal(t, models.PushStatusOffline, status.Push)
	assert.Equal(t, 1, status.Pending)

	rec = console.do(http.MethodDelete, "/dashboard/pending/", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Zero(t, console.fanOut.Queue().Len())

	rec = console.do(http.MethodGet, "/toasts", nil)
	toasts := decode[[]models.Toast](t, rec)
	require.NotEmpty(t, toasts)
	assert.True(t, strings.HasPrefix(toasts[0].Message, "New order from Priya!"))
}

func TestDashboardService_Snapshot(t *testing.T) {
	console := newTestConsole(t)
	console.login(t)

	rec := console.do(http.MethodGet, "/dashboard/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	snapshot := decode[models.DashboardSnapshot](t, rec)
	assert.Equal(t, 3, snapshot.TotalOrders)
	assert.Equal(t, 3, snapshot.TotalProducts)
	assert.True(t, snapshot.TotalRevenue.Equal(decimal.NewFromInt(225)))

	rec = console.do(http.MethodGet, "/status", nil)
	assert.NotNil(t, decode[models.StatusResponse](t, rec).LastFetched)
}

func TestActivityService_Search(t *testing.T) {
	console := newTestConsole(t)
	console.login(t)

	rec := console.do(http.MethodGet, "/activity/?action=login", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	entries := decode[struct {
		Data []map[string]any `json:"data"`
	}](t, rec).Data
	require.Len(t, entries, 1)
	assert.Equal(t, "login", entries[0]["action"])

	rec = console.do(http.MethodGet, "/activity/daily?days=0", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = console.do(http.MethodGet, "/activity/?days=400", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

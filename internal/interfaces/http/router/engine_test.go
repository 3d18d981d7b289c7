package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/application/store"
	"github.com/storefront/backend/internal/domain/cart"
	catalogclient "github.com/storefront/backend/internal/infrastructure/catalog"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/event"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const productsFixture = `{"products":[
	{"id":1,"title":"Essence Mascara Lash Princess","price":10,"thumbnail":"https://cdn.dummyjson.com/1/thumbnail.png","images":["https://cdn.dummyjson.com/1/1.png"]},
	{"id":2,"title":"Eyeshadow Palette with Mirror","price":19.99,"thumbnail":"https://cdn.dummyjson.com/2/thumbnail.png","images":[]}
],"total":2,"skip":0,"limit":12}`

const productFixture = `{"id":1,"title":"Essence Mascara Lash Princess","price":10,"thumbnail":"https://cdn.dummyjson.com/1/thumbnail.png","images":["https://cdn.dummyjson.com/1/1.png"]}`

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *dto.ErrorInfo  `json:"error"`
}

type testApp struct {
	engine    *gin.Engine
	snapshots *persistence.MemorySnapshotStore
}

func newCatalogServer(t *testing.T, status int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/products", func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		assert.Equal(t, "12", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(productsFixture))
	})
	mux.HandleFunc("/products/1", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(productFixture))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestApp(t *testing.T, catalogStatus int, pinger handler.Pinger) *testApp {
	t.Helper()
	log := zap.NewNop()

	snapshots := persistence.NewMemorySnapshotStore()
	bus := event.NewInMemoryEventBus(log)
	registry := store.NewRegistry(snapshots, bus, store.RegistryConfig{}, log)

	srv := newCatalogServer(t, catalogStatus)
	products, err := catalogclient.NewClient(catalogclient.Config{BaseURL: srv.URL, PageSize: 12, Timeout: 5 * time.Second})
	require.NoError(t, err)

	if pinger == nil {
		pinger = snapshots
	}
	engine, err := NewEngine(EngineOptions{
		HTTP:        config.HTTPConfig{MaxBodySize: 1 << 20, CORSAllowOrigins: []string{"*"}},
		ServiceName: "storefront-test",
	}, log, Handlers{
		Health:  handler.NewHealthHandler(pinger, config.DriverMemory),
		Catalog: handler.NewCatalogHandler(products),
		Counter: handler.NewCounterHandler(store.NewCounterService(registry)),
		Cart:    handler.NewCartHandler(store.NewCartService(registry, products)),
	})
	require.NoError(t, err)
	return &testApp{engine: engine, snapshots: snapshots}
}

func (a *testApp) do(t *testing.T, method, path, session string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if session != "" {
		req.Header.Set(middleware.CartSessionHeader, session)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func decodeCart(t *testing.T, env envelope) store.CartResponse {
	t.Helper()
	var resp store.CartResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	return resp
}

func TestEngine_Health(t *testing.T) {
	app := newTestApp(t, http.StatusOK, nil)

	w, env := app.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	var health handler.HealthResponse
	require.NoError(t, json.Unmarshal(env.Data, &health))
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, config.DriverMemory, health.Driver)
}

type downPinger struct{}

func (downPinger) Ping(context.Context) error { return errors.New("connection refused") }

func TestEngine_HealthDegraded(t *testing.T) {
	app := newTestApp(t, http.StatusOK, downPinger{})

	w, env := app.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.False(t, env.Success)

	var health handler.HealthResponse
	require.NoError(t, json.Unmarshal(env.Data, &health))
	assert.Equal(t, "down", health.Storage)
	assert.Equal(t, "connection refused", health.Error)
}

func TestEngine_Catalog(t *testing.T) {
	app := newTestApp(t, http.StatusOK, nil)

	w, env := app.do(t, http.MethodGet, "/api/v1/catalog/products", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list handler.ProductListResponse
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, 2, list.Count)
	assert.Equal(t, "Essence Mascara Lash Princess", list.Products[0].Title)
	assert.True(t, list.Products[1].Price.Equal(decimal.RequireFromString("19.99")))
}

func TestEngine_CatalogUpstreamFailure(t *testing.T) {
	app := newTestApp(t, http.StatusInternalServerError, nil)

	w, env := app.do(t, http.MethodGet, "/api/v1/catalog/products", "", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, dto.ErrCodeUpstream, env.Error.Code)
	assert.Equal(t, "failed to fetch products. status: 500", env.Error.Message)
}

func TestEngine_CounterFloor(t *testing.T) {
	app := newTestApp(t, http.StatusOK, nil)
	session := uuid.NewString()

	w, env := app.do(t, http.MethodPost, "/api/v1/counter/decrement", session, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, dto.ErrCodeInvalidState, env.Error.Code)

	app.do(t, http.MethodPost, "/api/v1/counter/increment", session, nil)
	w, env = app.do(t, http.MethodPost, "/api/v1/counter/increment", session, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var counter store.CounterResponse
	require.NoError(t, json.Unmarshal(env.Data, &counter))
	assert.Equal(t, int64(2), counter.Value)

	w, env = app.do(t, http.MethodPost, "/api/v1/counter/decrement", session, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &counter))
	assert.Equal(t, int64(1), counter.Value)

	// Another session starts from zero
	_, env = app.do(t, http.MethodGet, "/api/v1/counter", uuid.NewString(), nil)
	require.NoError(t, json.Unmarshal(env.Data, &counter))
	assert.Equal(t, int64(0), counter.Value)
}

func TestEngine_SessionIssuedWhenMissing(t *testing.T) {
	app := newTestApp(t, http.StatusOK, nil)

	w, _ := app.do(t, http.MethodGet, "/api/v1/cart", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	issued := w.Header().Get(middleware.CartSessionHeader)
	_, err := uuid.Parse(issued)
	assert.NoError(t, err)

	w, _ = app.do(t, http.MethodGet, "/api/v1/cart", issued, nil)
	assert.Equal(t, issued, w.Header().Get(middleware.CartSessionHeader))
}

func TestEngine_CartLifecycle(t *testing.T) {
	app := newTestApp(t, http.StatusOK, nil)
	session := uuid.NewString()
	item := map[string]any{
		"id":    1,
		"title": "Essence Mascara Lash Princess",
		"price": "10",
		"image": "https://cdn.dummyjson.com/1/1.png",
	}

	w, env := app.do(t, http.MethodPost, "/api/v1/cart/items", session, item)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Len(t, decodeCart(t, env).Items, 1)

	// Adding the same product merges into the existing line
	w, env = app.do(t, http.MethodPost, "/api/v1/cart/products/1", session, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decodeCart(t, env)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 2, resp.Items[0].Quantity)
	assert.True(t, resp.Summary.Subtotal.Equal(decimal.NewFromInt(20)))
	assert.True(t, resp.Summary.Tax.Equal(decimal.NewFromInt(2)))
	assert.True(t, resp.Summary.Total.Equal(decimal.NewFromInt(22)))

	raw, err := app.snapshots.Get(context.Background(), cart.SnapshotKey("", session))
	require.NoError(t, err)
	persisted, err := cart.DecodeSnapshot(raw)
	require.NoError(t, err)
	assert.Equal(t, 2, persisted.Items[0].Quantity)

	_, env = app.do(t, http.MethodGet, "/api/v1/cart/items/1", session, nil)
	var contains store.ContainsResponse
	require.NoError(t, json.Unmarshal(env.Data, &contains))
	assert.True(t, contains.InCart)

	_, env = app.do(t, http.MethodPost, "/api/v1/cart/items/1/increment", session, nil)
	assert.Equal(t, 3, decodeCart(t, env).Items[0].Quantity)

	_, env = app.do(t, http.MethodPut, "/api/v1/cart/items/1/quantity", session, map[string]int{"quantity": 1})
	assert.Equal(t, 1, decodeCart(t, env).Items[0].Quantity)

	_, env = app.do(t, http.MethodPost, "/api/v1/cart/items/1/decrement", session, nil)
	assert.Equal(t, 1, decodeCart(t, env).Items[0].Quantity)

	w, env = app.do(t, http.MethodDelete, "/api/v1/cart/items/1", session, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeCart(t, env).Items)

	_, env = app.do(t, http.MethodGet, "/api/v1/cart/items/1", session, nil)
	require.NoError(t, json.Unmarshal(env.Data, &contains))
	assert.False(t, contains.InCart)

	app.do(t, http.MethodPost, "/api/v1/cart/products/1", session, nil)
	w, env = app.do(t, http.MethodDelete, "/api/v1/cart", session, nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp = decodeCart(t, env)
	assert.Empty(t, resp.Items)
	assert.Equal(t, 0, resp.Summary.ItemCount)
}

func TestEngine_CartErrors(t *testing.T) {
	app := newTestApp(t, http.StatusOK, nil)
	session := uuid.NewString()

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		code   string
	}{
		{"missing title", http.MethodPost, "/api/v1/cart/items", map[string]any{"id": 1, "price": "10"}, http.StatusBadRequest, dto.ErrCodeValidation},
		{"missing price", http.MethodPost, "/api/v1/cart/items", map[string]any{"id": 1, "title": "Essence Mascara"}, http.StatusBadRequest, dto.ErrCodeValidation},
		{"invalid quantity", http.MethodPut, "/api/v1/cart/items/1/quantity", map[string]int{"quantity": 0}, http.StatusBadRequest, dto.ErrCodeValidation},
		{"non numeric id", http.MethodDelete, "/api/v1/cart/items/abc", nil, http.StatusBadRequest, dto.ErrCodeBadRequest},
		{"unknown product", http.MethodPost, "/api/v1/cart/products/99", nil, http.StatusNotFound, dto.ErrCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := app.do(t, tt.method, tt.path, session, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.code, env.Error.Code)
		})
	}
}

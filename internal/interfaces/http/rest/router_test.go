package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hapkiduki/catalog-go/internal/application/handler"
	"github.com/hapkiduki/catalog-go/internal/application/port"
	"github.com/hapkiduki/catalog-go/internal/domain/entity"
	"github.com/hapkiduki/catalog-go/internal/domain/valueobject"
	"github.com/hapkiduki/catalog-go/internal/infrastructure/metrics"
	"github.com/hapkiduki/catalog-go/internal/infrastructure/persistance/memory"
	"github.com/hapkiduki/catalog-go/internal/interfaces/http/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func (l nopLogger) With(...interface{}) port.Logger { return l }

func (l nopLogger) WithContext(context.Context) port.Logger { return l }

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code             string         `json:"code"`
		Message          string         `json:"message"`
		Details          map[string]any `json:"details"`
		ValidationErrors []struct {
			Field string `json:"field"`
		} `json:"validation_errors"`
	} `json:"error"`
	Meta *struct {
		RequestID string `json:"request_id"`
		Timestamp string `json:"timestamp"`
	} `json:"meta"`
}

type testServer struct {
	router   http.Handler
	products *memory.ProductRepository
	registry *prometheus.Registry
}

func newTestServer(t *testing.T, rl middleware.RateLimiterConfig, checks map[string]Pinger) *testServer {
	t.Helper()

	products := memory.NewProductRepository()
	carriers := memory.NewCarrierRepository(1, 2, 3)

	pid, err := valueobject.NewProductID(10)
	require.NoError(t, err)
	p, err := entity.NewProduct(pid, "BOOK-10", "Go book")
	require.NoError(t, err)
	require.NoError(t, products.Create(context.Background(), p))

	reg := prometheus.NewRegistry()
	m := metrics.NewPrometheus(reg, "catalog")
	log := nopLogger{}

	if checks == nil {
		checks = map[string]Pinger{"products": products}
	}

	router := NewRouter(RouterConfig{
		Version:            "test",
		CORSAllowedOrigins: []string{"*"},
		RequestTimeout:     time.Second,
		RateLimit:          rl,
		Logger:             log,
		Metrics:            m,
		MetricsHandler:     promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		Health:             NewHealthHandler("test", checks),
		Shipping: NewShippingHandler(
			handler.NewUpdateProductShippingHandler(products, carriers, log, m),
			handler.NewGetProductShippingHandler(products),
			log,
		),
	})
	return &testServer{router: router, products: products, registry: reg}
}

func (s *testServer) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		_ = json.Unmarshal(rec.Body.Bytes(), &env)
	}
	return rec, env
}

func TestRouter_UpdateAndGetShipping(t *testing.T) {
	s := newTestServer(t, middleware.RateLimiterConfig{}, nil)

	rec, env := s.do(t, http.MethodPatch, "/api/v1/products/10/shipping", `{
		"width": "10.5",
		"height": 20,
		"depth": "3",
		"weight": "1.2",
		"additional_shipping_cost": "4.5",
		"carrier_references": [1, "2"],
		"delivery_time_notes_type": 2,
		"localized_delivery_time_in_stock_notes": {"en-US": "Ships in 24h"}
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.True(t, env.Success)
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
	assert.Equal(t, "test", rec.Header().Get("X-API-Version"))

	var view struct {
		Width                 string            `json:"width"`
		Height                string            `json:"height"`
		Weight                string            `json:"weight"`
		AdditionalCost        string            `json:"additional_shipping_cost"`
		CarrierReferences     []int             `json:"carrier_references"`
		DeliveryTimeNotesType string            `json:"delivery_time_notes_type"`
		InStock               map[string]string `json:"localized_delivery_time_in_stock_notes"`
		Version               int               `json:"version"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, "10.5", view.Width)
	assert.Equal(t, "20", view.Height)
	assert.Equal(t, "4.50", view.AdditionalCost)
	assert.Equal(t, []int{1, 2}, view.CarrierReferences)
	assert.Equal(t, "specific", view.DeliveryTimeNotesType)
	assert.Equal(t, "Ships in 24h", view.InStock["en-US"])
	assert.Equal(t, 2, view.Version)

	rec, env = s.do(t, http.MethodGet, "/api/v1/products/10/shipping", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, "1.2", view.Weight)
	assert.Equal(t, 2, view.Version)
}

func TestRouter_ShippingErrors(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   string
	}{
		{"unknown product", http.MethodGet, "/api/v1/products/99/shipping", "", http.StatusNotFound, CodeNotFound},
		{"non numeric id", http.MethodGet, "/api/v1/products/abc/shipping", "", http.StatusBadRequest, CodeBadRequest},
		{"zero id", http.MethodPatch, "/api/v1/products/0/shipping", `{"weight":"1"}`, http.StatusBadRequest, CodeBadRequest},
		{"malformed json", http.MethodPatch, "/api/v1/products/10/shipping", `{"weight":`, http.StatusBadRequest, CodeBadRequest},
		{"invalid fields", http.MethodPatch, "/api/v1/products/10/shipping", `{"weight":"heavy","carrier_references":[0]}`, http.StatusUnprocessableEntity, CodeValidationError},
		{"empty update", http.MethodPatch, "/api/v1/products/10/shipping", `{}`, http.StatusUnprocessableEntity, CodeValidationError},
		{"negative weight", http.MethodPatch, "/api/v1/products/10/shipping", `{"weight":"-1"}`, http.StatusUnprocessableEntity, CodeValidationError},
		{"huge exponent", http.MethodPatch, "/api/v1/products/10/shipping", `{"width":"1e10000000","height":"1","depth":"1"}`, http.StatusUnprocessableEntity, CodeValidationError},
		{"excess fraction digits", http.MethodPatch, "/api/v1/products/10/shipping", `{"weight":"0.1234567"}`, http.StatusUnprocessableEntity, CodeValidationError},
		{"excess integer digits", http.MethodPatch, "/api/v1/products/10/shipping", `{"additional_shipping_cost":"123456789012345"}`, http.StatusUnprocessableEntity, CodeValidationError},
		{"non numeric id update", http.MethodPatch, "/api/v1/products/abc/shipping", `{"weight":"1"}`, http.StatusBadRequest, CodeBadRequest},
		{"unknown carrier", http.MethodPatch, "/api/v1/products/10/shipping", `{"carrier_references":[1,42]}`, http.StatusUnprocessableEntity, CodeCarrierNotFound},
		{"unknown product update", http.MethodPatch, "/api/v1/products/99/shipping", `{"weight":"1"}`, http.StatusNotFound, CodeNotFound},
		{"unknown route", http.MethodGet, "/api/v1/nothing", "", http.StatusNotFound, CodeNotFound},
		{"method not allowed", http.MethodDelete, "/api/v1/products/10/shipping", "", http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, middleware.RateLimiterConfig{}, nil)
			rec, env := s.do(t, tt.method, tt.path, tt.body)

			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.False(t, env.Success)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.code, env.Error.Code)
		})
	}
}

func TestRouter_OutOfRangeDecimalLeavesProductUntouched(t *testing.T) {
	s := newTestServer(t, middleware.RateLimiterConfig{}, nil)

	rec, env := s.do(t, http.MethodPatch, "/api/v1/products/10/shipping", `{"width":"1e10000000","height":"1","depth":"1"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Message, "out of range")
	assert.Less(t, rec.Body.Len(), 1024)

	rec, env = s.do(t, http.MethodGet, "/api/v1/products/10/shipping", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var view struct {
		Width   string `json:"width"`
		Version int    `json:"version"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, "0", view.Width)
	assert.Equal(t, 1, view.Version)
}

func TestRouter_InvalidProductIDMessageIsShared(t *testing.T) {
	s := newTestServer(t, middleware.RateLimiterConfig{}, nil)

	_, get := s.do(t, http.MethodGet, "/api/v1/products/abc/shipping", "")
	_, patch := s.do(t, http.MethodPatch, "/api/v1/products/abc/shipping", `{"weight":"1"}`)
	require.NotNil(t, get.Error)
	require.NotNil(t, patch.Error)
	assert.Equal(t, get.Error.Message, patch.Error.Message)
}

func TestRouter_ValidationErrorsListEveryField(t *testing.T) {
	s := newTestServer(t, middleware.RateLimiterConfig{}, nil)

	_, env := s.do(t, http.MethodPatch, "/api/v1/products/10/shipping",
		`{"width":"x","depth":"-","delivery_time_notes_type":7}`)
	require.NotNil(t, env.Error)

	var fields []string
	for _, ve := range env.Error.ValidationErrors {
		fields = append(fields, ve.Field)
	}
	assert.ElementsMatch(t, []string{"width", "depth", "delivery_time_notes_type"}, fields)
}

func TestRouter_MissingCarriersAreDetailed(t *testing.T) {
	s := newTestServer(t, middleware.RateLimiterConfig{}, nil)

	rec, env := s.do(t, http.MethodPatch, "/api/v1/products/10/shipping", `{"carrier_references":[42,1,43]}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, []any{42.0, 43.0}, env.Error.Details["missing_carrier_references"])

	require.NotNil(t, env.Meta)
	assert.Equal(t, rec.Header().Get(middleware.RequestIDHeader), env.Meta.RequestID)
	assert.NotEmpty(t, env.Meta.Timestamp)
}

func TestRouter_PatchRequiresJSON(t *testing.T) {
	s := newTestServer(t, middleware.RateLimiterConfig{}, nil)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/products/10/shipping", strings.NewReader(`weight=1`))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestRouter_HealthAndReadiness(t *testing.T) {
	s := newTestServer(t, middleware.RateLimiterConfig{}, nil)

	rec, _ := s.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)

	rec, _ = s.do(t, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"products"`)

	down := newTestServer(t, middleware.RateLimiterConfig{}, map[string]Pinger{
		"database": pingFunc(func(context.Context) error { return errors.New("connection refused") }),
	})
	rec, _ = down.do(t, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	s := newTestServer(t, middleware.RateLimiterConfig{}, nil)

	s.do(t, http.MethodPatch, "/api/v1/products/10/shipping", `{"weight":"2"}`)
	s.do(t, http.MethodGet, "/api/v1/products/10/shipping", "")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `catalog_product_shipping_updates_total{result="success"} 1`)
	assert.Contains(t, body, `route="/api/v1/products/{productID}/shipping`)
}

func TestRouter_RateLimit(t *testing.T) {
	s := newTestServer(t, middleware.RateLimiterConfig{RequestedPerSecond: 0.001, Burst: 1}, nil)

	rec, _ := s.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	mfs, err := s.registry.Gather()
	require.NoError(t, err)
	var found bool
	for _, mf := range mfs {
		if mf.GetName() == "catalog_"+middleware.MetricRateLimitExceeded {
			found = true
		}
	}
	assert.True(t, found)
}

package routes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/evjoints/admin-backend/api/middleware"
	"github.com/evjoints/admin-backend/internal/customers"
	"github.com/evjoints/admin-backend/internal/loyalty"
	pkgauth "github.com/evjoints/admin-backend/pkg/auth"
	"github.com/evjoints/admin-backend/pkg/config"
	"github.com/evjoints/admin-backend/pkg/db/models"
	"github.com/evjoints/admin-backend/pkg/logger"
	"github.com/evjoints/admin-backend/pkg/metrics"
)

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

func setupRouterTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	ddl := []string{`
CREATE TABLE IF NOT EXISTS customer (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  first_name TEXT NOT NULL DEFAULT '',
  last_name TEXT NOT NULL DEFAULT '',
  email TEXT,
  mobile TEXT NOT NULL DEFAULT '',
  created_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS my_vehicles (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  customer_id INTEGER NOT NULL,
  vehicle_type_id INTEGER,
  manufacturer_id INTEGER,
  vehicle_model_id INTEGER,
  vehicle_variant_id INTEGER,
  vehicle_registration_no TEXT,
  created_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS vehicle_type_master (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL
);`, `
CREATE TABLE IF NOT EXISTS manufacturer_master (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL
);`, `
CREATE TABLE IF NOT EXISTS vehicle_model_master (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL
);`, `
CREATE TABLE IF NOT EXISTS vehicle_variant_master (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL
);`, `
CREATE TABLE IF NOT EXISTS devices (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  customer_id INTEGER NOT NULL,
  brand TEXT,
  model TEXT,
  type TEXT,
  version_number TEXT
);`, `
CREATE TABLE IF NOT EXISTS trip (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  customer_id INTEGER NOT NULL,
  vehicle_id INTEGER,
  trip_status TEXT NOT NULL DEFAULT 'SAVED',
  status INTEGER NOT NULL DEFAULT 1,
  distance REAL,
  feedback TEXT,
  source TEXT,
  source_latitude REAL,
  source_longitude REAL,
  destination TEXT,
  destination_latitude REAL,
  destination_longitude REAL,
  no_of_charging_stations INTEGER NOT NULL DEFAULT 0,
  connector_id TEXT,
  battery_capacity TEXT,
  story_status TEXT,
  story_action_by TEXT,
  story_blog_link TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS loyalty_points (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  station_id INTEGER,
  customer_id INTEGER,
  points INTEGER NOT NULL DEFAULT 0,
  approved_status TEXT NOT NULL DEFAULT 'PENDING',
  created_at DATETIME
);`}

	for _, stmt := range ddl {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	return conn
}

func newTestRouter(t *testing.T, conn *gorm.DB) (http.Handler, *config.Config) {
	t.Helper()

	cfg := &config.Config{
		App: config.AppConfig{Env: "test"},
		JWT: config.JWTConfig{
			Secret:            "router-test-secret",
			Issuer:            "evjoints-admin",
			ExpirationMinutes: 30,
		},
		Uploads: config.UploadsConfig{MaxBytes: 1 << 20},
	}
	logg := logger.New(logger.Options{ServiceName: "router-test"})

	customerService, err := customers.NewService(customers.ServiceParams{
		Repo:    customers.NewRepository(conn),
		Loyalty: loyalty.NewRepository(conn),
	})
	require.NoError(t, err)

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)

	router := NewRouter(RouterParams{
		Config:          cfg,
		Logger:          logg,
		DB:              okPinger{},
		CustomerService: customerService,
		HTTPMetrics:     httpMetrics,
		MetricsGatherer: registry,
		OTPRateLimit: middleware.OTPRateLimitPolicy{
			Name:        "otp",
			Window:      time.Minute,
			IPLimit:     20,
			MobileLimit: 3,
		},
	})
	return router, cfg
}

func TestHealthLive(t *testing.T) {
	router, _ := newTestRouter(t, setupRouterTestDB(t))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "test", rec.Header().Get("X-EVJoints-Env"))
}

func TestProtectedRouteRejectsAnonymous(t *testing.T) {
	router, _ := newTestRouter(t, setupRouterTestDB(t))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/v1/customers", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCustomerListWithToken(t *testing.T) {
	conn := setupRouterTestDB(t)
	require.NoError(t, conn.Create(&models.Customer{
		FirstName: "Asha",
		LastName:  "Patel",
		Mobile:    "9876543210",
		CreatedAt: time.Date(2025, 2, 10, 9, 0, 0, 0, time.UTC),
	}).Error)

	router, cfg := newTestRouter(t, conn)

	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now().UTC(), pkgauth.AccessTokenPayload{
		VendorID: 1,
		Mobile:   "9000000000",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/customers?page=1&limit=10", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Data       []map[string]any `json:"data"`
		Pagination map[string]any   `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Len(t, payload.Data, 1)
	assert.Equal(t, "Asha Patel", payload.Data[0]["name"])
	assert.EqualValues(t, 1, payload.Pagination["total"])
}

func TestMetricsEndpointExposed(t *testing.T) {
	router, _ := newTestRouter(t, setupRouterTestDB(t))

	// Drive one request through the middleware so the counters exist.
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health/live", nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}
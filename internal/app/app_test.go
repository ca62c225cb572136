package app

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"feira/internal/config"
	"feira/internal/logging"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(driver, dsn string) *config.Config {
	return &config.Config{
		StoreDriver: driver,
		DatabaseDSN: dsn,
		JWTSecret:   []byte("secret"),
		TokenTTL:    time.Hour,
		CORSOrigins: []string{"http://localhost:3000"},
		Location:    time.UTC,
	}
}

func TestNew_MemoryDriver(t *testing.T) {
	a, err := New(t.Context(), testConfig(config.DriverMemory, ""), logging.NewWithWriter(io.Discard, "error", "text"))
	require.NoError(t, err)
	defer a.Close()

	resp, err := a.Fiber.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Without a broker there is nothing to consume.
	assert.NoError(t, a.StartConsumers(t.Context()))
}

func TestNew_PanicIsLoggedAndAnswered(t *testing.T) {
	var logs bytes.Buffer
	a, err := New(t.Context(), testConfig(config.DriverMemory, ""), logging.NewWithWriter(&logs, "info", "json"))
	require.NoError(t, err)
	defer a.Close()
	a.Fiber.Get("/boom", func(c *fiber.Ctx) error { panic("kaboom") })

	resp, err := a.Fiber.Test(httptest.NewRequest(http.MethodGet, "/boom", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	out := logs.String()
	assert.Contains(t, out, `"msg":"request completed"`)
	assert.Contains(t, out, `"status":500`)
	assert.Contains(t, out, "kaboom")
}

func TestHealth_ReportsStore(t *testing.T) {
	a, err := New(t.Context(), testConfig(config.DriverMemory, ""), logging.NewWithWriter(io.Discard, "error", "text"))
	require.NoError(t, err)
	defer a.Close()

	resp, err := a.Fiber.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "ok", body["store"])
	assert.Equal(t, config.DriverMemory, body["driver"])
}

func TestNew_FailsOnBadStore(t *testing.T) {
	_, err := New(t.Context(), testConfig(config.DriverSQLite, ""), logging.NewWithWriter(io.Discard, "error", "text"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open sqlite store")
}

func TestOpenStores_SQLite(t *testing.T) {
	stores, err := OpenStores(t.Context(), testConfig(config.DriverSQLite, "file::memory:"))
	require.NoError(t, err)
	assert.NoError(t, stores.Ping(t.Context()))
	assert.NoError(t, stores.Close())
}

func TestCORSConfig(t *testing.T) {
	cfg := corsConfig([]string{"http://a.example", "http://b.example"})
	assert.Equal(t, "http://a.example,http://b.example", cfg.AllowOrigins)
	assert.True(t, cfg.AllowCredentials)

	// Credentials cannot be combined with a wildcard origin.
	cfg = corsConfig([]string{"http://a.example", "*"})
	assert.Equal(t, "*", cfg.AllowOrigins)
	assert.False(t, cfg.AllowCredentials)
}

func TestClose_ReverseOrderAndJoinedErrors(t *testing.T) {
	var order []string
	boom := errors.New("boom")
	a := &App{closers: []func() error{
		func() error { order = append(order, "store"); return nil },
		func() error { order = append(order, "redis"); return boom },
		func() error { order = append(order, "broker"); return nil },
	}}

	err := a.Close()
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"broker", "redis", "store"}, order)
	assert.NoError(t, a.Close())
}

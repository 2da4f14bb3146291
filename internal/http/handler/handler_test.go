package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"defiquiz/internal/nomi"
	serviceMocks "defiquiz/internal/service/mocks"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	app.Get("/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body := decode[map[string]string](t, resp)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		body := decode[errorPayload](t, resp)
		assert.Equal(t, "SERVICE_UNAVAILABLE", body.Error.Code)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestWriteNomiError(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		message string
		details bool
	}{
		{"config", &nomi.ConfigError{Message: "NOMI_ECHO_API_URL is not configured"}, http.StatusServiceUnavailable, "NOMI_ECHO_API_URL is not configured", false},
		{"timeout", &nomi.TimeoutError{}, http.StatusGatewayTimeout, (&nomi.TimeoutError{}).Error(), false},
		{"upstream 4xx passes through", &nomi.ResponseError{Status: 422, Message: "bad audio", Details: map[string]any{"message": "bad audio"}}, 422, "bad audio", true},
		{"upstream non-error status", &nomi.ResponseError{Status: 200, Message: "missing contextId"}, http.StatusBadGateway, "missing contextId", false},
		{"network", &nomi.Error{Message: "connection refused"}, http.StatusBadGateway, "connection refused", false},
		{"unknown", errors.New("boom"), http.StatusBadGateway, "Error connecting to Nomi Echo", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return writeNomiError(c, "test", tc.err) })

			resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tc.status, resp.StatusCode)
			body := decode[map[string]any](t, resp)
			assert.Equal(t, tc.message, body["error"])
			_, hasDetails := body["details"]
			assert.Equal(t, tc.details, hasDetails)
		})
	}
}

func TestRouting(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(),
	})

	reg := prometheus.NewRegistry()
	RegisterRoutes(app, Deps{
		Quiz:         new(serviceMocks.MockQuizService),
		Protocols:    new(serviceMocks.MockProtocolService),
		Verification: new(serviceMocks.MockVerificationService),
		Nomi:         new(serviceMocks.MockNomiService),
		AdminSecret:  "s3cret",
		Metrics:      promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})

	t.Run("not found route", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/non-existent", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		res := decode[errorPayload](t, resp)
		assert.Equal(t, "NOT_FOUND", res.Error.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		res := decode[errorPayload](t, resp)
		assert.Equal(t, "METHOD_NOT_ALLOWED", res.Error.Code)
	})

	t.Run("protocol creation requires the admin secret", func(t *testing.T) {
		req := jsonRequest(http.MethodPost, "/api/protocols", `{"id":"x","name":"X"}`)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("question creation requires the admin secret", func(t *testing.T) {
		req := jsonRequest(http.MethodPost, "/api/protocols/aave/questions", `{}`)
		req.Header.Set("x-admin-secret", "wrong")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("metrics endpoint", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

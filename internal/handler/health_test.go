package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
)

type pingerFunc func(context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthReady(t *testing.T) {
	tests := []struct {
		name   string
		ping   error
		status int
		want   string
	}{
		{"db up, redis disabled", nil, http.StatusOK, "healthy"},
		{"db down", errors.New("refused"), http.StatusServiceUnavailable, "degraded"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(pingerFunc(func(context.Context) error { return tt.ping }), nil, "test")
			app := fiber.New()
			app.Get("/health/ready", h.Ready)

			status, body := doJSON(t, app, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.want, body["status"])
			checks := body["checks"].(map[string]any)
			assert.Equal(t, "disabled", checks["redis"].(map[string]any)["status"])
		})
	}
}

func TestHealthLive(t *testing.T) {
	app := fiber.New()
	app.Get("/health/live", NewHealthHandler(nil, nil, "test").Live)

	status, body := doJSON(t, app, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}

func TestSanitizeEndpoint(t *testing.T) {
	assert.Equal(t, "/api/channels/:channelId", sanitizeEndpoint("/api/channels/UCabc123"))
	assert.Equal(t, "/api/channels/", sanitizeEndpoint("/api/channels/"))
	assert.Equal(t, "/api/youtube/analytics", sanitizeEndpoint("/api/youtube/analytics"))
}

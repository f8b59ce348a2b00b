package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"
)

func TestSanitizePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/api/channels/UCabc123", "/api/channels/:channelId"},
		{"/api/channels/", "/api/channels/"},
		{"/api/youtube/analytics", "/api/youtube/analytics"},
		{"/health/live", "/health/live"},
	}
	for _, tt := range tests {
		if got := sanitizePath(tt.in); got != tt.want {
			t.Errorf("sanitizePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHashIPForLog(t *testing.T) {
	h := hashIPForLog("203.0.113.7")
	if len(h) != 12 {
		t.Errorf("hash length = %d, want 12", len(h))
	}
	if h == hashIPForLog("203.0.113.8") {
		t.Error("different IPs should hash differently")
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	prev := Logger
	Logger = zerolog.New(&buf)
	t.Cleanup(func() { Logger = prev })

	app := fiber.New()
	app.Use(NewRequestLogger())
	app.Get("/api/channels/:channelId", func(c fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).SendString("nope")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/channels/UCsecret?x=1", nil))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%s)", err, buf.String())
	}
	if entry["path"] != "/api/channels/:channelId" {
		t.Errorf("path = %v", entry["path"])
	}
	if entry["level"] != "warn" {
		t.Errorf("level = %v, want warn for 404", entry["level"])
	}
	if entry["status"] != float64(404) {
		t.Errorf("status = %v", entry["status"])
	}
	if bytes.Contains(buf.Bytes(), []byte("UCsecret")) {
		t.Error("raw channel ID leaked into log")
	}
}

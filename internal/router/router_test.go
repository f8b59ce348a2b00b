package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/analytubeapp-coder/analytube/internal/handler"
	"github.com/analytubeapp-coder/analytube/internal/model"
)

type stubBatch struct{ runs int }

func (s *stubBatch) Run(context.Context) (*model.BatchResult, error) {
	s.runs++
	return &model.BatchResult{RunID: "run-1"}, nil
}

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

func newApp(t *testing.T, opts Options) (*fiber.App, *stubBatch) {
	t.Helper()
	batch := &stubBatch{}
	app := fiber.New()
	Setup(app, &Handlers{
		YouTube: handler.NewYouTubeHandler(nil, nil, nil, nil, 1.5),
		Channel: handler.NewChannelHandler(nil),
		Cron:    handler.NewCronHandler(batch),
		Health:  handler.NewHealthHandler(okPinger{}, nil, "test"),
	}, opts)
	return app, batch
}

func TestCronRequiresBearer(t *testing.T) {
	app, batch := newApp(t, Options{CronSecret: "s3cret", DisableRateLimit: true})

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/cron", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Zero(t, batch.runs)

	req := httptest.NewRequest(http.MethodPost, "/api/cron", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, batch.runs)
}

func TestCronRateLimited(t *testing.T) {
	app, batch := newApp(t, Options{})

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/cron", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/cron", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, 2, batch.runs)
}

func TestHealthAndValidationRoutes(t *testing.T) {
	app, _ := newApp(t, Options{DisableRateLimit: true})

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/health/live", http.StatusOK},
		{http.MethodGet, "/health/ready", http.StatusOK},
		{http.MethodGet, "/api/youtube/channel", http.StatusBadRequest},
		{http.MethodGet, "/api/youtube/analytics", http.StatusBadRequest},
		{http.MethodGet, "/api/youtube/earnings", http.StatusBadRequest},
		{http.MethodGet, "/api/youtube/videos", http.StatusBadRequest},
		{http.MethodGet, "/api/unknown", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(tt.method, tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

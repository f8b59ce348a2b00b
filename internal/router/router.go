package router

import (
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/analytubeapp-coder/analytube/internal/handler"
	"github.com/analytubeapp-coder/analytube/internal/middleware"
)

// Handlers holds all handler instances needed by the router.
type Handlers struct {
	YouTube *handler.YouTubeHandler
	Channel *handler.ChannelHandler
	Cron    *handler.CronHandler
	Health  *handler.HealthHandler
}

// Options tunes the middleware stack.
type Options struct {
	CORSOrigins string
	CronSecret  string
	// DisableRateLimit turns the per-IP limiters off (tests, trusted proxies).
	DisableRateLimit bool
}

// Setup configures the middleware stack and all API routes on the given Fiber app.
func Setup(app *fiber.App, h *Handlers, opts Options) {
	// Middleware stack (order matters)
	app.Use(recoverer.New())
	app.Use(middleware.NewRequestLogger())
	app.Use(middleware.NewCORS(opts.CORSOrigins))
	app.Use(handler.MetricsMiddleware())

	app.Get("/health/live", h.Health.Live)
	app.Get("/health/ready", h.Health.Ready)
	app.Get("/metrics", handler.MetricsHandler())

	var lookup, provider, cron fiber.Handler = passThrough, passThrough, passThrough
	if !opts.DisableRateLimit {
		lookup = middleware.NewLookupRateLimiter().Handler()
		provider = middleware.NewProviderRateLimiter().Handler()
		cron = middleware.NewCronRateLimiter().Handler()
	}

	api := app.Group("/api")

	// Routes that may spend provider quota
	yt := api.Group("/youtube")
	yt.Get("/channel", provider, h.YouTube.Channel)
	yt.Post("/snapshot", provider, h.YouTube.Snapshot)
	yt.Get("/videos", provider, h.YouTube.Videos)

	// Storage-backed reads
	yt.Get("/analytics", lookup, h.YouTube.Analytics)
	yt.Get("/earnings", lookup, h.YouTube.Earnings)
	api.Get("/channels/:channelId", lookup, h.Channel.GetByChannelID)

	api.Post("/cron", cron, middleware.RequireBearer(opts.CronSecret), h.Cron.Trigger)
}

func passThrough(c fiber.Ctx) error {
	return c.Next()
}

package handler

import (
	"context"

	"github.com/gofiber/fiber/v3"

	"github.com/analytubeapp-coder/analytube/internal/middleware"
	"github.com/analytubeapp-coder/analytube/internal/model"
	"github.com/analytubeapp-coder/analytube/internal/service"
)

// ChannelResolver is implemented by service.ChannelService.
type ChannelResolver interface {
	Resolve(ctx context.Context, input string) (*model.Channel, error)
	ResolveID(ctx context.Context, input string) (string, error)
	Lookup(ctx context.Context, channelID string) (*model.ChannelDetailResponse, error)
}

// SnapshotRecorder is implemented by service.SnapshotService.
type SnapshotRecorder interface {
	Capture(ctx context.Context, channelID string) (*model.SnapshotResponse, error)
}

// GrowthAnalyzer is implemented by service.GrowthService.
type GrowthAnalyzer interface {
	Analytics(ctx context.Context, channelID string) (*model.AnalyticsResponse, error)
	Earnings(ctx context.Context, channelID string, cpm float64) (*model.EarningsResponse, error)
}

// VideoRanker is implemented by service.VideoRanker.
type VideoRanker interface {
	TopVideos(ctx context.Context, channelID string, windowDays, limit int) (*model.VideosResponse, error)
}

type YouTubeHandler struct {
	channels   ChannelResolver
	snapshots  SnapshotRecorder
	growth     GrowthAnalyzer
	ranker     VideoRanker
	defaultCPM float64
}

func NewYouTubeHandler(channels ChannelResolver, snapshots SnapshotRecorder, growth GrowthAnalyzer, ranker VideoRanker, defaultCPM float64) *YouTubeHandler {
	return &YouTubeHandler{
		channels:   channels,
		snapshots:  snapshots,
		growth:     growth,
		ranker:     ranker,
		defaultCPM: defaultCPM,
	}
}

// Channel handles GET /api/youtube/channel?channel=<id|url|@handle|name>
func (h *YouTubeHandler) Channel(c fiber.Ctx) error {
	input, errMsg := middleware.ValidateChannelInput(fiber.Query[string](c, "channel"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	ch, err := h.channels.Resolve(c.Context(), input)
	if err != nil {
		return serviceError(c, "resolve channel", err)
	}
	return c.JSON(model.ChannelResponse{Success: true, Channel: ch})
}

// Analytics handles GET /api/youtube/analytics?channelId=
func (h *YouTubeHandler) Analytics(c fiber.Ctx) error {
	channelID, errMsg := middleware.ValidateChannelID(fiber.Query[string](c, "channelId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	resp, err := h.growth.Analytics(c.Context(), channelID)
	if err != nil {
		return serviceError(c, "analytics", err)
	}
	return c.JSON(resp)
}

// Snapshot handles POST /api/youtube/snapshot
func (h *YouTubeHandler) Snapshot(c fiber.Ctx) error {
	var req model.SnapshotRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
	}

	channelID, errMsg := middleware.ValidateChannelID(req.ChannelID)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	resp, err := h.snapshots.Capture(c.Context(), channelID)
	if err != nil {
		return serviceError(c, "snapshot", err)
	}
	return c.JSON(resp)
}

// Videos handles GET /api/youtube/videos?channelId= or ?channel=
func (h *YouTubeHandler) Videos(c fiber.Ctx) error {
	var channelID string
	if raw := fiber.Query[string](c, "channelId"); raw != "" {
		id, errMsg := middleware.ValidateChannelID(raw)
		if errMsg != "" {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
		}
		channelID = id
	} else {
		input, errMsg := middleware.ValidateChannelInput(fiber.Query[string](c, "channel"))
		if errMsg != "" {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", "missing channelId or channel")
		}
		id, err := h.channels.ResolveID(c.Context(), input)
		if err != nil {
			return serviceError(c, "resolve channel", err)
		}
		channelID = id
	}

	resp, err := h.ranker.TopVideos(c.Context(), channelID, service.DefaultVideoWindowDays, service.DefaultVideoCap)
	if err != nil {
		return serviceError(c, "videos", err)
	}
	return c.JSON(resp)
}

// Earnings handles GET /api/youtube/earnings?channelId=&cpm=
func (h *YouTubeHandler) Earnings(c fiber.Ctx) error {
	channelID, errMsg := middleware.ValidateChannelID(fiber.Query[string](c, "channelId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	cpm, errMsg := middleware.ParseCPM(fiber.Query[string](c, "cpm"), h.defaultCPM)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	resp, err := h.growth.Earnings(c.Context(), channelID, cpm)
	if err != nil {
		return serviceError(c, "earnings", err)
	}
	return c.JSON(resp)
}

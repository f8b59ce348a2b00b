package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/analytubeapp-coder/analytube/internal/middleware"
)

type ChannelHandler struct {
	channels ChannelResolver
}

func NewChannelHandler(channels ChannelResolver) *ChannelHandler {
	return &ChannelHandler{channels: channels}
}

// GetByChannelID handles GET /api/channels/:channelId
func (h *ChannelHandler) GetByChannelID(c fiber.Ctx) error {
	channelID, errMsg := middleware.ValidateChannelID(c.Params("channelId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	resp, err := h.channels.Lookup(c.Context(), channelID)
	if err != nil {
		return serviceError(c, "lookup channel", err)
	}
	return c.JSON(resp)
}

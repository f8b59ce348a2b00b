package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/analytubeapp-coder/analytube/internal/middleware"
	"github.com/analytubeapp-coder/analytube/internal/service"
)

// serviceError maps a service error onto the API error body. op names the
// failed operation in the log line.
func serviceError(c fiber.Ctx, op string, err error) error {
	var up *service.UpstreamError
	switch {
	case errors.Is(err, service.ErrValidation):
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", err.Error())
	case errors.Is(err, service.ErrNotFound):
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "channel not found")
	case errors.Is(err, service.ErrInsufficientData):
		return middleware.ErrorResponse(c, fiber.StatusUnprocessableEntity, "INSUFFICIENT_DATA", err.Error())
	case errors.Is(err, service.ErrBatchRunning):
		return middleware.ErrorResponse(c, fiber.StatusConflict, "BATCH_RUNNING", err.Error())
	case errors.As(err, &up):
		middleware.Logger.Error().Err(err).Str("op", op).Str("origin", string(up.Origin)).Msg("upstream failure")
		return middleware.UpstreamErrorResponse(c, fiber.StatusInternalServerError, string(up.Origin), "internal error")
	default:
		middleware.Logger.Error().Err(err).Str("op", op).Msg("request failed")
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal error")
	}
}

package handler

import (
	"context"

	"github.com/gofiber/fiber/v3"

	"github.com/analytubeapp-coder/analytube/internal/model"
)

// BatchRunner is implemented by service.BatchSnapshotter.
type BatchRunner interface {
	Run(ctx context.Context) (*model.BatchResult, error)
}

type CronHandler struct {
	batch BatchRunner
}

func NewCronHandler(batch BatchRunner) *CronHandler {
	return &CronHandler{batch: batch}
}

// Trigger handles POST /api/cron. The run is synchronous; per-channel
// failures are reported in the result, not as an error status.
func (h *CronHandler) Trigger(c fiber.Ctx) error {
	res, err := h.batch.Run(c.Context())
	if err != nil {
		return serviceError(c, "batch run", err)
	}
	return c.JSON(res)
}

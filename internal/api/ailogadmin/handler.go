package ailogadmin

import (
	"answer-grader/config"
	"answer-grader/internal/services/ailog"
	"answer-grader/pkg/apperror"
	"answer-grader/pkg/apperror/status"
	"context"

	"github.com/gofiber/fiber/v3"
)

func HandleArchive(c fiber.Ctx) error {
	trackingID := c.Get("X-Request-ID")

	key, err := ailog.Archive(context.Background())
	if err != nil {
		return apperror.InternalError(config.ModuleAILog, c, err)
	}

	return apperror.Success(config.ModuleAILog, c, apperror.FiberSuccessMessage{
		Code:       status.OK,
		Message:    "audit log archived",
		TrackingID: trackingID,
		Data:       map[string]string{"key": key},
	})
}

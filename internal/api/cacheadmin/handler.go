package cacheadmin

import (
	"answer-grader/config"
	"answer-grader/internal/database"
	"answer-grader/internal/database/model"
	"answer-grader/internal/services/cache"
	"answer-grader/pkg/apperror"
	"answer-grader/pkg/apperror/status"
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"gorm.io/gorm"
)

func HandleStats(c fiber.Ctx) error {
	trackingID := c.Get("X-Request-ID")

	stats, err := cache.Aggregate(context.Background())
	if err != nil {
		return apperror.InternalError(config.ModuleCache, c, err)
	}

	return apperror.Success(config.ModuleCache, c, apperror.FiberSuccessMessage{
		Code:       status.OK,
		Message:    "cache stats ok",
		TrackingID: trackingID,
		Data:       stats,
	})
}

func HandlePurge(c fiber.Ctx) error {
	trackingID := c.Get("X-Request-ID")

	purged, err := cache.PurgeExpired(context.Background())
	if err != nil {
		return apperror.InternalError(config.ModuleCache, c, err)
	}

	return apperror.Success(config.ModuleCache, c, apperror.FiberSuccessMessage{
		Code:       status.OK,
		Message:    "cache purge ok",
		TrackingID: trackingID,
		Data:       map[string]int64{"purged": purged},
	})
}

func HandleGetEntry(c fiber.Ctx) error {
	trackingID := c.Get("X-Request-ID")

	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return apperror.BadRequest(config.ModuleCache, c, status.CacheInvalidEntryID, "id must be an integer")
	}

	row, err := database.GetEntityByID[model.AIResponseCache, int64](context.Background(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			code := fmt.Sprintf("AG-%d", status.CacheEntryNotFound)
			return apperror.WriteError(config.ModuleCache, c, fiber.StatusNotFound, code, "entry not found")
		}
		return apperror.InternalError(config.ModuleCache, c, err)
	}

	return apperror.Success(config.ModuleCache, c, apperror.FiberSuccessMessage{
		Code:       status.OK,
		Message:    "cache entry ok",
		TrackingID: trackingID,
		Data:       row,
	})
}

func HandleDeleteEntry(c fiber.Ctx) error {
	trackingID := c.Get("X-Request-ID")

	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return apperror.BadRequest(config.ModuleCache, c, status.CacheInvalidEntryID, "id must be an integer")
	}

	if err := database.DeleteEntityByID[model.AIResponseCache, int64](context.Background(), id); err != nil {
		return apperror.InternalError(config.ModuleCache, c, err)
	}

	return apperror.Success(config.ModuleCache, c, apperror.FiberSuccessMessage{
		Code:       status.OK,
		Message:    "cache entry deleted",
		TrackingID: trackingID,
		Data:       map[string]int64{"id": id},
	})
}

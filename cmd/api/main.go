package main

import (
	"answer-grader/config"
	"answer-grader/internal/api/ailogadmin"
	"answer-grader/internal/api/cacheadmin"
	"answer-grader/internal/api/healthcheck"
	"answer-grader/internal/api/verify"
	"answer-grader/internal/core/embedding"
	"answer-grader/internal/database"
	"answer-grader/internal/database/model"
	"answer-grader/internal/middleware"
	"answer-grader/pkg/logger"
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"
)

func main() {
	app := fiber.New(fiber.Config{
		AppName:     config.Cfg.Server.AppName,
		Concurrency: config.Cfg.Server.Concurrency,
		BodyLimit:   config.Cfg.Server.BodyLimit,
	})

	middleware.Setup(app, config.Cfg.Server.Concurrency)

	if db, err := database.GetDB(); err == nil {
		if err := db.AutoMigrate(&model.AIResponseCache{}); err != nil {
			logger.Error(err, "cache table migration failed")
		}
	}

	// Warm the embedding backend so the first request does not pay for the
	// lemmatizer and client setup. A failure only degrades the semantic tier.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := embedding.Preload(ctx); err != nil {
		logger.Error(err, "embedding backend unavailable, semantic tier degraded")
	}
	cancel()

	// routes
	healthcheck.RegisterRoutes(app)
	verify.RegisterRoutes(app)
	cacheadmin.RegisterRoutes(app)
	ailogadmin.RegisterRoutes(app)

	addr := fmt.Sprintf(":%d", config.Cfg.Server.Port)
	if err := app.Listen(addr); err != nil {
		logger.Error(err, "server error")
	}
}

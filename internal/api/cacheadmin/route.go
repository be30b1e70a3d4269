package cacheadmin

import (
	"github.com/gofiber/fiber/v3"
)

func RegisterRoutes(r fiber.Router) {
	grp := r.Group("/cache")

	grp.Get("/stats", HandleStats)
	grp.Post("/purge", HandlePurge)
	grp.Get("/entries/:id", HandleGetEntry)
	grp.Delete("/entries/:id", HandleDeleteEntry)
}

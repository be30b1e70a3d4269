package verify

import (
	"github.com/gofiber/fiber/v3"
)

func RegisterRoutes(r fiber.Router) {
	grp := r.Group("/verify")

	grp.Post("/", HandleVerify)
	grp.Post("/batch", HandleVerifyBatch)
}

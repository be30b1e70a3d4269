package ailogadmin

import (
	"github.com/gofiber/fiber/v3"
)

func RegisterRoutes(r fiber.Router) {
	grp := r.Group("/ailog")

	grp.Post("/archive", HandleArchive)
}

package athlete

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rise-and-shine/medalists/http/server/forward"
)

// RegisterRoutes mounts the athlete endpoints under /athletes.
func RegisterRoutes(r fiber.Router, svc Service) {
	g := r.Group("/athletes")

	g.Post("/", forward.ToUserAction(NewCreate(svc), forward.WithStatus(fiber.StatusCreated)))
	g.Get("/", forward.ToUserAction(NewList(svc)))
	g.Get("/:id", forward.ToUserAction(NewGet(svc)))
	g.Put("/:id", forward.ToUserAction(NewUpdate(svc)))
	g.Delete("/:id", forward.ToUserAction(NewDelete(svc)))
}

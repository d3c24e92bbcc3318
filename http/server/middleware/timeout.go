package middleware

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rise-and-shine/medalists/http/server"
)

// NewTimeoutMW bounds the request context by duration. Database calls made
// with the context are cancelled once it expires.
func NewTimeoutMW(duration time.Duration) server.Middleware {
	return server.Middleware{
		Priority: 800,
		Handler: func(c *fiber.Ctx) error {
			ctx, cancel := context.WithTimeout(c.UserContext(), duration)
			defer cancel()

			c.SetUserContext(ctx)

			return c.Next()
		},
	}
}

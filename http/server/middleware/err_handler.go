package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rise-and-shine/medalists/http/server"
)

// NewErrorHandlerMW renders handler errors with ew so the middlewares above it
// observe the final status code. The error is still returned for logging and
// tracing; the server's error handler skips responses already rendered.
func NewErrorHandlerMW(ew server.ErrorWriter) server.Middleware {
	return server.Middleware{
		Priority: 400,
		Handler: func(c *fiber.Ctx) error {
			err := c.Next()
			if err == nil {
				return nil
			}

			if server.Rendered(c) {
				return err
			}

			return ew.Write(c, err)
		},
	}
}

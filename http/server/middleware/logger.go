package middleware

import (
	"time"

	"github.com/code19m/errx"
	"github.com/gofiber/fiber/v2"
	"github.com/rise-and-shine/medalists/http/server"
	"github.com/rise-and-shine/medalists/observability/logger"
)

// NewLoggerMW logs one entry per request. The level follows the response
// status: error for 5xx, warn for 4xx, info otherwise.
func NewLoggerMW(log logger.Logger) server.Middleware {
	return server.Middleware{
		Priority: 500,
		Handler: func(c *fiber.Ctx) error {
			start := time.Now()

			err := nextWithRecovery(c)

			statusCode := c.Response().StatusCode()

			l := log.
				Named("middleware.logger").
				WithContext(c.UserContext()).
				With(
					"http_status_code", statusCode,
					"http_method", c.Method(),
					"http_path", c.Path(),
					"http_route", c.Route().Path,
					"duration", time.Since(start),
					"query_params", c.Queries(),
					"request_size", len(c.Body()),
				)

			if err != nil {
				e := errx.AsErrorX(err)
				l = l.With("error", map[string]any{
					"code":    e.Code(),
					"message": e.Error(),
					"type":    e.Type().String(),
					"trace":   e.Trace(),
					"fields":  e.Fields(),
					"details": e.Details(),
				})
			}

			switch {
			case statusCode >= fiber.StatusInternalServerError:
				l.Error("request failed")
			case statusCode >= fiber.StatusBadRequest:
				l.Warn("request rejected")
			default:
				l.Info("request processed")
			}

			return err
		},
	}
}

// nextWithRecovery runs the rest of the chain, turning a panic into an error
// so the request is still logged.
func nextWithRecovery(c *fiber.Ctx) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicError("panic recovered at logger middleware", r)
		}
	}()

	return c.Next()
}

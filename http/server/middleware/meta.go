package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rise-and-shine/medalists/http/server"
	"github.com/rise-and-shine/medalists/meta"
	"github.com/rise-and-shine/medalists/observability/tracing"
)

// NewMetaInjectMW stores client and service information in the request
// context. A trace id is assigned when the tracing middleware did not set one.
func NewMetaInjectMW(serviceName, serviceVersion string) server.Middleware {
	return server.Middleware{
		Priority: 700,
		Handler: func(c *fiber.Ctx) error {
			ctx := c.UserContext()

			data := map[meta.ContextKey]string{
				meta.IPAddress:      c.IP(),
				meta.UserAgent:      c.Get(fiber.HeaderUserAgent),
				meta.RemoteAddr:     c.Context().RemoteAddr().String(),
				meta.Referer:        c.Get(fiber.HeaderReferer),
				meta.ServiceName:    serviceName,
				meta.ServiceVersion: serviceVersion,
			}
			if meta.Find(ctx, meta.TraceID) == "" {
				data[meta.TraceID] = tracing.GetStartingTraceID(ctx)
			}

			c.SetUserContext(meta.InjectMetaToContext(ctx, data))

			return c.Next()
		},
	}
}

// Package server provides the Fiber based HTTP server of the service.
package server

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

// HTTPServer is a Fiber app with prioritized middlewares and JSON error responses.
type HTTPServer struct {
	router     *fiber.App
	listenAddr string
}

// NewHTTPServer creates an HTTPServer. Errors that escape the middleware chain
// are rendered by ew; the middlewares are applied by descending priority.
func NewHTTPServer(cfg Config, ew ErrorWriter, middlewares []Middleware) *HTTPServer {
	router := fiber.New(fiber.Config{
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		IdleTimeout:           cfg.IdleTimeout,
		ErrorHandler:          ew.handler(),
		DisableStartupMessage: true,
		Immutable:             true,
		BodyLimit:             cfg.BodyLimit,
	})

	applyMiddlewares(router, middlewares)

	return &HTTPServer{
		router:     router,
		listenAddr: cfg.Address(),
	}
}

// RegisterRouter registers routes with the server using the provided register function.
func (s *HTTPServer) RegisterRouter(registerFunc func(r fiber.Router)) {
	registerFunc(s.router)
}

// App exposes the underlying fiber app, mainly for app.Test in tests.
func (s *HTTPServer) App() *fiber.App {
	return s.router
}

// Start listens on the configured address. It blocks until the server stops.
func (s *HTTPServer) Start() error {
	return s.router.Listen(s.listenAddr)
}

// Stop shuts the server down, waiting for in-flight requests until ctx is done.
func (s *HTTPServer) Stop(ctx context.Context) error {
	return s.router.ShutdownWithContext(ctx)
}

package server

import (
	"errors"

	"github.com/code19m/errx"
	"github.com/gofiber/fiber/v2"
	"github.com/rise-and-shine/medalists/meta"
)

const (
	// codeRouterError is used when the router encounters an error.
	codeRouterError = "ROUTER_ERROR"

	renderedLocal = "error_rendered"
)

// ErrorWriter renders errors as JSON responses.
type ErrorWriter struct {
	// HideDetails omits trace and details from the response body.
	HideDetails bool

	// StatusOverrides maps error codes to HTTP statuses that take precedence
	// over the status derived from the error type.
	StatusOverrides map[string]int
}

// Write sets the response status and body for err and returns err as an errx error.
func (w ErrorWriter) Write(c *fiber.Ctx, err error) error {
	e := mapAnyErrorToErrorX(err)

	c.Locals(renderedLocal, true)
	c.Status(w.status(e))
	_ = c.JSON(errorResponse{
		TraceID: meta.Find(c.UserContext(), meta.TraceID),
		Error:   buildErrorSchema(e, w.HideDetails),
	})

	return e
}

func (w ErrorWriter) status(e errx.ErrorX) int {
	if code, ok := w.StatusOverrides[e.Code()]; ok {
		return code
	}
	return mapErrorTypeToHTTPStatusCode(e.Type())
}

// Rendered reports whether an error response was already written for c.
func Rendered(c *fiber.Ctx) bool {
	rendered, _ := c.Locals(renderedLocal).(bool)
	return rendered
}

// handler returns a fiber error handler for errors that escaped the middleware
// chain. Responses already rendered by Write are left untouched.
func (w ErrorWriter) handler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if Rendered(c) {
			return nil
		}

		_ = w.Write(c, err)
		return nil
	}
}

func buildErrorSchema(e errx.ErrorX, hideDetails bool) errorSchema {
	schema := errorSchema{
		Code:    e.Code(),
		Message: e.Error(),
		Fields:  e.Fields(),
	}
	if !hideDetails {
		schema.Trace = e.Trace()
		schema.Details = e.Details()
	}
	return schema
}

type errorResponse struct {
	TraceID string      `json:"trace_id,omitempty"`
	Error   errorSchema `json:"error"`
}

type errorSchema struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Trace   string            `json:"trace,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
	Details map[string]any    `json:"details,omitempty"`
}

// mapErrorTypeToHTTPStatusCode converts an errx.Type to the appropriate HTTP status code.
func mapErrorTypeToHTTPStatusCode(t errx.Type) int {
	switch t {
	case errx.T_Authentication:
		return fiber.StatusUnauthorized
	case errx.T_Forbidden:
		return fiber.StatusForbidden
	case errx.T_NotFound:
		return fiber.StatusNotFound
	case errx.T_Validation:
		return fiber.StatusBadRequest
	case errx.T_Conflict:
		return fiber.StatusConflict
	case errx.T_Throttling:
		return fiber.StatusTooManyRequests
	default:
		return fiber.StatusInternalServerError
	}
}

// mapAnyErrorToErrorX converts any error to an errx.ErrorX.
// Fiber errors (unknown route, malformed request) keep their status class.
func mapAnyErrorToErrorX(err error) errx.ErrorX {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		var t errx.Type

		switch {
		case fiberErr.Code == fiber.StatusUnauthorized:
			t = errx.T_Authentication
		case fiberErr.Code == fiber.StatusForbidden:
			t = errx.T_Forbidden
		case fiberErr.Code == fiber.StatusNotFound:
			t = errx.T_NotFound
		case fiberErr.Code == fiber.StatusConflict:
			t = errx.T_Conflict
		case fiberErr.Code == fiber.StatusTooManyRequests:
			t = errx.T_Throttling
		case fiberErr.Code >= 400 && fiberErr.Code < 500:
			t = errx.T_Validation
		default:
			t = errx.T_Internal
		}

		err = errx.New(
			fiberErr.Message,
			errx.WithCode(codeRouterError),
			errx.WithType(t),
			errx.WithDetails(errx.D{
				"fiber_code": fiberErr.Code,
			}),
		)
	}

	return errx.AsErrorX(err)
}

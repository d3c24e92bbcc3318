// Package middleware provides the Fiber middlewares of the HTTP server.
//
// Each middleware declares a priority; higher priorities run earlier:
//
//   - Recovery (1000): turns panics into errors
//   - Tracing (900): opens a server span and assigns the trace id
//   - Timeout (800): bounds the request context
//   - MetaInject (700): stores request metadata in the context
//   - Logger (500): logs every request with its outcome
//   - ErrorHandler (400): renders errors as JSON responses
package middleware

import (
	"runtime"

	"github.com/code19m/errx"
)

const stackTraceSize = 4 << 10

// panicError converts a recovered panic value into an errx error carrying the stack.
func panicError(msg string, r any) error {
	stack := make([]byte, stackTraceSize)
	stack = stack[:runtime.Stack(stack, false)]

	return errx.New(msg, errx.WithDetails(errx.D{
		"stack_trace":   string(stack),
		"panic_message": r,
	}))
}

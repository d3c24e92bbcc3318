package forward

import (
	"fmt"
	"reflect"

	"github.com/code19m/errx"
	"github.com/gofiber/fiber/v2"
	"github.com/rise-and-shine/medalists/meta"
	"github.com/rise-and-shine/medalists/observability/logger"
	"github.com/rise-and-shine/medalists/ucdef"
	"github.com/rise-and-shine/medalists/val"
)

const maxLogAllowedSize = 8 << 10 // 8KB

type options struct {
	status int
}

// Option configures a forwarded handler.
type Option func(*options)

// WithStatus sets the status of successful responses. The default is 200.
func WithStatus(status int) Option {
	return func(o *options) { o.status = status }
}

// ToUserAction forwards a request to a use case: the input is decoded from the
// path, query and JSON body, validated by its struct tags, executed, and the
// output is written as JSON.
func ToUserAction[I, O any](uc ucdef.UserAction[I, O], opts ...Option) fiber.Handler {
	o := options{status: fiber.StatusOK}
	for _, opt := range opts {
		opt(&o)
	}

	return func(c *fiber.Ctx) error {
		req, err := newRequest[I]()
		if err != nil {
			return errx.Wrap(err)
		}

		ctx := meta.InjectMetaToContext(c.UserContext(), map[meta.ContextKey]string{
			meta.OperationID: uc.OperationID(),
		})
		c.SetUserContext(ctx)

		log := logger.Named("http.handler").WithContext(ctx)

		if len(c.Body()) <= maxLogAllowedSize {
			log = log.With("request_body", string(c.Body()))
		} else {
			log = log.With("request_body", fmt.Sprintf("too large for logging: %d bytes", len(c.Body())))
		}

		if err = decode(c, req); err != nil {
			log.Warnx(err)
			return errx.Wrap(err)
		}

		if err = val.ValidateSchema(req); err != nil {
			log.Warnx(err)
			return errx.Wrap(err)
		}

		resp, err := uc.Execute(ctx, req)
		if err != nil {
			return errx.Wrap(err)
		}

		size, err := writeJSON(c, o.status, resp)
		if err != nil {
			log.Errorx(err)
			return errx.Wrap(err)
		}

		log.With("response_size", size).Debug("")
		return nil
	}
}

// newRequest allocates the use case input. I must be a pointer to a struct.
func newRequest[I any]() (I, error) {
	var req I

	reqType := reflect.TypeFor[I]()
	if reqType.Kind() != reflect.Pointer || reqType.Elem().Kind() != reflect.Struct {
		return req, errx.New("input type I must be a pointer to a struct")
	}

	return reflect.New(reqType.Elem()).Interface().(I), nil //nolint:errcheck,forcetypeassert // checked above
}

func writeJSON(c *fiber.Ctx, status int, data any) (int, error) {
	raw, err := c.App().Config().JSONEncoder(data)
	if err != nil {
		return 0, errx.Wrap(err)
	}

	c.Status(status)
	c.Response().SetBodyRaw(raw)
	c.Response().Header.SetContentType(fiber.MIMEApplicationJSON)
	return len(raw), nil
}

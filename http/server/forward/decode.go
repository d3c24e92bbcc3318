package forward

import (
	"slices"
	"strings"

	"github.com/code19m/errx"
	"github.com/gofiber/fiber/v2"
)

// decode fills req from the path params, the query string and, for methods
// that carry one, the JSON body.
func decode[I any](c *fiber.Ctx, req I) error {
	if err := decodePath(c, req); err != nil {
		return err
	}
	if err := decodeQuery(c, req); err != nil {
		return err
	}
	if hasJSONBody(c.Method()) {
		return decodeBody(c, req)
	}
	return nil
}

func hasJSONBody(method string) bool {
	return slices.Contains([]string{fiber.MethodPost, fiber.MethodPut, fiber.MethodPatch}, method)
}

// decodeBody decodes the JSON request body into req. An empty body is accepted.
func decodeBody[I any](c *fiber.Ctx, req I) error {
	if len(c.Body()) == 0 {
		return nil
	}

	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		return errx.New(
			"content type must be application/json for this request",
			errx.WithType(errx.T_Validation),
			errx.WithCode(codeInvalidContentType),
		)
	}

	if err := c.App().Config().JSONDecoder(c.Body(), req); err != nil {
		return errx.Wrap(
			err,
			errx.WithType(errx.T_Validation),
			errx.WithCode(codeInvalidJSONBody),
		)
	}

	return nil
}

// decodeQuery decodes the query params into req using its query tags.
func decodeQuery[I any](c *fiber.Ctx, req I) error {
	if len(c.Queries()) == 0 {
		return nil
	}

	if err := c.QueryParser(req); err != nil {
		return errx.Wrap(
			err,
			errx.WithType(errx.T_Validation),
			errx.WithCode(codeInvalidQueryParams),
		)
	}

	return nil
}

// decodePath decodes the route params into req using its params tags.
func decodePath[I any](c *fiber.Ctx, req I) error {
	if len(c.Route().Params) == 0 {
		return nil
	}

	if err := c.ParamsParser(req); err != nil {
		return errx.Wrap(
			err,
			errx.WithType(errx.T_Validation),
			errx.WithCode(codeInvalidPathParams),
		)
	}

	return nil
}

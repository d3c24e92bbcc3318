// Package forward adapts use cases to fiber handlers.
package forward

const (
	codeInvalidContentType = "INVALID_CONTENT_TYPE"
	codeInvalidJSONBody    = "INVALID_JSON_BODY"
	codeInvalidQueryParams = "INVALID_QUERY_PARAMS"
	codeInvalidPathParams  = "INVALID_PATH_PARAMS"
)

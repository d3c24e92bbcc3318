// Package meta carries request metadata through context.
package meta

import "context"

// ContextKey is a type for keys used in context values for metadata.
type ContextKey string

const (
	// TraceID represents a unique identifier for tracing requests across services.
	TraceID ContextKey = "trace_id"

	// IPAddress contains the client's IP address.
	IPAddress ContextKey = "ip_address"

	// UserAgent contains the user agent string from the request.
	UserAgent ContextKey = "user_agent"

	// RemoteAddr contains the network address that sent the request.
	RemoteAddr ContextKey = "remote_addr"

	// Referer contains the address of the previous web page from which a link was followed.
	Referer ContextKey = "referer"

	// ServiceName identifies the name of current running service.
	ServiceName ContextKey = "service_name"

	// ServiceVersion indicates the version of the service.
	ServiceVersion ContextKey = "service_version"

	// OperationID names the use case handling the request.
	OperationID ContextKey = "operation_id"
)

// Keys returns every metadata key in a stable order.
func Keys() []ContextKey {
	return []ContextKey{
		TraceID,
		IPAddress,
		UserAgent,
		RemoteAddr,
		Referer,
		ServiceName,
		ServiceVersion,
		OperationID,
	}
}

// InjectMetaToContext adds metadata from the provided map to the context.
// Empty values are skipped.
func InjectMetaToContext(ctx context.Context, data map[ContextKey]string) context.Context {
	for _, k := range Keys() {
		if v := data[k]; v != "" {
			ctx = context.WithValue(ctx, k, v) //nolint:fatcontext // finite number of keys
		}
	}
	return ctx
}

// ExtractMetaFromContext returns all non-empty metadata stored in ctx.
func ExtractMetaFromContext(ctx context.Context) map[ContextKey]string {
	data := make(map[ContextKey]string)
	for _, k := range Keys() {
		if v := Find(ctx, k); v != "" {
			data[k] = v
		}
	}
	return data
}

// Find returns the metadata value for key, or an empty string.
func Find(ctx context.Context, key ContextKey) string {
	v, _ := ctx.Value(key).(string)
	return v
}

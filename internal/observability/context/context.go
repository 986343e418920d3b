package obscontext

import "context"

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	actorIDKey   contextKey = "actor_id"
	ipAddressKey contextKey = "ip_address"
	userAgentKey contextKey = "user_agent"
)

// WithRequestID stores the request correlation id on the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext returns the request id or empty string.
func RequestIDFromContext(ctx context.Context) string {
	return stringFromContext(ctx, requestIDKey)
}

// WithActorID stores the authenticated subject on the context.
func WithActorID(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, actorIDKey, actorID)
}

// ActorIDFromContext returns the authenticated subject or empty string.
func ActorIDFromContext(ctx context.Context) string {
	return stringFromContext(ctx, actorIDKey)
}

// WithIPAddress stores the client address on the context.
func WithIPAddress(ctx context.Context, addr string) context.Context {
	return context.WithValue(ctx, ipAddressKey, addr)
}

// IPAddressFromContext returns the client address or empty string.
func IPAddressFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ipAddressKey)
}

// WithUserAgent stores the client user agent on the context.
func WithUserAgent(ctx context.Context, ua string) context.Context {
	return context.WithValue(ctx, userAgentKey, ua)
}

// UserAgentFromContext returns the client user agent or empty string.
func UserAgentFromContext(ctx context.Context) string {
	return stringFromContext(ctx, userAgentKey)
}

func stringFromContext(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(key).(string)
	return value
}

package core

import "context"

type contextKey string

const (
	ctxKeyIPAddress contextKey = "client_ip"
	ctxKeyUserAgent contextKey = "client_ua"
	ctxKeyUser      contextKey = "admin_user"
)

// Requester identifies who triggered an operation, for the export log.
type Requester struct {
	User      string
	IPAddress string
	UserAgent string
}

// ContextWithIPAddress records the client IP for the export log.
func ContextWithIPAddress(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ctxKeyIPAddress, ip)
}

// ContextWithUserAgent records the client User-Agent for the export log.
func ContextWithUserAgent(ctx context.Context, ua string) context.Context {
	return context.WithValue(ctx, ctxKeyUserAgent, ua)
}

// ContextWithUser records the signed-in admin.
func ContextWithUser(ctx context.Context, user string) context.Context {
	return context.WithValue(ctx, ctxKeyUser, user)
}

// UserFromContext returns the signed-in admin, or "".
func UserFromContext(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyUser).(string)
	return v
}

// RequesterFromContext collects whatever request identity the context holds.
func RequesterFromContext(ctx context.Context) Requester {
	r := Requester{User: UserFromContext(ctx)}
	r.IPAddress, _ = ctx.Value(ctxKeyIPAddress).(string)
	r.UserAgent, _ = ctx.Value(ctxKeyUserAgent).(string)
	return r
}

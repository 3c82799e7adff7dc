package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/nudge/internal/core"
)

// withRequestMetadata copies the client IP and User-Agent into ctx for run
// logging. RemoteAddr has already been resolved by TrustedRealIP.
func withRequestMetadata(ctx context.Context, r *http.Request) context.Context {
	ctx = core.ContextWithClientIP(ctx, r.RemoteAddr)
	ctx = core.ContextWithUserAgent(ctx, r.UserAgent())
	return ctx
}

package middleware

import (
	"net/url"
	"strings"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/skillmart/backend/pkg/token"
)

// Header carrying the resolved subject id for downstream handlers. The gate
// strips any client-supplied value before doing anything else.
const SubjectHeader = "X-User-ID"

// CookieName is the browser-facing token cookie; API clients use the
// Authorization header instead.
const CookieName = "skillmart_token"

// GateConfig controls the edge authentication gate.
type GateConfig struct {
	// Secret verifies token signatures.
	Secret []byte
	// Patterns are path prefixes subject to the gate. Requests outside the
	// patterns pass through untouched and rely on the server-side guard.
	Patterns []string
	// LoginPath is where unauthenticated page requests are redirected.
	LoginPath string
}

// AuthGate is the edge authentication gate: a coarse, fast check that the
// request carries a valid, non-expired identity token. It performs no role
// logic of any kind; the advisory role claim inside the token is not read
// here. Gated page requests without a valid token are redirected to the
// login page with a return path; gated API requests get a 401.
func AuthGate(cfg GateConfig, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.LoginPath == "" {
		cfg.LoginPath = "/login"
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			// Never trust an inbound subject header.
			ctx.Request.Header.Del(SubjectHeader)

			subject := ""
			if raw := extractToken(ctx); raw != "" {
				claims, err := token.Parse(cfg.Secret, raw)
				if err != nil {
					logger.Warn("invalid identity token",
						zap.String("path", string(ctx.Path())),
						zap.Error(err))
				} else {
					subject = claims.Subject
					ctx.Request.Header.Set(SubjectHeader, subject)
				}
			}

			path := string(ctx.Path())
			if subject == "" && matches(cfg.Patterns, path) {
				deny(ctx, cfg.LoginPath, path)
				return
			}

			next(ctx)
		}
	}
}

func deny(ctx *fasthttp.RequestCtx, loginPath, path string) {
	if strings.HasPrefix(path, "/api/") {
		ctx.SetStatusCode(fasthttp.StatusUnauthorized)
		ctx.Response.Header.SetContentType("application/json")
		ctx.SetBodyString(`{"success":false,"error":{"message":"authentication required"}}`)
		return
	}
	target := loginPath + "?callbackUrl=" + url.QueryEscape(path)
	ctx.SetStatusCode(fasthttp.StatusFound)
	ctx.Response.Header.Set(fasthttp.HeaderLocation, target)
}

func matches(patterns []string, path string) bool {
	for _, p := range patterns {
		if p != "" && strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func extractToken(ctx *fasthttp.RequestCtx) string {
	header := string(ctx.Request.Header.Peek("Authorization"))
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if header != "" {
		return header
	}
	return string(ctx.Request.Header.Cookie(CookieName))
}

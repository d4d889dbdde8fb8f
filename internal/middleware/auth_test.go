package middleware

import (
	"strings"
	"testing"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/skillmart/backend/domain"
	"github.com/skillmart/backend/pkg/token"
)

var testSecret = []byte("gate-secret-gate-secret-12345678")

func gateFor(t *testing.T, next fasthttp.RequestHandler) fasthttp.RequestHandler {
	t.Helper()
	mw := AuthGate(GateConfig{
		Secret:    testSecret,
		Patterns:  []string{"/dashboard", "/api/v1/profile", "/api/v1/admin"},
		LoginPath: "/login",
	}, nil)
	return mw(next)
}

func issueToken(t *testing.T, user *domain.User) string {
	t.Helper()
	signed, err := token.Generate(testSecret, user, "s1", time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return signed
}

func TestGateRedirectsPagesWithReturnPath(t *testing.T) {
	var called bool
	handler := gateFor(t, func(*fasthttp.RequestCtx) { called = true })

	var ctx fasthttp.RequestCtx
	ctx.Request.SetRequestURI("/dashboard/settings")

	handler(&ctx)

	if called {
		t.Fatalf("handler ran without authentication")
	}
	if ctx.Response.StatusCode() != fasthttp.StatusFound {
		t.Fatalf("expected 302, got %d", ctx.Response.StatusCode())
	}
	location := string(ctx.Response.Header.Peek("Location"))
	if location != "/login?callbackUrl=%2Fdashboard%2Fsettings" {
		t.Fatalf("unexpected redirect %q", location)
	}
}

func TestGateRejectsAPIWithJSON(t *testing.T) {
	handler := gateFor(t, func(*fasthttp.RequestCtx) { t.Fatal("handler ran") })

	var ctx fasthttp.RequestCtx
	ctx.Request.SetRequestURI("/api/v1/profile")

	handler(&ctx)

	if ctx.Response.StatusCode() != fasthttp.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", ctx.Response.StatusCode())
	}
	if !strings.Contains(string(ctx.Response.Body()), "authentication required") {
		t.Fatalf("unexpected body %s", ctx.Response.Body())
	}
}

func TestGateStripsForgedSubjectHeader(t *testing.T) {
	var seen string
	handler := gateFor(t, func(ctx *fasthttp.RequestCtx) {
		seen = string(ctx.Request.Header.Peek(SubjectHeader))
	})

	// Ungated path, forged identity header: it must not survive the gate.
	var ctx fasthttp.RequestCtx
	ctx.Request.SetRequestURI("/api/v1/products")
	ctx.Request.Header.Set(SubjectHeader, "admin-user")

	handler(&ctx)

	if seen != "" {
		t.Fatalf("forged subject header leaked through: %q", seen)
	}
}

func TestGateResolvesSubjectFromToken(t *testing.T) {
	var seen string
	handler := gateFor(t, func(ctx *fasthttp.RequestCtx) {
		seen = string(ctx.Request.Header.Peek(SubjectHeader))
	})

	var ctx fasthttp.RequestCtx
	ctx.Request.SetRequestURI("/api/v1/profile")
	ctx.Request.Header.Set("Authorization", "Bearer "+issueToken(t, &domain.User{ID: "u1", Role: domain.RoleCustomer}))
	ctx.Request.Header.Set(SubjectHeader, "someone-else")

	handler(&ctx)

	if seen != "u1" {
		t.Fatalf("expected subject u1, got %q", seen)
	}
}

func TestGateIgnoresExpiredToken(t *testing.T) {
	signed, err := token.Generate(testSecret, &domain.User{ID: "u1"}, "s1", -time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	handler := gateFor(t, func(*fasthttp.RequestCtx) { t.Fatal("handler ran") })

	var ctx fasthttp.RequestCtx
	ctx.Request.SetRequestURI("/api/v1/admin/audit")
	ctx.Request.Header.Set("Authorization", "Bearer "+signed)

	handler(&ctx)

	if ctx.Response.StatusCode() != fasthttp.StatusUnauthorized {
		t.Fatalf("expected 401 for expired token, got %d", ctx.Response.StatusCode())
	}
}

func TestGateIgnoresWrongSecret(t *testing.T) {
	signed, err := token.Generate([]byte("other-secret-other-secret-000000"), &domain.User{ID: "u1"}, "s1", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	handler := gateFor(t, func(*fasthttp.RequestCtx) { t.Fatal("handler ran") })

	var ctx fasthttp.RequestCtx
	ctx.Request.SetRequestURI("/dashboard")
	ctx.Request.Header.Set("Authorization", "Bearer "+signed)

	handler(&ctx)

	if ctx.Response.StatusCode() != fasthttp.StatusFound {
		t.Fatalf("expected redirect for forged token, got %d", ctx.Response.StatusCode())
	}
}

func TestGateReadsCookie(t *testing.T) {
	var seen string
	handler := gateFor(t, func(ctx *fasthttp.RequestCtx) {
		seen = string(ctx.Request.Header.Peek(SubjectHeader))
	})

	var ctx fasthttp.RequestCtx
	ctx.Request.SetRequestURI("/dashboard")
	ctx.Request.Header.SetCookie(CookieName, issueToken(t, &domain.User{ID: "u7"}))

	handler(&ctx)

	if seen != "u7" {
		t.Fatalf("expected subject u7, got %q", seen)
	}
}

func TestGatePassesUngatedPathsWithoutToken(t *testing.T) {
	var called bool
	handler := gateFor(t, func(*fasthttp.RequestCtx) { called = true })

	var ctx fasthttp.RequestCtx
	ctx.Request.SetRequestURI("/api/v1/products")

	handler(&ctx)

	if !called {
		t.Fatalf("ungated path should pass through")
	}
}

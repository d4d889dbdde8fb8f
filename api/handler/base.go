package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/skillmart/backend/api/transport"
	"github.com/skillmart/backend/domain"
	"github.com/skillmart/backend/internal/middleware"
	"github.com/skillmart/backend/internal/validation"
	"github.com/skillmart/backend/pkg/httpcontext"
)

type baseHandler struct {
	adapter *httpcontext.Adapter
	logger  *zap.Logger
}

func newBaseHandler(adapter *httpcontext.Adapter, logger *zap.Logger) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return baseHandler{adapter: adapter, logger: logger}
}

func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	if h.adapter != nil {
		return h.adapter.Attach(ctx)
	}
	return context.WithCancel(context.Background())
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload transport.Envelope) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(payload)
	ctx.SetBody(body)
}

func (h baseHandler) respondSuccess(ctx *fasthttp.RequestCtx, status int, data interface{}) {
	h.respondJSON(ctx, status, transport.NewSuccess(data))
}

func (h baseHandler) respondIssues(ctx *fasthttp.RequestCtx, issues validation.Issues) {
	h.respondJSON(ctx, http.StatusBadRequest, transport.NewValidationError(issues))
}

// respondError maps the error taxonomy onto the uniform envelope. Internal
// details never reach the client; unexpected errors become a generic 500.
func (h baseHandler) respondError(ctx *fasthttp.RequestCtx, err error) {
	var issues validation.Issues
	if errors.As(err, &issues) {
		h.respondIssues(ctx, issues)
		return
	}

	status, message := mapError(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", zap.String("path", string(ctx.Path())), zap.Error(err))
	}
	h.respondJSON(ctx, status, transport.NewError(message))
}

func mapError(err error) (int, string) {
	switch {
	case domain.IsDomainError(err, domain.ErrCodeUnauthorized):
		return http.StatusUnauthorized, clientMessage(err, "authentication required")
	case domain.IsDomainError(err, domain.ErrCodeForbidden):
		return http.StatusForbidden, clientMessage(err, "access denied")
	case domain.IsDomainError(err, domain.ErrCodeInvalid):
		return http.StatusBadRequest, clientMessage(err, "invalid payload")
	case domain.IsDomainError(err, domain.ErrCodeNotFound):
		return http.StatusNotFound, clientMessage(err, "not found")
	case domain.IsDomainError(err, domain.ErrCodeConflict):
		return http.StatusConflict, clientMessage(err, "conflict")
	default:
		// CONFIG and everything unexpected surface as a bare 500.
		return http.StatusInternalServerError, "internal error"
	}
}

// clientMessage exposes the domain message for expected failures only.
func clientMessage(err error, fallback string) string {
	var dErr *domain.Error
	if errors.As(err, &dErr) && dErr.Message != "" {
		return dErr.Message
	}
	return fallback
}

// subject returns the identity resolved by the edge gate, or responds 401.
func (h baseHandler) subject(ctx *fasthttp.RequestCtx) string {
	userID := string(ctx.Request.Header.Peek(middleware.SubjectHeader))
	if userID == "" {
		h.respondJSON(ctx, http.StatusUnauthorized, transport.NewError("authentication required"))
	}
	return userID
}

// rawSubject returns the resolved identity without writing a response.
// Guarded routes pass it straight to the authorization guard, which owns
// the failure handling (and the audit trail) for a missing identity.
func (h baseHandler) rawSubject(ctx *fasthttp.RequestCtx) string {
	return string(ctx.Request.Header.Peek(middleware.SubjectHeader))
}

// decode unmarshals the request body and runs schema validation. It writes
// the error response itself when the payload is rejected.
func (h baseHandler) decode(ctx *fasthttp.RequestCtx, dst interface{}) bool {
	if err := json.Unmarshal(ctx.PostBody(), dst); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError("invalid payload"))
		return false
	}
	if issues := validation.Check(dst); issues != nil {
		h.respondIssues(ctx, issues)
		return false
	}
	return true
}

package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/skillmart/backend/api/transport"
	"github.com/skillmart/backend/domain"
	"github.com/skillmart/backend/pkg/httpcontext"
	adminUC "github.com/skillmart/backend/usecase/admin"
	auditUC "github.com/skillmart/backend/usecase/auditlog"
	"github.com/skillmart/backend/usecase/guard"
)

var adminOnly = domain.NewRoleSet(domain.RoleAdmin)

type AdminHandler struct {
	baseHandler
	admin *adminUC.UseCase
	audit *auditUC.UseCase
	guard *guard.Guard
}

func NewAdminHandler(admin *adminUC.UseCase, audit *auditUC.UseCase, g *guard.Guard, adapter *httpcontext.Adapter, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		baseHandler: newBaseHandler(adapter, logger),
		admin:       admin,
		audit:       audit,
		guard:       g,
	}
}

// @Summary Change a user's role
// @Tags admin
// @Router /api/v1/admin/users/{id}/role [put]
func (h *AdminHandler) UpdateUserRole(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if _, err := h.guard.Authorize(stdCtx, h.rawSubject(ctx), adminOnly,
		guard.Options{Route: "/api/v1/admin/users/role", LogOnSuccess: true}); err != nil {
		h.respondError(ctx, err)
		return
	}

	targetID, _ := ctx.UserValue("id").(string)
	if targetID == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError("missing user id"))
		return
	}

	var req transport.RoleUpdateRequest
	if !h.decode(ctx, &req) {
		return
	}

	role, _ := domain.ParseRole(req.Role)
	user, err := h.admin.UpdateUserRole(stdCtx, targetID, role)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, user.Summary())
}

// @Summary List audit log entries
// @Tags admin
// @Router /api/v1/admin/audit [get]
func (h *AdminHandler) ListAudit(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if _, err := h.guard.Authorize(stdCtx, h.rawSubject(ctx), adminOnly,
		guard.Options{Route: "/api/v1/admin/audit"}); err != nil {
		h.respondError(ctx, err)
		return
	}

	args := ctx.QueryArgs()
	sinceDays := args.GetUintOrZero("since_days")
	limit := args.GetUintOrZero("limit")
	action := domain.AuditAction(args.Peek("action"))

	var entries []domain.AuditLogEntry
	switch {
	case len(args.Peek("user_id")) > 0:
		entries = h.audit.ListByUser(stdCtx, string(args.Peek("user_id")), sinceDays, action, limit)
	case len(args.Peek("role")) > 0:
		entries = h.audit.ListByRole(stdCtx, domain.Role(args.Peek("role")), sinceDays, limit)
	case len(args.Peek("route")) > 0:
		entries = h.audit.ListByRoute(stdCtx, string(args.Peek("route")), sinceDays, limit)
	default:
		entries = h.audit.ListByRoute(stdCtx, "", sinceDays, limit)
	}

	if entries == nil {
		entries = []domain.AuditLogEntry{}
	}
	h.respondSuccess(ctx, http.StatusOK, entries)
}

// @Summary Summarize denied access by role and route
// @Tags admin
// @Router /api/v1/admin/audit/summary [get]
func (h *AdminHandler) AuditSummary(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if _, err := h.guard.Authorize(stdCtx, h.rawSubject(ctx), adminOnly,
		guard.Options{Route: "/api/v1/admin/audit/summary"}); err != nil {
		h.respondError(ctx, err)
		return
	}

	summary := h.audit.Summarize(stdCtx, ctx.QueryArgs().GetUintOrZero("since_days"))
	h.respondSuccess(ctx, http.StatusOK, summary)
}

package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/skillmart/backend/api/transport"
	"github.com/skillmart/backend/internal/middleware"
	"github.com/skillmart/backend/pkg/httpcontext"
	"github.com/skillmart/backend/pkg/token"
	authUC "github.com/skillmart/backend/usecase/auth"
)

type AuthHandler struct {
	baseHandler
	uc     *authUC.UseCase
	secret []byte
}

func NewAuthHandler(uc *authUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger, secret []byte) *AuthHandler {
	return &AuthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		secret:      secret,
	}
}

// @Summary Authenticate with email and password
// @Tags auth
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(ctx *fasthttp.RequestCtx) {
	var creds authUC.Credentials
	if err := json.Unmarshal(ctx.PostBody(), &creds); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError("invalid payload"))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	result, err := h.uc.Login(stdCtx, creds)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	h.respondSuccess(ctx, http.StatusOK, transport.LoginResponse{
		Token:     result.Token,
		SessionID: result.Session.ID,
		User:      result.User,
	})
}

// @Summary Register a new account
// @Tags auth
// @Router /api/v1/auth/register [post]
func (h *AuthHandler) Register(ctx *fasthttp.RequestCtx) {
	var reg authUC.Registration
	if err := json.Unmarshal(ctx.PostBody(), &reg); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError("invalid payload"))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user, err := h.uc.Register(stdCtx, reg)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, user.Summary())
}

// @Summary Revoke the current session
// @Tags auth
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(ctx *fasthttp.RequestCtx) {
	if h.subject(ctx) == "" {
		return
	}

	claims, err := token.Parse(h.secret, bearerToken(ctx))
	if err != nil || claims.SessionID == "" {
		h.respondJSON(ctx, http.StatusUnauthorized, transport.NewError("authentication required"))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Logout(stdCtx, claims.SessionID); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, nil)
}

// @Summary Extend the current session
// @Tags auth
// @Router /api/v1/auth/refresh [post]
func (h *AuthHandler) Refresh(ctx *fasthttp.RequestCtx) {
	if h.subject(ctx) == "" {
		return
	}

	claims, err := token.Parse(h.secret, bearerToken(ctx))
	if err != nil || claims.SessionID == "" {
		h.respondJSON(ctx, http.StatusUnauthorized, transport.NewError("authentication required"))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	session, err := h.uc.RefreshSession(stdCtx, claims.SessionID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, session)
}

func bearerToken(ctx *fasthttp.RequestCtx) string {
	header := string(ctx.Request.Header.Peek("Authorization"))
	if len(header) > 7 && header[:7] == "Bearer " {
		return header[7:]
	}
	if header != "" {
		return header
	}
	return string(ctx.Request.Header.Cookie(middleware.CookieName))
}

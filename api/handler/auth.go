package handler

import (
	"context"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/nexus/api/transport"
	"github.com/fastygo/nexus/domain"
	"github.com/fastygo/nexus/pkg/httpcontext"
)

// SessionService is the subset of the session manager the HTTP layer needs.
type SessionService interface {
	Login(ctx context.Context, email string) (bool, error)
	Signup(ctx context.Context, name, email string, role domain.Role) (bool, error)
	Logout(ctx context.Context) error
	Current() *domain.User
	State() domain.SessionState
}

type sessionView struct {
	State domain.SessionState `json:"state"`
	User  *domain.User        `json:"user,omitempty"`
}

type AuthHandler struct {
	baseHandler
	session SessionService
}

func NewAuthHandler(session SessionService, adapter *httpcontext.Adapter, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		session:     session,
	}
}

// @Summary Log in by email
// @Tags auth
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(ctx *fasthttp.RequestCtx) {
	var req transport.LoginRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	ok, err := h.session.Login(stdCtx, req.Email)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	if !ok {
		h.respondJSON(ctx, http.StatusUnauthorized, transport.NewError(string(domain.ErrCodeUnauthorized), "unknown email", nil))
		return
	}
	h.respondSuccess(ctx, http.StatusOK, h.view())
}

// @Summary Register and log in
// @Tags auth
// @Router /api/v1/auth/signup [post]
func (h *AuthHandler) Signup(ctx *fasthttp.RequestCtx) {
	var req transport.SignupRequest
	if !h.decode(ctx, &req) {
		return
	}
	role := domain.Role(req.Role)
	if role == "" {
		role = domain.RoleUser
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	ok, err := h.session.Signup(stdCtx, req.Name, req.Email, role)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	if !ok {
		h.respondError(ctx, domain.ErrDuplicateEmail)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, h.view())
}

// @Summary End the current session
// @Tags auth
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.session.Logout(stdCtx); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, h.view())
}

// @Summary Current session
// @Tags auth
// @Router /api/v1/auth/session [get]
func (h *AuthHandler) Session(ctx *fasthttp.RequestCtx) {
	h.respondSuccess(ctx, http.StatusOK, h.view())
}

func (h *AuthHandler) view() sessionView {
	return sessionView{State: h.session.State(), User: h.session.Current()}
}

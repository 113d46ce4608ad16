package middleware

import (
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/nexus/api/transport"
	"github.com/fastygo/nexus/domain"
	"github.com/fastygo/nexus/usecase"
)

// RequireSession rejects requests with 401 while no user is logged in.
func RequireSession(session usecase.CurrentUser, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	body := []byte(transport.NewError(string(domain.ErrCodeUnauthorized), "login required", nil).String())

	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			if session.Current() == nil {
				logger.Debug("anonymous request rejected", zap.ByteString("path", ctx.Path()))
				ctx.Response.Header.SetContentType("application/json")
				ctx.SetStatusCode(fasthttp.StatusUnauthorized)
				ctx.SetBody(body)
				return
			}
			next(ctx)
		}
	}
}

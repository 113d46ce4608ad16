package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/nexus/api/transport"
	"github.com/fastygo/nexus/domain"
	"github.com/fastygo/nexus/pkg/httpcontext"
	"github.com/fastygo/nexus/usecase/dashboard"
)

type ActivityReader interface {
	Recent(n int) []domain.ActivityLog
}

type OverviewProvider interface {
	Overview() dashboard.Overview
}

type ActivityHandler struct {
	baseHandler
	activities ActivityReader
	dashboard  OverviewProvider
}

func NewActivityHandler(activities ActivityReader, overview OverviewProvider, adapter *httpcontext.Adapter, logger *zap.Logger) *ActivityHandler {
	return &ActivityHandler{
		baseHandler: newBaseHandler(adapter, logger),
		activities:  activities,
		dashboard:   overview,
	}
}

// @Summary Newest-first activity log
// @Tags activity
// @Param limit query int false "maximum entries, 0 for all"
// @Router /api/v1/activities [get]
func (h *ActivityHandler) List(ctx *fasthttp.RequestCtx) {
	limit := parseInt(string(ctx.QueryArgs().Peek("limit")), 0)
	if limit < 0 {
		h.respondInvalid(ctx, "limit must not be negative")
		return
	}
	entries := h.activities.Recent(limit)
	h.respondJSON(ctx, http.StatusOK, transport.NewList(entries, len(entries)))
}

// @Summary Dashboard statistics and recent activity
// @Tags activity
// @Router /api/v1/dashboard [get]
func (h *ActivityHandler) Dashboard(ctx *fasthttp.RequestCtx) {
	h.respondSuccess(ctx, http.StatusOK, h.dashboard.Overview())
}

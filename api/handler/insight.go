package handler

import (
	"context"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/nexus/domain"
	"github.com/fastygo/nexus/pkg/httpcontext"
	"github.com/fastygo/nexus/usecase/insight"
)

type InsightService interface {
	Analyze(ctx context.Context) insight.Insight
	Latest() (insight.Insight, bool)
}

type InsightHandler struct {
	baseHandler
	insights InsightService
}

func NewInsightHandler(insights InsightService, adapter *httpcontext.Adapter, logger *zap.Logger) *InsightHandler {
	return &InsightHandler{
		baseHandler: newBaseHandler(adapter, logger),
		insights:    insights,
	}
}

// @Summary Last generated insight
// @Tags insights
// @Router /api/v1/insights [get]
func (h *InsightHandler) Latest(ctx *fasthttp.RequestCtx) {
	latest, ok := h.insights.Latest()
	if !ok {
		h.respondError(ctx, domain.NewError(domain.ErrCodeNotFound, "no insight generated yet"))
		return
	}
	h.respondSuccess(ctx, http.StatusOK, latest)
}

// @Summary Generate an insight for the visible tasks
// @Tags insights
// @Router /api/v1/insights [post]
func (h *InsightHandler) Analyze(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	h.respondSuccess(ctx, http.StatusOK, h.insights.Analyze(stdCtx))
}

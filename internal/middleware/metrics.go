package middleware

import (
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

type StatusRecorder interface {
	RecordHTTPStatus(statusCode int)
}

// AccessLog logs every request and reports its final status code to recorder, which may be nil.
func AccessLog(recorder StatusRecorder, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			start := time.Now()
			next(ctx)

			status := ctx.Response.StatusCode()
			if recorder != nil {
				recorder.RecordHTTPStatus(status)
			}
			logger.Debug("request served",
				zap.ByteString("method", ctx.Method()),
				zap.ByteString("path", ctx.Path()),
				zap.Int("status", status),
				zap.Duration("duration", time.Since(start)))
		}
	}
}

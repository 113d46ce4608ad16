package middleware

import (
	"testing"

	"github.com/valyala/fasthttp"

	"github.com/fastygo/nexus/domain"
)

type fakeSession struct{ user *domain.User }

func (f fakeSession) Current() *domain.User { return f.user }

type countingRecorder struct{ codes []int }

func (c *countingRecorder) RecordHTTPStatus(code int) { c.codes = append(c.codes, code) }

func TestRequireSession(t *testing.T) {
	tests := []struct {
		name       string
		user       *domain.User
		wantStatus int
		wantCalled bool
	}{
		{name: "anonymous", user: nil, wantStatus: fasthttp.StatusUnauthorized, wantCalled: false},
		{name: "authenticated", user: &domain.User{ID: "u1"}, wantStatus: fasthttp.StatusOK, wantCalled: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := RequireSession(fakeSession{user: tt.user}, nil)(func(ctx *fasthttp.RequestCtx) {
				called = true
			})

			var ctx fasthttp.RequestCtx
			handler(&ctx)

			if called != tt.wantCalled {
				t.Fatalf("called = %v, want %v", called, tt.wantCalled)
			}
			if ctx.Response.StatusCode() != tt.wantStatus {
				t.Fatalf("status = %d, want %d", ctx.Response.StatusCode(), tt.wantStatus)
			}
		})
	}
}

func TestAccessLog_RecordsStatus(t *testing.T) {
	recorder := &countingRecorder{}
	handler := AccessLog(recorder, nil)(func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusCreated)
	})

	var ctx fasthttp.RequestCtx
	handler(&ctx)

	if len(recorder.codes) != 1 || recorder.codes[0] != fasthttp.StatusCreated {
		t.Fatalf("codes = %v", recorder.codes)
	}
}

func TestAccessLog_NilRecorder(t *testing.T) {
	handler := AccessLog(nil, nil)(func(ctx *fasthttp.RequestCtx) {})
	var ctx fasthttp.RequestCtx
	handler(&ctx)
}

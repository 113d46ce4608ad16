package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/fastygo/nexus/api/handler"
)

type Handlers struct {
	Auth     *apiHandler.AuthHandler
	Task     *apiHandler.TaskHandler
	Activity *apiHandler.ActivityHandler
	Insight  *apiHandler.InsightHandler
	Health   *apiHandler.HealthHandler
	// Metrics is mounted at /metrics when set.
	Metrics fasthttp.RequestHandler
}

func New(handlers Handlers, sessionMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)
	if handlers.Metrics != nil {
		r.GET("/metrics", handlers.Metrics)
	}

	// Auth routes
	r.POST("/api/v1/auth/login", handlers.Auth.Login)
	r.POST("/api/v1/auth/signup", handlers.Auth.Signup)
	r.POST("/api/v1/auth/logout", sessionMiddleware(handlers.Auth.Logout))
	r.GET("/api/v1/auth/session", sessionMiddleware(handlers.Auth.Session))

	// Protected routes
	r.GET("/api/v1/tasks", sessionMiddleware(handlers.Task.List))
	r.POST("/api/v1/tasks", sessionMiddleware(handlers.Task.Create))
	r.GET("/api/v1/tasks/{id}", sessionMiddleware(handlers.Task.Get))
	r.PATCH("/api/v1/tasks/{id}", sessionMiddleware(handlers.Task.Update))
	r.DELETE("/api/v1/tasks/{id}", sessionMiddleware(handlers.Task.Delete))
	r.POST("/api/v1/tasks/{id}/comments", sessionMiddleware(handlers.Task.Comment))
	r.GET("/api/v1/tasks/{id}/history", sessionMiddleware(handlers.Task.History))

	r.GET("/api/v1/activities", sessionMiddleware(handlers.Activity.List))
	r.GET("/api/v1/dashboard", sessionMiddleware(handlers.Activity.Dashboard))

	r.GET("/api/v1/insights", sessionMiddleware(handlers.Insight.Latest))
	r.POST("/api/v1/insights", sessionMiddleware(handlers.Insight.Analyze))

	return r
}

package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // Echo web framework for routing
	"github.com/redis/go-redis/v9"

	"github.com/yahyaabohashemstu/yukleme/internal/config"
	"github.com/yahyaabohashemstu/yukleme/internal/handler"
	"github.com/yahyaabohashemstu/yukleme/internal/middleware"
)

// RegisterRoutes registers routes that require no authentication.
// Currently it exposes only a health check for load balancers and
// monitoring systems.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints.  Login is guarded
// by a Redis token bucket keyed on client IP so the small fixed set of
// accounts cannot be brute-forced; when Redis is unavailable the limiter
// degrades to a pass-through.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, rdb *redis.Client) {
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	e.POST("/api/login", a.Login, limiter)
	e.POST("/api/refresh", a.Refresh)
	e.POST("/api/logout", a.Logout)
	e.GET("/api/check-auth", a.CheckAuth)
}

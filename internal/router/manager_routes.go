package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/yahyaabohashemstu/yukleme/internal/config"
	"github.com/yahyaabohashemstu/yukleme/internal/handler"
	"github.com/yahyaabohashemstu/yukleme/internal/middleware"
	"github.com/yahyaabohashemstu/yukleme/internal/model"
)

// RegisterManager registers review-scoped endpoints under /api.  All
// routes require a valid JWT and the manager role.  Managers see every
// report, open individual ones (which sets the first-view marker) and
// record/unrecord them.
func RegisterManager(e *echo.Echo, h *handler.ManagerHandler, jwtSecret string) {
	g := e.Group(
		"/api",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleManager),
	)
	g.GET("/loadings", h.ListAll)
	g.GET("/loadings/:id", h.Get)
	g.PATCH("/loadings/:id/record", h.Record)
	g.PATCH("/loadings/:id/unrecord", h.Unrecord)
	g.PATCH("/loadings/:id/view", h.View)
}

// RegisterVersions registers the version-history listing, readable by
// both roles.  The response is cached briefly in Redis: history rows are
// append-only, so a short TTL only delays the appearance of the newest
// snapshot.
func RegisterVersions(e *echo.Echo, h *handler.VersionHandler, jwtSecret string, rdb *redis.Client) {
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	g := e.Group(
		"/api",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleLoader, model.RoleManager),
	)
	g.GET("/loadings/:id/versions", h.List, cache)
}

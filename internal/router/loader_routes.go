package router

import (
	"github.com/labstack/echo/v4"

	"github.com/yahyaabohashemstu/yukleme/internal/handler"
	"github.com/yahyaabohashemstu/yukleme/internal/middleware"
	"github.com/yahyaabohashemstu/yukleme/internal/model"
)

// RegisterLoader registers loader-scoped endpoints under /api.  All
// routes require a valid JWT and the loader role.  Loaders submit new
// reports, list their own, and edit them (which archives the pre-edit
// state as a version).
func RegisterLoader(e *echo.Echo, h *handler.LoaderHandler, jwtSecret string) {
	g := e.Group(
		"/api",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleLoader),
	)
	g.POST("/loadings", h.Create)
	g.GET("/my-loadings", h.MyLoadings)
	g.PUT("/loadings/:id", h.Update)
}

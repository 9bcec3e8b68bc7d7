package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/yahyaabohashemstu/yukleme/internal/service"
)

// VersionHandler exposes a report's archived history.  Both loaders and
// managers may read it, so it lives outside the role-scoped handlers.
type VersionHandler struct {
	Lifecycle *service.Lifecycle
}

func NewVersionHandler(lc *service.Lifecycle) *VersionHandler {
	if lc == nil {
		panic("nil lifecycle passed to NewVersionHandler")
	}
	return &VersionHandler{Lifecycle: lc}
}

// List handles GET /api/loadings/:id/versions: the archived snapshots of
// one report, newest version first.  An unknown id yields an empty list,
// matching the underlying append-only history.
func (h *VersionHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	versions, err := h.Lifecycle.Versions(ctx, c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch versions"})
	}
	return c.JSON(http.StatusOK, versions)
}

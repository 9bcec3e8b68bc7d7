package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/yahyaabohashemstu/yukleme/internal/repository"
	"github.com/yahyaabohashemstu/yukleme/internal/service"
)

// ManagerHandler serves the review-side endpoints: listing every report,
// inspecting one, marking it viewed and recording/unrecording it.
type ManagerHandler struct {
	Lifecycle *service.Lifecycle
}

// NewManagerHandler constructs a ManagerHandler and panics if the
// lifecycle is nil.
func NewManagerHandler(lc *service.Lifecycle) *ManagerHandler {
	if lc == nil {
		panic("nil lifecycle passed to NewManagerHandler")
	}
	return &ManagerHandler{Lifecycle: lc}
}

// ListAll handles GET /api/loadings: every report, newest first, with
// version counts.
func (h *ManagerHandler) ListAll(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Lifecycle.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch loadings"})
	}
	return c.JSON(http.StatusOK, list)
}

// Get handles GET /api/loadings/:id.
func (h *ManagerHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rec, err := h.Lifecycle.Get(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrLoadingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "loading not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch loading"})
	}
	return c.JSON(http.StatusOK, rec)
}

// Record handles PATCH /api/loadings/:id/record: stamp the acting
// reviewer's marker.  Which marker is stamped follows from the manager's
// username, not from the request body.
func (h *ManagerHandler) Record(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	rec, err := h.Lifecycle.Record(ctx, c.Param("id"), reviewerFromContext(c), userID)
	if err != nil {
		if errors.Is(err, repository.ErrLoadingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "loading not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to record loading"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "loading recorded", "loading": rec})
}

// Unrecord handles PATCH /api/loadings/:id/unrecord: clear the acting
// reviewer's marker.  The legacy shared flag clears only when neither
// reviewer still has a marker set.
func (h *ManagerHandler) Unrecord(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rec, err := h.Lifecycle.Unrecord(ctx, c.Param("id"), reviewerFromContext(c))
	if err != nil {
		if errors.Is(err, repository.ErrLoadingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "loading not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to unrecord loading"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "loading unrecorded", "loading": rec})
}

// View handles PATCH /api/loadings/:id/view: first-viewer-wins.  The
// endpoint succeeds whether or not the call actually set the marker, so
// the frontend can fire it on every open without branching.
func (h *ManagerHandler) View(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Lifecycle.MarkViewed(ctx, c.Param("id")); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to mark viewed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "view recorded"})
}

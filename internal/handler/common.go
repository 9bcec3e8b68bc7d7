package handler // handler defines http handlers

import (
	"errors"  // errors provides sentinel values used in identity helpers
	"strings" // strings provides trimming helpers

	"github.com/labstack/echo/v4" // echo defines request context types

	"github.com/yahyaabohashemstu/yukleme/internal/model"
)

// getUserID extracts the authenticated user's id from the echo context.
// JWTAuth stores the subject claim under "user_id" as a string.
func getUserID(c echo.Context) (string, error) {
	if s, ok := c.Get("user_id").(string); ok && s != "" {
		return s, nil
	}
	return "", errors.New("invalid user_id in context")
}

// getUsername extracts the authenticated user's login name; empty when
// the claim is absent.
func getUsername(c echo.Context) string {
	if s, ok := c.Get("username").(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

// reviewerFromContext resolves which reviewer marker the authenticated
// manager acts on.  The 'pinar' account owns the pinar marker; any other
// manager account defaults to the safwat marker, mirroring how the
// columns were used historically.
func reviewerFromContext(c echo.Context) model.ReviewerRole {
	return model.ReviewerForUsername(strings.ToLower(getUsername(c)))
}

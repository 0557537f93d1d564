package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/obituaryapp/obituary-api/internal/core/ports"
)

// requesterFromContext extracts the identity injected by the Auth middleware.
// The subject claim is the identity; when it is absent the display-name claim
// is used instead. A request with neither never passed authentication.
func requesterFromContext(c echo.Context) (ports.Requester, error) {
	id, _ := c.Get("user_id").(string)
	if id == "" {
		id, _ = c.Get("user_name").(string)
	}
	if id == "" {
		return ports.Requester{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	roles, _ := c.Get("roles").([]string)
	return ports.Requester{ID: id, Roles: roles}, nil
}

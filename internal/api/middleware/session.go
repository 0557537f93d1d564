package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/obituaryapp/obituary-api/internal/core/ports"
)

// SessionCookie is the name of the cookie carrying the web UI session token.
const SessionCookie = "obituary_session"

// SessionResolver maps a session token to a user id. Backed by Redis in
// production.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (string, error)
}

// Session authenticates server-rendered UI requests via the session cookie.
// It resolves the token to an account in the shared identity store and
// injects the same context keys as the bearer Auth middleware, so the role
// guard works under either scheme. Unauthenticated browsers are redirected
// to the login form instead of receiving a bare 401.
func Session(sessions SessionResolver, users ports.AuthRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				return c.Redirect(http.StatusSeeOther, "/web/login")
			}

			ctx := c.Request().Context()
			userID, err := sessions.Resolve(ctx, cookie.Value)
			if err != nil {
				return c.Redirect(http.StatusSeeOther, "/web/login")
			}

			user, err := users.FindByID(ctx, userID)
			if err != nil {
				return c.Redirect(http.StatusSeeOther, "/web/login")
			}

			c.Set("user_id", user.ID)
			c.Set("user_name", user.Email)
			c.Set("roles", user.Roles)

			return next(c)
		}
	}
}

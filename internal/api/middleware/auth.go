package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// TokenVerifier carries the expected parameters of a valid bearer token.
type TokenVerifier struct {
	Secret   string
	Issuer   string
	Audience string
}

// Auth validates the JWT bearer token and injects the identity claims into
// the Echo context: user_id (sub), user_name (name), roles ([]string).
// Signature, issuer, audience and expiry are all checked; any failure yields
// a plain 401.
func Auth(v TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims,
				func(token *jwt.Token) (interface{}, error) {
					if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
						return nil, jwt.ErrTokenSignatureInvalid
					}
					return []byte(v.Secret), nil
				},
				jwt.WithIssuer(v.Issuer),
				jwt.WithAudience(v.Audience),
				jwt.WithExpirationRequired(),
			)
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			sub, _ := claims["sub"].(string)
			name, _ := claims["name"].(string)
			c.Set("user_id", sub)
			c.Set("user_name", name)
			c.Set("roles", rolesFromClaims(claims))

			return next(c)
		}
	}
}

// rolesFromClaims extracts the roles claim, tolerating both a JSON array and
// a single string value.
func rolesFromClaims(claims jwt.MapClaims) []string {
	switch v := claims["roles"].(type) {
	case []interface{}:
		roles := make([]string, 0, len(v))
		for _, r := range v {
			if s, ok := r.(string); ok {
				roles = append(roles, s)
			}
		}
		return roles
	case string:
		return []string{v}
	default:
		return nil
	}
}

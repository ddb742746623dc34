// Package auth is the request authorization chain: RequireToken
// verifies the bearer credential and attaches the decoded identity,
// RequireRole gates a route group on the caller's role. Any failure
// short-circuits; the caller has to re-authenticate.
package auth

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/avorobev/storefront/internal/role"
	"github.com/avorobev/storefront/internal/token"
)

const contextKey = "user"

// RequireToken verifies the Authorization bearer token and stores the
// parsed claims in the request context. Absent, malformed, expired and
// badly signed tokens all map to 401.
func RequireToken(secret []byte) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningMethod: "HS256",
		SigningKey:    secret,
		ContextKey:    contextKey,
		TokenLookup:   "header:Authorization:Bearer ",
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(token.Claims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid token")
		},
	})
}

// IdentityFrom returns the identity attached by RequireToken.
func IdentityFrom(c echo.Context) (token.Identity, error) {
	tkn, ok := c.Get(contextKey).(*jwt.Token)
	if !ok {
		return token.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid token")
	}
	claims, ok := tkn.Claims.(*token.Claims)
	if !ok {
		return token.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid token")
	}
	ident, err := claims.Identity()
	if err != nil {
		return token.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid token")
	}
	return ident, nil
}

// RequireRole rejects callers whose role does not match required.
// Comparison is case-insensitive via role.Normalize.
func RequireRole(required role.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ident, err := IdentityFrom(c)
			if err != nil {
				return err
			}
			if ident.Role != required {
				return echo.NewHTTPError(http.StatusForbidden, "not enough rights")
			}
			return next(c)
		}
	}
}

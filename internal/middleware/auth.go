package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/jeongwook5013/SecondHand-Shop/internal/service"
)

// CtxUsername is the echo context key the gate binds the resolved
// identity under. Request scoped only; handlers read it, nothing writes it
// after the gate.
const CtxUsername = "username"

const bearerPrefix = "Bearer "

type BearerAuth struct {
	Tokens *service.TokenService
}

func NewBearerAuth(tokens *service.TokenService) *BearerAuth {
	return &BearerAuth{Tokens: tokens}
}

// Require rejects the request unless it carries a valid bearer token, and
// binds the token subject into the request context.
func (m *BearerAuth) Require(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		if header == "" || !strings.HasPrefix(header, bearerPrefix) {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
		}

		raw := strings.TrimPrefix(header, bearerPrefix)
		username, err := m.Tokens.ExtractSubject(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}
		if !m.Tokens.Validate(raw, username) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
		}

		c.Set(CtxUsername, username)
		return next(c)
	}
}

// Username returns the identity bound by Require, empty on public routes.
func Username(c echo.Context) string {
	username, _ := c.Get(CtxUsername).(string)
	return username
}

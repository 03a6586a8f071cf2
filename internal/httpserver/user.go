package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jeongwook5013/SecondHand-Shop/internal/service"
	"github.com/jeongwook5013/SecondHand-Shop/internal/transport"
	"github.com/jeongwook5013/SecondHand-Shop/pkg/logging"
)

type UserHTTP struct {
	Svc *service.UserService
}

func (h *UserHTTP) Signup(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.signup")

	var req transport.SignupRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("signup_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.Signup(ctx, req.Username, req.Password, req.Email); err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"username": req.Username,
		"message":  "signup completed",
	})
}

func (h *UserHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	token, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, transport.LoginResponse{Token: token})
}

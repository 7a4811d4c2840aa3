package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_api/internal/logging"
	authmw "github.com/Skotchmaster/shop_api/internal/middleware/auth"
	"github.com/Skotchmaster/shop_api/internal/service"
	"github.com/Skotchmaster/shop_api/internal/tokens"
	"github.com/Skotchmaster/shop_api/internal/transport"
)

type AuthHTTP struct {
	Svc          *service.AuthService
	CookieSecure bool
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			l.Warn("login_failed", "status", 401, "reason", "invalid credentials")
			return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized. Invalid credentials")
		}
		l.Error("login_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	// a fresh login replaces whatever session the client was holding
	if prev, ok := authmw.IdentityFrom(c); ok {
		if err := h.Svc.Logout(ctx, *prev); err != nil && !errors.Is(err, service.ErrNoSession) {
			l.Warn("previous_session_revoke_failed", "error", err)
		}
	}

	c.SetCookie(tokens.CreateCookie(tokens.SessionCookie, res.Token, "/", res.ExpiresAt, h.CookieSecure))
	l.Info("login_successful", "user_id", res.Identity.UserID)

	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Logged in successfully"})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_logout")

	id, ok := authmw.IdentityFrom(c)
	if !ok {
		l.Warn("logout_failed", "status", 401, "reason", "no session")
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}

	if err := h.Svc.Logout(ctx, *id); err != nil {
		c.SetCookie(tokens.DeleteCookie(tokens.SessionCookie, "/", h.CookieSecure))
		if errors.Is(err, service.ErrNoSession) {
			l.Warn("logout_failed", "status", 401, "reason", "session already gone")
			return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
		}
		l.Error("logout_failed", "status", 500, "reason", "cannot revoke session", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	c.SetCookie(tokens.DeleteCookie(tokens.SessionCookie, "/", h.CookieSecure))
	l.Info("successful_logout", "user_id", id.UserID)

	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Logout successfully"})
}

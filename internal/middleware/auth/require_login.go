package auth

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_api/internal/logging"
	"github.com/Skotchmaster/shop_api/internal/service"
	"github.com/Skotchmaster/shop_api/internal/tokens"
)

type Sessions struct {
	Auth         Authenticator
	CookieSecure bool
}

// Resolve looks up the session cookie and attaches the identity to the
// context. Requests without a valid session pass through anonymously.
func (m *Sessions) Resolve(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ck, err := c.Cookie(tokens.SessionCookie)
		if err != nil || ck.Value == "" {
			return next(c)
		}

		ctx := c.Request().Context()
		id, err := m.Auth.Authenticate(ctx, ck.Value)
		if err != nil {
			if !errors.Is(err, service.ErrNoSession) {
				logging.FromContext(ctx).Error("session_lookup_error", "error", err)
				return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
			}
			c.SetCookie(tokens.DeleteCookie(tokens.SessionCookie, "/", m.CookieSecure))
			return next(c)
		}

		setIdentity(c, id)
		return next(c)
	}
}

// RequireAuth rejects requests that Resolve could not attach an identity to.
func RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := IdentityFrom(c); !ok {
			logging.FromContext(c.Request().Context()).Warn("unauthorized", "status", 401, "path", c.Path())
			return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
		}
		return next(c)
	}
}

package auth

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_api/internal/service"
)

const identityKey = "identity"

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*service.Identity, error)
}

func setIdentity(c echo.Context, id *service.Identity) {
	c.Set(identityKey, id)
	c.Set("user_id", id.UserID)
}

// IdentityFrom returns the identity resolved for this request, if any.
func IdentityFrom(c echo.Context) (*service.Identity, bool) {
	id, ok := c.Get(identityKey).(*service.Identity)
	return id, ok && id != nil
}

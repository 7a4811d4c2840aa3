package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_api/internal/logging"
	authmw "github.com/Skotchmaster/shop_api/internal/middleware/auth"
	"github.com/Skotchmaster/shop_api/internal/service"
	"github.com/Skotchmaster/shop_api/internal/transport"
)

const (
	msgCartAddFailed    = "Failed to add item to the cart"
	msgCartRemoveFailed = "Failed to remove item from the cart"
)

type CartHTTP struct {
	Svc *service.CartService
	// LegacyViewStatus answers GET /api/cart with 400 for clients that expect it.
	LegacyViewStatus bool
}

func (h *CartHTTP) userID(c echo.Context) (uint, error) {
	id, ok := authmw.IdentityFrom(c)
	if !ok {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}
	return id.UserID, nil
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart_get")

	userID, err := h.userID(c)
	if err != nil {
		return err
	}

	lines, err := h.Svc.ViewCart(ctx, userID)
	if err != nil {
		l.Error("get_cart_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	status := http.StatusOK
	if h.LegacyViewStatus {
		status = http.StatusBadRequest
	}
	l.Debug("cart_viewed", "user_id", userID, "items", len(lines))
	return c.JSON(status, lines)
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart_add")

	userID, err := h.userID(c)
	if err != nil {
		return err
	}
	productID, ok := parseID(c, "productId")
	if !ok {
		l.Warn("add_cart_error", "status", 400, "reason", "product id is not a positive integer")
		return echo.NewHTTPError(http.StatusBadRequest, msgCartAddFailed)
	}

	if _, err := h.Svc.AddToCart(ctx, userID, productID); err != nil {
		if errors.Is(err, service.ErrCartLookup) {
			l.Warn("add_cart_error", "status", 400, "reason", "lookup failed", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, msgCartAddFailed)
		}
		l.Error("add_cart_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	l.Info("add_cart_success", "user_id", userID, "product_id", productID)
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Item added to the cart successfully"})
}

func (h *CartHTTP) RemoveFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart_remove")

	userID, err := h.userID(c)
	if err != nil {
		return err
	}
	productID, ok := parseID(c, "productId")
	if !ok {
		l.Warn("remove_cart_error", "status", 400, "reason", "product id is not a positive integer")
		return echo.NewHTTPError(http.StatusBadRequest, msgCartRemoveFailed)
	}

	if err := h.Svc.RemoveFromCart(ctx, userID, productID); err != nil {
		if errors.Is(err, service.ErrCartLookup) {
			l.Warn("remove_cart_error", "status", 400, "reason", "not in cart", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, msgCartRemoveFailed)
		}
		l.Error("remove_cart_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	l.Info("remove_cart_success", "user_id", userID, "product_id", productID)
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Item removed from the cart successfully"})
}

func (h *CartHTTP) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart_checkout")

	userID, err := h.userID(c)
	if err != nil {
		return err
	}

	n, err := h.Svc.Checkout(ctx, userID)
	if err != nil {
		l.Error("checkout_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	l.Info("checkout_success", "user_id", userID, "removed", n)
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Checkout successful. Cart has been cleared."})
}

package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_api/internal/logging"
	"github.com/Skotchmaster/shop_api/internal/service"
	"github.com/Skotchmaster/shop_api/internal/transport"
)

const (
	msgProductNotFound = "Product not found"
	msgInvalidProduct  = "Invalid product data"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func parseID(c echo.Context, name string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 0)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

func (h *CatalogHTTP) AddProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product_add")

	var req transport.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("product_add_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidProduct)
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("product_add_error", "status", 400, "reason", "validation", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidProduct)
	}

	prod, err := h.Svc.AddProduct(ctx, req)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("product_add_error", "status", 400, "reason", "validation", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, msgInvalidProduct)
		}
		l.Error("product_add_error", "status", 500, "reason", "cannot add product to db", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	l.Info("product_add_success", "product_id", prod.ID)
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Product added successfully"})
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product_get")

	id, ok := parseID(c, "id")
	if !ok {
		l.Warn("product_get_error", "status", 404, "reason", "id is not a positive integer")
		return echo.NewHTTPError(http.StatusNotFound, msgProductNotFound)
	}

	prod, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("product_get_error", "status", 404, "reason", "product not found", "product_id", id)
			return echo.NewHTTPError(http.StatusNotFound, msgProductNotFound)
		}
		l.Error("product_get_error", "status", 500, "reason", "cannot get product", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, prod)
}

func (h *CatalogHTTP) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product_list")

	items, err := h.Svc.ListProducts(ctx)
	if err != nil {
		l.Error("product_list_error", "status", 500, "reason", "cannot list products", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, items)
}

func (h *CatalogHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product_update")

	id, ok := parseID(c, "id")
	if !ok {
		l.Warn("product_update_error", "status", 404, "reason", "id is not a positive integer")
		return echo.NewHTTPError(http.StatusNotFound, msgProductNotFound)
	}

	var req transport.UpdateProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("product_update_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidProduct)
	}

	if err := h.Svc.UpdateProduct(ctx, id, req); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			l.Warn("product_update_error", "status", 404, "reason", "product not found", "product_id", id)
			return echo.NewHTTPError(http.StatusNotFound, msgProductNotFound)
		case errors.Is(err, service.ErrValidation):
			l.Warn("product_update_error", "status", 400, "reason", "validation", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, msgInvalidProduct)
		default:
			l.Error("product_update_error", "status", 500, "reason", "cannot update product", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
		}
	}

	l.Info("product_update_success", "product_id", id)
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Product updated successfully"})
}

func (h *CatalogHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product_delete")

	id, ok := parseID(c, "id")
	if !ok {
		l.Warn("product_delete_error", "status", 404, "reason", "id is not a positive integer")
		return echo.NewHTTPError(http.StatusNotFound, msgProductNotFound)
	}

	if err := h.Svc.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("product_delete_error", "status", 404, "reason", "product not found", "product_id", id)
			return echo.NewHTTPError(http.StatusNotFound, msgProductNotFound)
		}
		l.Error("product_delete_error", "status", 500, "reason", "cannot delete product", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	l.Info("product_delete_success", "product_id", id)
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Product deleted successfully"})
}

package handler

import (
	"net/http"

	"storefront-service/internal/model"
	"storefront-service/internal/service"
	"storefront-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const productNotFound = "Producto no encontrado"

func productViews(products []model.Product) []model.ProductView {
	views := make([]model.ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, model.NewProductView(p))
	}
	return views
}

// ListProducts returns the active products
func (h *Handler) ListProducts(c echo.Context) error {
	products, err := h.Catalog.ListProducts(c.Request().Context(), false)
	if err != nil {
		return fail(c, err, productNotFound)
	}
	return c.JSON(http.StatusOK, productViews(products))
}

// ListAllProducts returns every product, including inactive ones
func (h *Handler) ListAllProducts(c echo.Context) error {
	products, err := h.Catalog.ListProducts(c.Request().Context(), true)
	if err != nil {
		return fail(c, err, productNotFound)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "productos": productViews(products)})
}

// GetProduct returns one product
func (h *Handler) GetProduct(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return notFoundResponse(c, productNotFound)
	}

	product, err := h.Catalog.GetProduct(c.Request().Context(), id)
	if err != nil {
		return fail(c, err, productNotFound)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "producto": model.NewProductView(*product)})
}

// CreateProduct adds a product to the catalog
func (h *Handler) CreateProduct(c echo.Context) error {
	log := logger.FromContext(c)

	var req service.ProductInput
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return badRequest(c, "Datos inválidos")
	}

	product, err := h.Catalog.CreateProduct(c.Request().Context(), req)
	if err != nil {
		return fail(c, err, productNotFound)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":     true,
		"producto_id": product.ID,
		"producto":    model.NewProductView(*product),
		"mensaje":     "Producto creado exitosamente",
	})
}

// UpdateProduct applies a partial update to a product
func (h *Handler) UpdateProduct(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return notFoundResponse(c, productNotFound)
	}

	var req service.ProductInput
	if err := c.Bind(&req); err != nil {
		logger.FromContext(c).Error("Invalid request data", zap.Error(err))
		return badRequest(c, "Datos inválidos")
	}

	product, err := h.Catalog.UpdateProduct(c.Request().Context(), id, req)
	if err != nil {
		return fail(c, err, productNotFound)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":  true,
		"producto": model.NewProductView(*product),
		"mensaje":  "Producto actualizado exitosamente",
	})
}

// DeleteProduct removes a product, or deactivates it when it has orders
func (h *Handler) DeleteProduct(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return notFoundResponse(c, productNotFound)
	}

	result, err := h.Catalog.DeleteProduct(c.Request().Context(), id)
	if err != nil {
		return fail(c, err, productNotFound)
	}

	message := "Producto eliminado exitosamente"
	if result.Deactivated {
		message = "Producto desactivado (tiene pedidos asociados)"
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":     true,
		"desactivado": result.Deactivated,
		"mensaje":     message,
	})
}

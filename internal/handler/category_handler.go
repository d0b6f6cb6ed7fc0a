package handler

import (
	"net/http"

	"storefront-service/internal/service"
	"storefront-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const categoryNotFound = "Categoría no encontrada"

// ListCategories returns the active categories with product counts
func (h *Handler) ListCategories(c echo.Context) error {
	categories, err := h.Catalog.ListCategories(c.Request().Context(), false)
	if err != nil {
		return fail(c, err, categoryNotFound)
	}
	return c.JSON(http.StatusOK, categories)
}

// ListAllCategories returns every category, including inactive ones
func (h *Handler) ListAllCategories(c echo.Context) error {
	categories, err := h.Catalog.ListCategories(c.Request().Context(), true)
	if err != nil {
		return fail(c, err, categoryNotFound)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "categorias": categories})
}

// GetCategory returns one category
func (h *Handler) GetCategory(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return notFoundResponse(c, categoryNotFound)
	}

	category, err := h.Catalog.GetCategory(c.Request().Context(), id)
	if err != nil {
		return fail(c, err, categoryNotFound)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "categoria": category})
}

// CreateCategory adds a category
func (h *Handler) CreateCategory(c echo.Context) error {
	var req service.CategoryInput
	if err := c.Bind(&req); err != nil {
		logger.FromContext(c).Error("Invalid request data", zap.Error(err))
		return badRequest(c, "Datos inválidos")
	}

	category, err := h.Catalog.CreateCategory(c.Request().Context(), req)
	if err != nil {
		return fail(c, err, categoryNotFound)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":   true,
		"categoria": category,
		"mensaje":   "Categoría creada exitosamente",
	})
}

// UpdateCategory applies a partial update to a category
func (h *Handler) UpdateCategory(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return notFoundResponse(c, categoryNotFound)
	}

	var req service.CategoryInput
	if err := c.Bind(&req); err != nil {
		logger.FromContext(c).Error("Invalid request data", zap.Error(err))
		return badRequest(c, "Datos inválidos")
	}

	category, err := h.Catalog.UpdateCategory(c.Request().Context(), id, req)
	if err != nil {
		return fail(c, err, categoryNotFound)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":   true,
		"categoria": category,
		"mensaje":   "Categoría actualizada exitosamente",
	})
}

// DeleteCategory removes a category without products
func (h *Handler) DeleteCategory(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return notFoundResponse(c, categoryNotFound)
	}

	if err := h.Catalog.DeleteCategory(c.Request().Context(), id); err != nil {
		return fail(c, err, categoryNotFound)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "mensaje": "Categoría eliminada exitosamente"})
}

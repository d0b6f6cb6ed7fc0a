package handler

import (
	"net/http"

	"storefront-service/internal/service"
	"storefront-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// GetSettings returns the store settings for administrators
func (h *Handler) GetSettings(c echo.Context) error {
	settings, err := h.Settings.StoreSettings(c.Request().Context())
	if err != nil {
		return fail(c, err, "")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "configuracion": settings})
}

// UpdateSettings saves the store settings
func (h *Handler) UpdateSettings(c echo.Context) error {
	var req service.StoreSettings
	if err := c.Bind(&req); err != nil {
		logger.FromContext(c).Error("Invalid request data", zap.Error(err))
		return badRequest(c, "Datos inválidos")
	}

	ctx := c.Request().Context()
	if err := h.Settings.UpdateStoreSettings(ctx, req); err != nil {
		return fail(c, err, "")
	}

	settings, err := h.Settings.StoreSettings(ctx)
	if err != nil {
		return fail(c, err, "")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":              true,
		"mensaje":              "Configuración actualizada exitosamente",
		"ultima_actualizacion": settings.LastUpdated,
	})
}

// PublicSettings returns the settings shown on the storefront
func (h *Handler) PublicSettings(c echo.Context) error {
	settings, err := h.Settings.StoreSettings(c.Request().Context())
	if err != nil {
		return fail(c, err, "")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"configuracion": echo.Map{
			"nombre_tienda":      settings.StoreName,
			"descripcion_tienda": settings.StoreDescription,
			"whatsapp_admin":     settings.AdminWhatsApp,
		},
	})
}

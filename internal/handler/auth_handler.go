package handler

import (
	"errors"
	"net/http"

	"storefront-service/internal/middleware"
	"storefront-service/internal/service"
	"storefront-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Login exchanges a username and password for a bearer token
func (h *Handler) Login(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		return badRequest(c, "Datos inválidos")
	}

	user, err := h.Accounts.Authenticate(c.Request().Context(), req.Username, req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		log.Warn("Login failed", zap.String("username", req.Username))
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "Usuario o contraseña incorrectos"})
	}
	if err != nil {
		return fail(c, err, "")
	}

	token, err := h.JWT.GenerateToken(user.ID, user.Username, user.Email, user.IsAdmin)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		return fail(c, err, "")
	}

	log.Info("User logged in", zap.Uint("user_id", user.ID))
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"token":   token,
		"usuario": user,
	})
}

// Register creates a non-admin account
func (h *Handler) Register(c echo.Context) error {
	var req service.RegisterInput
	if err := c.Bind(&req); err != nil {
		logger.FromContext(c).Error("Failed to parse register request", zap.Error(err))
		return badRequest(c, "Datos inválidos")
	}

	user, err := h.Accounts.Register(c.Request().Context(), req)
	if err != nil {
		return fail(c, err, "")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"usuario": user,
		"mensaje": "Usuario registrado exitosamente",
	})
}

// ChangePassword changes the password of the authenticated user
func (h *Handler) ChangePassword(c echo.Context) error {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "Token de autorización requerido"})
	}

	var req service.ChangePasswordInput
	if err := c.Bind(&req); err != nil {
		logger.FromContext(c).Error("Failed to parse password change request", zap.Error(err))
		return badRequest(c, "Datos inválidos")
	}

	if err := h.Accounts.ChangePassword(c.Request().Context(), claims.UserID, req); err != nil {
		return fail(c, err, "Usuario no encontrado")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "mensaje": "Contraseña cambiada exitosamente"})
}

// Stats returns the admin dashboard counters
func (h *Handler) Stats(c echo.Context) error {
	stats, err := h.Accounts.Stats(c.Request().Context())
	if err != nil {
		return fail(c, err, "")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "estadisticas": stats})
}

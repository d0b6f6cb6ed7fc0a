package handler

import (
	"net/http"

	"storefront-service/internal/service"
	"storefront-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const orderNotFound = "Pedido no encontrado"

// CreateOrder places a storefront order
func (h *Handler) CreateOrder(c echo.Context) error {
	log := logger.FromContext(c)

	var req service.CreateOrderInput
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid order payload", zap.Error(err))
		return badRequest(c, "Datos del pedido inválidos")
	}

	order, err := h.Orders.Create(c.Request().Context(), req)
	if err != nil {
		return fail(c, err, orderNotFound)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":   true,
		"pedido_id": order.ID,
		"mensaje":   "Pedido creado exitosamente",
	})
}

// GetOrder returns an order with its items
func (h *Handler) GetOrder(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return notFoundResponse(c, orderNotFound)
	}

	order, err := h.Orders.Get(c.Request().Context(), id)
	if err != nil {
		return fail(c, err, orderNotFound)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "pedido": order})
}

// ListOrders returns orders newest first, filtered by the optional estado query parameter
func (h *Handler) ListOrders(c echo.Context) error {
	orders, err := h.Orders.List(c.Request().Context(), c.QueryParam("estado"))
	if err != nil {
		return fail(c, err, orderNotFound)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "pedidos": orders})
}

// UpdateOrderStatus sets the order status
func (h *Handler) UpdateOrderStatus(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return notFoundResponse(c, orderNotFound)
	}

	var req struct {
		Status string `json:"estado"`
	}
	if err := c.Bind(&req); err != nil {
		logger.FromContext(c).Error("Invalid request data", zap.Error(err))
		return badRequest(c, "Datos inválidos")
	}

	if err := h.Orders.SetStatus(c.Request().Context(), id, req.Status); err != nil {
		return fail(c, err, orderNotFound)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "mensaje": "Estado actualizado exitosamente"})
}

// ConfirmOrder confirms the order and messages the customer
func (h *Handler) ConfirmOrder(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return notFoundResponse(c, orderNotFound)
	}

	if _, err := h.Orders.Confirm(c.Request().Context(), id); err != nil {
		return fail(c, err, orderNotFound)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"mensaje": "Pedido confirmado y mensaje enviado al cliente",
	})
}

// DeleteOrder removes an order and its items
func (h *Handler) DeleteOrder(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return notFoundResponse(c, orderNotFound)
	}

	if err := h.Orders.Delete(c.Request().Context(), id); err != nil {
		return fail(c, err, orderNotFound)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "mensaje": "Pedido eliminado exitosamente"})
}

// OrderNotifications returns the open-order counters for the admin badge
func (h *Handler) OrderNotifications(c echo.Context) error {
	summary, err := h.Orders.Summary(c.Request().Context())
	if err != nil {
		return fail(c, err, orderNotFound)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":             true,
		"pedidos_pendientes":  summary.Pending,
		"pedidos_confirmados": summary.Confirmed,
		"total_pendientes":    summary.Open,
		"ultimo_pedido":       summary.Latest,
	})
}

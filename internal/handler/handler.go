package handler

import (
	"errors"
	"net/http"
	"strconv"

	"storefront-service/internal/service"
	"storefront-service/pkg/jwtutil"
	"storefront-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Handler serves the storefront JSON API
type Handler struct {
	Catalog  *service.CatalogService
	Orders   *service.OrderService
	Settings *service.SettingsService
	Accounts *service.AccountService
	JWT      *jwtutil.JWTUtil
	Service  string
}

// fail writes the error response for err. Validation errors become 400,
// missing records 404, anything else 500 with the raw message.
func fail(c echo.Context, err error, notFoundMsg string) error {
	log := logger.FromContext(c)

	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		log.Info("Request rejected", zap.String("reason", ve.Message))
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": ve.Message})
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": notFoundMsg})
	default:
		log.Error("Request failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": err.Error()})
	}
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": message})
}

// pathID parses the :id route parameter. A non-numeric id matches no record.
func pathID(c echo.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func notFoundResponse(c echo.Context, message string) error {
	return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": message})
}

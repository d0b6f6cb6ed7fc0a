package router

import (
	"storefront-service/internal/handler"
	"storefront-service/internal/middleware"
	"storefront-service/internal/service"
	"storefront-service/pkg/config"
	"storefront-service/pkg/jwtutil"
	"storefront-service/pkg/logger"
	"storefront-service/pkg/notify"
	"storefront-service/prometheus"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Options carries the collaborators the API needs
type Options struct {
	DB       *gorm.DB
	Config   *config.Config
	Notifier notify.Notifier
	// Verifier enables identity-provider ID tokens; nil disables them
	Verifier *oidc.IDTokenVerifier
	Logger   *zap.Logger
}

// New wires the services and returns the configured Echo instance
func New(opts Options) *echo.Echo {
	log := opts.Logger
	cfg := opts.Config

	settings := service.NewSettingsService(opts.DB, log)
	accounts := service.NewAccountService(opts.DB, log)
	tokens := jwtutil.NewJWTUtil(&cfg.JWT)

	h := &handler.Handler{
		Catalog:  service.NewCatalogService(opts.DB, log),
		Settings: settings,
		Accounts: accounts,
		Orders: service.NewOrderService(opts.DB, opts.Notifier, settings, service.OrderNotifyConfig{
			AdminRecipient: cfg.WhatsApp.Recipient,
			CountryCode:    cfg.WhatsApp.DefaultCountryCode,
		}, log),
		JWT:     tokens,
		Service: cfg.ServiceName,
	}
	auth := middleware.NewAuthenticator(tokens, opts.Verifier, accounts)

	e := echo.New()
	e.HideBanner = true

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware(log))
	e.Use(prometheus.MetricsMiddleware())

	// Public routes
	e.GET("/health", h.HealthCheck)
	e.GET("/metrics", handler.MetricsHandler)

	api := e.Group("/api")
	api.GET("/productos", h.ListProducts)
	api.GET("/producto/:id", h.GetProduct)
	api.GET("/categorias", h.ListCategories)
	api.GET("/categoria/:id", h.GetCategory)
	api.POST("/pedido", h.CreateOrder)
	api.GET("/configuracion/publica", h.PublicSettings)
	api.POST("/login", h.Login)
	api.POST("/register", h.Register)

	// Any authenticated user
	api.POST("/cambiar-password", h.ChangePassword, auth.RequireAuth)

	// Administrator routes
	adminOnly := []echo.MiddlewareFunc{auth.RequireAuth, middleware.RequireAdmin}
	api.POST("/producto", h.CreateProduct, adminOnly...)
	api.PUT("/producto/:id", h.UpdateProduct, adminOnly...)
	api.DELETE("/producto/:id", h.DeleteProduct, adminOnly...)
	api.POST("/categoria", h.CreateCategory, adminOnly...)
	api.PUT("/categoria/:id", h.UpdateCategory, adminOnly...)
	api.DELETE("/categoria/:id", h.DeleteCategory, adminOnly...)
	api.GET("/pedidos", h.ListOrders, adminOnly...)
	api.GET("/pedido/:id", h.GetOrder, adminOnly...)
	api.PUT("/pedido/:id/estado", h.UpdateOrderStatus, adminOnly...)
	api.POST("/pedido/:id/confirmar", h.ConfirmOrder, adminOnly...)
	api.DELETE("/pedido/:id", h.DeleteOrder, adminOnly...)
	api.GET("/notificaciones/pedidos", h.OrderNotifications, adminOnly...)
	api.GET("/configuracion", h.GetSettings, adminOnly...)
	api.POST("/configuracion", h.UpdateSettings, adminOnly...)
	api.GET("/admin/estadisticas", h.Stats, adminOnly...)
	api.GET("/admin/productos", h.ListAllProducts, adminOnly...)
	api.GET("/admin/categorias", h.ListAllCategories, adminOnly...)

	return e
}

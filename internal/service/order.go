package service

import (
	"context"
	"errors"
	"strings"

	"storefront-service/internal/model"
	"storefront-service/pkg/notify"
	"storefront-service/prometheus"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// OrderItemInput is one requested order line
type OrderItemInput struct {
	ProductID uint `json:"producto_id"`
	Quantity  int  `json:"cantidad"`
}

// CreateOrderInput is the storefront checkout payload
type CreateOrderInput struct {
	CustomerName     string           `json:"cliente_nombre"`
	CustomerPhone    string           `json:"cliente_telefono"`
	CustomerAddress  string           `json:"cliente_direccion"`
	CustomerComments string           `json:"cliente_comentarios"`
	Total            decimal.Decimal  `json:"total"`
	Items            []OrderItemInput `json:"items"`
}

// LatestOrder is the short form of the newest order
type LatestOrder struct {
	ID           uint              `json:"id"`
	CustomerName string            `json:"cliente_nombre"`
	Total        decimal.Decimal   `json:"total"`
	CreatedAt    string            `json:"fecha_pedido"`
	Status       model.OrderStatus `json:"estado"`
}

// OrderSummary feeds the admin notification badge
type OrderSummary struct {
	Pending   int64        `json:"pedidos_pendientes"`
	Confirmed int64        `json:"pedidos_confirmados"`
	Open      int64        `json:"total_pendientes"`
	Latest    *LatestOrder `json:"ultimo_pedido"`
}

// OrderNotifyConfig holds the notification destinations for order events
type OrderNotifyConfig struct {
	// AdminRecipient is used when no whatsapp_admin setting is stored
	AdminRecipient string
	CountryCode    string
}

// OrderService implements checkout and the order lifecycle
type OrderService struct {
	db       *gorm.DB
	notifier notify.Notifier
	settings *SettingsService
	cfg      OrderNotifyConfig
	logger   *zap.Logger
}

// NewOrderService creates an order service
func NewOrderService(db *gorm.DB, notifier notify.Notifier, settings *SettingsService, cfg OrderNotifyConfig, logger *zap.Logger) *OrderService {
	return &OrderService{
		db:       db,
		notifier: notifier,
		settings: settings,
		cfg:      cfg,
		logger:   logger,
	}
}

// Create places an order. Stock for every known product is checked and
// decremented in the same transaction as the order rows; unknown product ids
// are skipped. The administrator is notified after commit.
func (s *OrderService) Create(ctx context.Context, in CreateOrderInput) (*model.Order, error) {
	if err := validateOrderInput(in); err != nil {
		prometheus.RecordOrderOperation("create", "rejected")
		return nil, err
	}

	order := model.Order{
		CustomerName:     strings.TrimSpace(in.CustomerName),
		CustomerPhone:    strings.TrimSpace(in.CustomerPhone),
		CustomerAddress:  strings.TrimSpace(in.CustomerAddress),
		CustomerComments: strings.TrimSpace(in.CustomerComments),
		Total:            in.Total,
		Status:           model.StatusPending,
	}

	done := prometheus.TrackDBOperation("create_order")
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		seen := make(map[uint]*model.Product, len(in.Items))
		for _, line := range in.Items {
			item, err := reserveLine(tx, order.ID, line, seen)
			if err != nil {
				return err
			}
			if item == nil {
				logFor(ctx, s.logger).Debug("Skipping unknown product", zap.Uint("product_id", line.ProductID))
				continue
			}
			order.Items = append(order.Items, *item)
		}
		return nil
	})
	done()
	if err != nil {
		result := "error"
		if IsValidation(err) {
			result = "rejected"
		}
		prometheus.RecordOrderOperation("create", result)
		return nil, err
	}

	prometheus.RecordOrderOperation("create", "success")
	for _, item := range order.Items {
		prometheus.UpdateProductInventory(item.ProductID, item.Product.Stock)
	}

	if computed := order.ItemsTotal(); !computed.Equal(order.Total) {
		logFor(ctx, s.logger).Warn("Order total differs from line items",
			zap.Uint("order_id", order.ID),
			zap.String("total", order.Total.StringFixed(2)),
			zap.String("items_total", computed.StringFixed(2)))
	}

	logFor(ctx, s.logger).Info("Order created",
		zap.Uint("order_id", order.ID),
		zap.Int("items", len(order.Items)),
		zap.String("total", order.Total.StringFixed(2)))

	s.notifyAdmin(ctx, &order)
	return &order, nil
}

// reserveLine decrements stock for one line and stores the order item. It
// returns nil when the product does not exist. Lines for the same product
// share one *model.Product through seen, so every line reports the final stock.
func reserveLine(tx *gorm.DB, orderID uint, line OrderItemInput, seen map[uint]*model.Product) (*model.OrderItem, error) {
	product, ok := seen[line.ProductID]
	if !ok {
		product = &model.Product{}
		if err := tx.First(product, line.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil
			}
			return nil, err
		}
		seen[line.ProductID] = product
	}

	res := tx.Model(&model.Product{}).
		Where("id = ? AND stock >= ?", product.ID, line.Quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", line.Quantity))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		if err := tx.First(product, product.ID).Error; err != nil {
			return nil, err
		}
		return nil, invalid("No hay suficiente stock para %s. Stock disponible: %d", product.Name, product.Stock)
	}
	product.Stock -= line.Quantity

	item := model.OrderItem{
		OrderID:   orderID,
		ProductID: product.ID,
		Quantity:  line.Quantity,
		UnitPrice: product.Price,
	}
	if err := tx.Create(&item).Error; err != nil {
		return nil, err
	}
	item.Product = product
	return &item, nil
}

func validateOrderInput(in CreateOrderInput) error {
	if strings.TrimSpace(in.CustomerName) == "" {
		return invalid("El nombre del cliente es obligatorio")
	}
	if strings.TrimSpace(in.CustomerPhone) == "" {
		return invalid("El teléfono del cliente es obligatorio")
	}
	if in.Total.IsNegative() {
		return invalid("El total no puede ser negativo")
	}
	for _, line := range in.Items {
		if line.Quantity < 1 {
			return invalid("La cantidad del producto %d debe ser mayor a cero", line.ProductID)
		}
	}
	return nil
}

// Get returns an order with its items and their products
func (s *OrderService) Get(ctx context.Context, id uint) (*model.Order, error) {
	var order model.Order
	if err := s.db.WithContext(ctx).Preload("Items.Product").First(&order, id).Error; err != nil {
		return nil, notFound(err, "order", id)
	}
	return &order, nil
}

// List returns orders newest first, optionally filtered by status
func (s *OrderService) List(ctx context.Context, status string) ([]model.Order, error) {
	defer prometheus.TrackDBOperation("list_orders")()

	query := s.db.WithContext(ctx).Preload("Items.Product").Order("created_at DESC, id DESC")
	if status != "" {
		st, ok := model.ParseOrderStatus(status)
		if !ok {
			return nil, invalid("Estado inválido: %s", status)
		}
		query = query.Where("status = ?", st)
	}

	var orders []model.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Confirm marks the order confirmed and sends the customer a confirmation
func (s *OrderService) Confirm(ctx context.Context, id uint) (*model.Order, error) {
	if err := s.updateStatus(ctx, id, model.StatusConfirmed); err != nil {
		prometheus.RecordOrderOperation("confirm", "error")
		return nil, err
	}
	prometheus.RecordOrderOperation("confirm", "success")

	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	to := notify.NormalizePhone(order.CustomerPhone, s.cfg.CountryCode)
	err = s.notifier.Send(ctx, to, customerConfirmationMessage(order))
	prometheus.RecordNotification("customer", err)
	if err != nil {
		logFor(ctx, s.logger).Error("Failed to notify customer", zap.Uint("order_id", id), zap.Error(err))
	}
	return order, nil
}

// SetStatus moves the order to one of the known lifecycle states
func (s *OrderService) SetStatus(ctx context.Context, id uint, status string) error {
	st, ok := model.ParseOrderStatus(status)
	if !ok {
		prometheus.RecordOrderOperation("status", "rejected")
		return invalid("Estado inválido: %s", status)
	}
	if err := s.updateStatus(ctx, id, st); err != nil {
		prometheus.RecordOrderOperation("status", "error")
		return err
	}
	prometheus.RecordOrderOperation("status", "success")
	return nil
}

func (s *OrderService) updateStatus(ctx context.Context, id uint, status model.OrderStatus) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order model.Order
		if err := tx.First(&order, id).Error; err != nil {
			return notFound(err, "order", id)
		}
		return tx.Model(&order).Update("status", status).Error
	})
	if err != nil {
		return err
	}
	logFor(ctx, s.logger).Info("Order status updated", zap.Uint("order_id", id), zap.String("status", string(status)))
	return nil
}

// Delete removes an order and its items. Stock is not restored.
func (s *OrderService) Delete(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order model.Order
		if err := tx.First(&order, id).Error; err != nil {
			return notFound(err, "order", id)
		}
		if err := tx.Where("order_id = ?", id).Delete(&model.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&order).Error
	})
	if err != nil {
		prometheus.RecordOrderOperation("delete", "error")
		return err
	}

	prometheus.RecordOrderOperation("delete", "success")
	logFor(ctx, s.logger).Info("Order deleted", zap.Uint("order_id", id))
	return nil
}

// Summary counts open orders and returns the newest one
func (s *OrderService) Summary(ctx context.Context) (*OrderSummary, error) {
	db := s.db.WithContext(ctx)
	summary := &OrderSummary{}

	if err := db.Model(&model.Order{}).Where("status = ?", model.StatusPending).Count(&summary.Pending).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Order{}).Where("status = ?", model.StatusConfirmed).Count(&summary.Confirmed).Error; err != nil {
		return nil, err
	}
	summary.Open = summary.Pending + summary.Confirmed

	var latest model.Order
	err := db.Order("created_at DESC, id DESC").First(&latest).Error
	switch {
	case err == nil:
		summary.Latest = &LatestOrder{
			ID:           latest.ID,
			CustomerName: latest.CustomerName,
			Total:        latest.Total,
			CreatedAt:    latest.CreatedAt.Format("2006-01-02T15:04:05"),
			Status:       latest.Status,
		}
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}
	return summary, nil
}

func (s *OrderService) notifyAdmin(ctx context.Context, order *model.Order) {
	recipient, err := s.settings.Get(ctx, model.KeyAdminWhatsApp, "")
	if err != nil {
		logFor(ctx, s.logger).Warn("Could not read admin WhatsApp setting", zap.Error(err))
	}
	if recipient == "" {
		recipient = s.cfg.AdminRecipient
	}

	to := notify.NormalizePhone(recipient, s.cfg.CountryCode)
	err = s.notifier.Send(ctx, to, adminOrderMessage(order))
	prometheus.RecordNotification("admin", err)
	if err != nil {
		logFor(ctx, s.logger).Error("Failed to notify administrator", zap.Uint("order_id", order.ID), zap.Error(err))
	}
}

package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order
type OrderStatus string

const (
	StatusPending   OrderStatus = "pendiente"
	StatusConfirmed OrderStatus = "confirmado"
	StatusDelivered OrderStatus = "entregado"
)

// ParseOrderStatus accepts only the known lifecycle states
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch st := OrderStatus(s); st {
	case StatusPending, StatusConfirmed, StatusDelivered:
		return st, true
	}
	return "", false
}

// Order is a customer order captured from the storefront
type Order struct {
	ID               uint            `json:"id" gorm:"primaryKey"`
	CustomerName     string          `json:"cliente_nombre" gorm:"type:varchar(100);not null"`
	CustomerPhone    string          `json:"cliente_telefono" gorm:"type:varchar(20);not null"`
	CustomerAddress  string          `json:"cliente_direccion" gorm:"type:text"`
	CustomerComments string          `json:"cliente_comentarios" gorm:"type:text"`
	Total            decimal.Decimal `json:"total" gorm:"type:decimal(10,2);not null"`
	Status           OrderStatus     `json:"estado" gorm:"type:varchar(20);default:'pendiente';index"`
	CreatedAt        time.Time       `json:"fecha_pedido" gorm:"index"`

	Items []OrderItem `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// ItemsTotal sums the line item subtotals
func (o Order) ItemsTotal() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range o.Items {
		sum = sum.Add(item.Subtotal())
	}
	return sum
}

// OrderItem is one product line of an order. UnitPrice is the product price at
// the moment the order was placed.
type OrderItem struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	OrderID   uint            `json:"pedido_id" gorm:"not null;index"`
	ProductID uint            `json:"producto_id" gorm:"not null;index"`
	Quantity  int             `json:"cantidad" gorm:"not null"`
	UnitPrice decimal.Decimal `json:"precio_unitario" gorm:"type:decimal(10,2);not null"`

	Product *Product `json:"producto,omitempty" gorm:"foreignKey:ProductID"`
}

// Subtotal is UnitPrice times Quantity
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ProductName returns the product name or a placeholder when it was removed
func (i OrderItem) ProductName() string {
	if i.Product != nil {
		return i.Product.Name
	}
	return "Producto eliminado"
}

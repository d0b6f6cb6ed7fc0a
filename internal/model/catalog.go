package model

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices are rendered as JSON numbers, matching what storefront clients send.
	decimal.MarshalJSONWithoutQuotes = true
}

const (
	DefaultCategoryIcon  = "fas fa-tag"
	DefaultCategoryColor = "#007bff"
	UncategorizedName    = "Sin categoría"
)

// Category groups products in the storefront
type Category struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"nombre" gorm:"type:varchar(50);not null;uniqueIndex"`
	Description string    `json:"descripcion" gorm:"type:text"`
	Icon        string    `json:"icono" gorm:"type:varchar(50);default:'fas fa-tag'"`
	Color       string    `json:"color" gorm:"type:varchar(20);default:'#007bff'"`
	Active      bool      `json:"activa" gorm:"default:true"`
	CreatedAt   time.Time `json:"fecha_creacion"`

	Products     []Product `json:"-" gorm:"foreignKey:CategoryID"`
	ProductCount int64     `json:"total_productos" gorm:"-"`
}

// Product is a sellable catalog item. Stock never goes below zero.
type Product struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Name        string          `json:"nombre" gorm:"type:varchar(100);not null"`
	Description string          `json:"descripcion" gorm:"type:text"`
	Price       decimal.Decimal `json:"precio" gorm:"type:decimal(10,2);not null"`
	Image       string          `json:"imagen" gorm:"type:varchar(200)"`
	Stock       int             `json:"stock" gorm:"not null;default:0"`
	Active      bool            `json:"activo" gorm:"default:true"`
	CategoryID  *uint           `json:"categoria_id" gorm:"index"`
	CreatedAt   time.Time       `json:"fecha_creacion"`

	Category *Category `json:"-" gorm:"foreignKey:CategoryID"`
}

// CategoryName returns the linked category name or the uncategorized label
func (p Product) CategoryName() string {
	if p.Category != nil {
		return p.Category.Name
	}
	return UncategorizedName
}

// ProductView is the JSON shape returned for products
type ProductView struct {
	Product
	CategoryName string `json:"categoria_nombre"`
}

// NewProductView wraps p with its category name
func NewProductView(p Product) ProductView {
	return ProductView{Product: p, CategoryName: p.CategoryName()}
}

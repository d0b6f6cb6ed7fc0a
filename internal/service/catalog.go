package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"

	"storefront-service/internal/model"
	"storefront-service/prometheus"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// OptionalID distinguishes an absent JSON field from an explicit null or 0
type OptionalID struct {
	Set bool
	ID  uint
}

// UnmarshalJSON records that the field was present. null and 0 both mean "no id".
func (o *OptionalID) UnmarshalJSON(data []byte) error {
	o.Set = true
	o.ID = 0
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	var id *uint
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	if id != nil {
		o.ID = *id
	}
	return nil
}

// SetID returns an OptionalID holding id
func SetID(id uint) OptionalID {
	return OptionalID{Set: true, ID: id}
}

// CategoryInput carries a category create or partial update. Nil fields are left unchanged.
type CategoryInput struct {
	Name        *string `json:"nombre"`
	Description *string `json:"descripcion"`
	Icon        *string `json:"icono"`
	Color       *string `json:"color"`
	Active      *bool   `json:"activa"`
}

// ProductInput carries a product create or partial update. Nil fields are left unchanged.
type ProductInput struct {
	Name        *string          `json:"nombre"`
	Description *string          `json:"descripcion"`
	Price       *decimal.Decimal `json:"precio"`
	Image       *string          `json:"imagen"`
	Stock       *int             `json:"stock"`
	Active      *bool            `json:"activo"`
	CategoryID  OptionalID       `json:"categoria_id"`
}

// DeleteResult tells whether a product was removed or only deactivated
type DeleteResult struct {
	Deactivated bool
}

// CatalogService manages categories and products
type CatalogService struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewCatalogService creates a catalog service
func NewCatalogService(db *gorm.DB, logger *zap.Logger) *CatalogService {
	return &CatalogService{db: db, logger: logger}
}

// ListCategories returns categories with their product counts. Only active
// categories are returned unless includeInactive is set.
func (s *CatalogService) ListCategories(ctx context.Context, includeInactive bool) ([]model.Category, error) {
	defer prometheus.TrackDBOperation("list_categories")()

	query := s.db.WithContext(ctx).Order("name")
	if !includeInactive {
		query = query.Where("active = ?", true)
	}

	var categories []model.Category
	if err := query.Find(&categories).Error; err != nil {
		return nil, err
	}

	counts, err := s.productCounts(ctx)
	if err != nil {
		return nil, err
	}
	for i := range categories {
		categories[i].ProductCount = counts[categories[i].ID]
	}
	return categories, nil
}

// GetCategory returns one category with its product count
func (s *CatalogService) GetCategory(ctx context.Context, id uint) (*model.Category, error) {
	var category model.Category
	if err := s.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, notFound(err, "category", id)
	}
	if err := s.db.WithContext(ctx).Model(&model.Product{}).
		Where("category_id = ?", id).Count(&category.ProductCount).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// CreateCategory adds a category with a unique, non-empty name
func (s *CatalogService) CreateCategory(ctx context.Context, in CategoryInput) (*model.Category, error) {
	name := strings.TrimSpace(deref(in.Name))
	if name == "" {
		return nil, invalid("El nombre de la categoría es obligatorio")
	}

	category := model.Category{
		Name:        name,
		Description: strings.TrimSpace(deref(in.Description)),
		Icon:        orDefault(in.Icon, model.DefaultCategoryIcon),
		Color:       orDefault(in.Color, model.DefaultCategoryColor),
		Active:      true,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureCategoryNameFree(tx, name, 0); err != nil {
			return err
		}
		if err := tx.Create(&category).Error; err != nil {
			return err
		}
		if in.Active != nil && !*in.Active {
			category.Active = false
			return tx.Model(&category).Update("active", false).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	prometheus.RecordCatalogOperation("category", "create")
	logFor(ctx, s.logger).Info("Category created", zap.Uint("category_id", category.ID), zap.String("name", name))
	return &category, nil
}

// UpdateCategory applies the non-nil fields of in
func (s *CatalogService) UpdateCategory(ctx context.Context, id uint, in CategoryInput) (*model.Category, error) {
	var category model.Category
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&category, id).Error; err != nil {
			return notFound(err, "category", id)
		}

		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return invalid("El nombre de la categoría es obligatorio")
			}
			if err := ensureCategoryNameFree(tx, name, id); err != nil {
				return err
			}
			category.Name = name
		}
		if in.Description != nil {
			category.Description = strings.TrimSpace(*in.Description)
		}
		if in.Icon != nil {
			category.Icon = orDefault(in.Icon, model.DefaultCategoryIcon)
		}
		if in.Color != nil {
			category.Color = orDefault(in.Color, model.DefaultCategoryColor)
		}
		if in.Active != nil {
			category.Active = *in.Active
		}

		if err := tx.Save(&category).Error; err != nil {
			return err
		}
		return tx.Model(&model.Product{}).Where("category_id = ?", id).Count(&category.ProductCount).Error
	})
	if err != nil {
		return nil, err
	}

	prometheus.RecordCatalogOperation("category", "update")
	return &category, nil
}

// DeleteCategory removes a category that no product references
func (s *CatalogService) DeleteCategory(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category model.Category
		if err := tx.First(&category, id).Error; err != nil {
			return notFound(err, "category", id)
		}

		var products int64
		if err := tx.Model(&model.Product{}).Where("category_id = ?", id).Count(&products).Error; err != nil {
			return err
		}
		if products > 0 {
			return invalid("No se puede eliminar la categoría porque tiene productos asociados")
		}
		return tx.Delete(&category).Error
	})
	if err != nil {
		return err
	}

	prometheus.RecordCatalogOperation("category", "delete")
	logFor(ctx, s.logger).Info("Category deleted", zap.Uint("category_id", id))
	return nil
}

// ListProducts returns products with their categories. Only active products
// are returned unless includeInactive is set.
func (s *CatalogService) ListProducts(ctx context.Context, includeInactive bool) ([]model.Product, error) {
	defer prometheus.TrackDBOperation("list_products")()

	query := s.db.WithContext(ctx).Preload("Category").Order("id")
	if !includeInactive {
		query = query.Where("active = ?", true)
	}

	var products []model.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct returns one product with its category
func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*model.Product, error) {
	var product model.Product
	if err := s.db.WithContext(ctx).Preload("Category").First(&product, id).Error; err != nil {
		return nil, notFound(err, "product", id)
	}
	return &product, nil
}

// CreateProduct adds a product. Name and price are required.
func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (*model.Product, error) {
	name := strings.TrimSpace(deref(in.Name))
	if name == "" {
		return nil, invalid("El nombre del producto es obligatorio")
	}
	if in.Price == nil {
		return nil, invalid("El precio del producto es obligatorio")
	}

	product := model.Product{
		Name:        name,
		Description: strings.TrimSpace(deref(in.Description)),
		Price:       *in.Price,
		Image:       strings.TrimSpace(deref(in.Image)),
		Active:      true,
	}
	if in.Stock != nil {
		product.Stock = *in.Stock
	}
	if err := validateProduct(&product); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := assignCategory(tx, &product, in.CategoryID); err != nil {
			return err
		}
		if err := tx.Create(&product).Error; err != nil {
			return err
		}
		if in.Active != nil && !*in.Active {
			product.Active = false
			return tx.Model(&product).Update("active", false).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	prometheus.RecordCatalogOperation("product", "create")
	prometheus.UpdateProductInventory(product.ID, product.Stock)
	logFor(ctx, s.logger).Info("Product created", zap.Uint("product_id", product.ID), zap.String("name", name))
	return &product, nil
}

// UpdateProduct applies the non-nil fields of in
func (s *CatalogService) UpdateProduct(ctx context.Context, id uint, in ProductInput) (*model.Product, error) {
	var product model.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&product, id).Error; err != nil {
			return notFound(err, "product", id)
		}

		if in.Name != nil {
			product.Name = strings.TrimSpace(*in.Name)
			if product.Name == "" {
				return invalid("El nombre del producto es obligatorio")
			}
		}
		if in.Description != nil {
			product.Description = strings.TrimSpace(*in.Description)
		}
		if in.Price != nil {
			product.Price = *in.Price
		}
		if in.Image != nil {
			product.Image = strings.TrimSpace(*in.Image)
		}
		if in.Stock != nil {
			product.Stock = *in.Stock
		}
		if in.Active != nil {
			product.Active = *in.Active
		}
		if err := validateProduct(&product); err != nil {
			return err
		}
		if err := assignCategory(tx, &product, in.CategoryID); err != nil {
			return err
		}

		product.Category = nil
		if err := tx.Save(&product).Error; err != nil {
			return err
		}
		return tx.Preload("Category").First(&product, id).Error
	})
	if err != nil {
		return nil, err
	}

	prometheus.RecordCatalogOperation("product", "update")
	prometheus.UpdateProductInventory(product.ID, product.Stock)
	return &product, nil
}

// DeleteProduct removes a product, or deactivates it when past orders reference it
func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) (DeleteResult, error) {
	var result DeleteResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product model.Product
		if err := tx.First(&product, id).Error; err != nil {
			return notFound(err, "product", id)
		}

		var references int64
		if err := tx.Model(&model.OrderItem{}).Where("product_id = ?", id).Count(&references).Error; err != nil {
			return err
		}
		if references > 0 {
			result.Deactivated = true
			return tx.Model(&product).Update("active", false).Error
		}
		return tx.Delete(&product).Error
	})
	if err != nil {
		return result, err
	}

	operation := "delete"
	if result.Deactivated {
		operation = "deactivate"
	}
	prometheus.RecordCatalogOperation("product", operation)
	logFor(ctx, s.logger).Info("Product removed", zap.Uint("product_id", id), zap.Bool("deactivated", result.Deactivated))
	return result, nil
}

func (s *CatalogService) productCounts(ctx context.Context) (map[uint]int64, error) {
	var rows []struct {
		CategoryID uint
		Total      int64
	}
	err := s.db.WithContext(ctx).Model(&model.Product{}).
		Select("category_id, count(*) as total").
		Where("category_id IS NOT NULL").
		Group("category_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		counts[r.CategoryID] = r.Total
	}
	return counts, nil
}

func ensureCategoryNameFree(tx *gorm.DB, name string, exceptID uint) error {
	var existing model.Category
	err := tx.Where("name = ? AND id <> ?", name, exceptID).First(&existing).Error
	if err == nil {
		return invalid("Ya existe una categoría con ese nombre")
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}

func assignCategory(tx *gorm.DB, product *model.Product, categoryID OptionalID) error {
	if !categoryID.Set {
		return nil
	}
	if categoryID.ID == 0 {
		product.CategoryID = nil
		return nil
	}

	var category model.Category
	if err := tx.First(&category, categoryID.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return invalid("La categoría %d no existe", categoryID.ID)
		}
		return err
	}
	id := category.ID
	product.CategoryID = &id
	return nil
}

func validateProduct(p *model.Product) error {
	if p.Price.IsNegative() {
		return invalid("El precio no puede ser negativo")
	}
	if p.Stock < 0 {
		return invalid("El stock no puede ser negativo")
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func orDefault(s *string, def string) string {
	if v := strings.TrimSpace(deref(s)); v != "" {
		return v
	}
	return def
}

package database

import (
	"errors"
	"fmt"
	"time"

	"storefront-service/internal/model"
	"storefront-service/pkg/config"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedVersion is stored under model.KeySeedVersion once seeding has run
const SeedVersion = "1"

var sampleCategories = []model.Category{
	{Name: "Comida Rápida", Description: "Hamburguesas, pizzas y comida rápida", Icon: "fas fa-hamburger", Color: "#ff6b35"},
	{Name: "Bebidas", Description: "Refrescos, jugos y bebidas", Icon: "fas fa-coffee", Color: "#4ecdc4"},
	{Name: "Postres", Description: "Helados, pasteles y dulces", Icon: "fas fa-ice-cream", Color: "#ffe66d"},
	{Name: "Saludable", Description: "Ensaladas y opciones saludables", Icon: "fas fa-leaf", Color: "#95e1d3"},
}

type sampleProduct struct {
	name, description, price, category string
	stock                              int
}

var sampleProducts = []sampleProduct{
	{"Pizza Margherita", "Pizza clásica con tomate, mozzarella y albahaca", "12.99", "Comida Rápida", 10},
	{"Hamburguesa Clásica", "Hamburguesa con carne, lechuga, tomate y queso", "8.99", "Comida Rápida", 15},
	{"Ensalada César", "Ensalada fresca con pollo, lechuga y aderezo césar", "6.99", "Saludable", 8},
	{"Pasta Carbonara", "Pasta con salsa carbonara y panceta", "10.99", "Comida Rápida", 12},
	{"Coca Cola", "Refresco de cola 500ml", "2.50", "Bebidas", 20},
	{"Helado de Vainilla", "Helado cremoso de vainilla", "4.99", "Postres", 10},
}

// Seed creates the default admin account and, when enabled, the sample
// catalog. It runs once per database: the persisted seed version guards reruns.
func Seed(db *gorm.DB, cfg config.SeedConfig, log *zap.Logger) error {
	if !cfg.Enabled {
		log.Info("Seeding disabled")
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var marker model.ConfigEntry
		err := tx.Where("clave = ?", model.KeySeedVersion).First(&marker).Error
		if err == nil && marker.Value == SeedVersion {
			log.Info("Database already seeded", zap.String("seed_version", marker.Value))
			return nil
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := seedAdmin(tx, cfg, log); err != nil {
			return err
		}
		if cfg.SampleData {
			if err := seedCatalog(tx, log); err != nil {
				return err
			}
		}

		marker.Key = model.KeySeedVersion
		marker.Value = SeedVersion
		marker.Description = "Versión de los datos iniciales"
		marker.UpdatedAt = time.Now()
		return tx.Save(&marker).Error
	})
}

func seedAdmin(tx *gorm.DB, cfg config.SeedConfig, log *zap.Logger) error {
	var count int64
	if err := tx.Model(&model.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := model.User{
		Username:     cfg.AdminUsername,
		Email:        cfg.AdminEmail,
		PasswordHash: string(hash),
		IsAdmin:      true,
	}
	if err := tx.Create(&admin).Error; err != nil {
		return err
	}

	log.Warn("Default administrator created, change its password",
		zap.String("username", admin.Username))
	return nil
}

func seedCatalog(tx *gorm.DB, log *zap.Logger) error {
	var count int64
	if err := tx.Model(&model.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		categories := make([]model.Category, len(sampleCategories))
		copy(categories, sampleCategories)
		for i := range categories {
			categories[i].Active = true
		}
		if err := tx.Create(&categories).Error; err != nil {
			return err
		}
		log.Info("Sample categories created", zap.Int("count", len(categories)))
	}

	if err := tx.Model(&model.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, sp := range sampleProducts {
		product := model.Product{
			Name:        sp.name,
			Description: sp.description,
			Price:       decimal.RequireFromString(sp.price),
			Stock:       sp.stock,
			Active:      true,
		}
		var category model.Category
		if err := tx.Where("name = ?", sp.category).First(&category).Error; err == nil {
			product.CategoryID = &category.ID
		}
		if err := tx.Create(&product).Error; err != nil {
			return err
		}
	}
	log.Info("Sample products created", zap.Int("count", len(sampleProducts)))
	return nil
}

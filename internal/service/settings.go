package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"storefront-service/internal/model"
	"storefront-service/prometheus"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultStoreName is shown until an administrator names the store
const DefaultStoreName = "Mi Tienda Online"

// SettingsService reads and writes the key-value store settings
type SettingsService struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewSettingsService creates a settings service
func NewSettingsService(db *gorm.DB, logger *zap.Logger) *SettingsService {
	return &SettingsService{db: db, logger: logger}
}

// StoreSettings is the administrator-facing view of the store settings
type StoreSettings struct {
	StoreName        string `json:"nombre_tienda"`
	StoreDescription string `json:"descripcion_tienda"`
	AdminWhatsApp    string `json:"whatsapp_admin"`
	LastUpdated      string `json:"ultima_actualizacion"`
}

// Get returns the value stored under key, or def when the key is absent
func (s *SettingsService) Get(ctx context.Context, key, def string) (string, error) {
	entry, err := s.find(ctx, key)
	if err != nil {
		return "", err
	}
	if entry == nil {
		return def, nil
	}
	return entry.Value, nil
}

// Set creates or updates the entry for key
func (s *SettingsService) Set(ctx context.Context, key, value, description string) error {
	defer prometheus.TrackDBOperation("config_set")()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return upsertSetting(tx, key, value, description)
	})
}

// StoreSettings returns the current store settings with defaults applied
func (s *SettingsService) StoreSettings(ctx context.Context) (*StoreSettings, error) {
	name, err := s.find(ctx, model.KeyStoreName)
	if err != nil {
		return nil, err
	}
	description, err := s.Get(ctx, model.KeyStoreDescription, "")
	if err != nil {
		return nil, err
	}
	whatsapp, err := s.Get(ctx, model.KeyAdminWhatsApp, "")
	if err != nil {
		return nil, err
	}

	settings := &StoreSettings{
		StoreName:        DefaultStoreName,
		StoreDescription: description,
		AdminWhatsApp:    whatsapp,
		LastUpdated:      "-",
	}
	if name != nil {
		settings.StoreName = name.Value
		settings.LastUpdated = name.UpdatedAt.Format("02/01/2006 15:04")
	}
	return settings, nil
}

// UpdateStoreSettings saves the three store settings together
func (s *SettingsService) UpdateStoreSettings(ctx context.Context, in StoreSettings) error {
	name := strings.TrimSpace(in.StoreName)
	if name == "" {
		return invalid("El nombre de la tienda es obligatorio")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := upsertSetting(tx, model.KeyStoreName, name, "Nombre de la tienda"); err != nil {
			return err
		}
		if err := upsertSetting(tx, model.KeyStoreDescription, strings.TrimSpace(in.StoreDescription), "Descripción de la tienda"); err != nil {
			return err
		}
		return upsertSetting(tx, model.KeyAdminWhatsApp, strings.TrimSpace(in.AdminWhatsApp), "Número de WhatsApp del administrador")
	})
	if err != nil {
		return err
	}

	logFor(ctx, s.logger).Info("Store settings updated", zap.String("store_name", name))
	return nil
}

func (s *SettingsService) find(ctx context.Context, key string) (*model.ConfigEntry, error) {
	var entry model.ConfigEntry
	err := s.db.WithContext(ctx).Where("clave = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func upsertSetting(tx *gorm.DB, key, value, description string) error {
	var entry model.ConfigEntry
	err := tx.Where("clave = ?", key).First(&entry).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	entry.Key = key
	entry.Value = value
	entry.Description = description
	entry.UpdatedAt = time.Now()
	return tx.Save(&entry).Error
}

package service

import (
	"context"
	"errors"
	"strings"

	"storefront-service/internal/model"
	"storefront-service/prometheus"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// MinPasswordLength applies to password changes
const MinPasswordLength = 6

// ErrInvalidCredentials is returned when the username or password is wrong
var ErrInvalidCredentials = errors.New("invalid credentials")

// RegisterInput is the self-registration payload
type RegisterInput struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// ChangePasswordInput is the password change payload
type ChangePasswordInput struct {
	Current string `json:"password_actual"`
	New     string `json:"password_nueva"`
	Confirm string `json:"password_confirmar"`
}

// Stats are the counters shown on the admin dashboard
type Stats struct {
	ActiveProducts   int64 `json:"productos_activos"`
	TotalOrders      int64 `json:"total_pedidos"`
	TotalUsers       int64 `json:"total_usuarios"`
	ActiveCategories int64 `json:"total_categorias"`
}

// AccountService manages staff accounts
type AccountService struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewAccountService creates an account service
func NewAccountService(db *gorm.DB, logger *zap.Logger) *AccountService {
	return &AccountService{db: db, logger: logger}
}

// Authenticate returns the user when the password matches
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).Where("username = ?", strings.TrimSpace(username)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		prometheus.RecordAuthError("unknown_user")
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		prometheus.RecordAuthError("wrong_password")
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// GetUser returns a user by id
func (s *AccountService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err, "user", id)
	}
	return &user, nil
}

// FindByEmail returns the user registered with email
func (s *AccountService) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).Where("email = ?", strings.TrimSpace(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Register creates a non-admin user
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)
	if username == "" || email == "" || in.Password == "" {
		return nil, invalid("Usuario, email y contraseña son obligatorios")
	}
	if in.Password != in.ConfirmPassword {
		return nil, invalid("Las contraseñas no coinciden")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := model.User{Username: username, Email: email, PasswordHash: string(hash)}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.User{}).Where("username = ?", username).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return invalid("El usuario ya existe")
		}
		if err := tx.Model(&model.User{}).Where("email = ?", email).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return invalid("El email ya está registrado")
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		return nil, err
	}

	logFor(ctx, s.logger).Info("User registered", zap.Uint("user_id", user.ID), zap.String("username", username))
	return &user, nil
}

// ChangePassword replaces the user's password after verifying the current one
func (s *AccountService) ChangePassword(ctx context.Context, userID uint, in ChangePasswordInput) error {
	current := strings.TrimSpace(in.Current)
	next := strings.TrimSpace(in.New)
	confirm := strings.TrimSpace(in.Confirm)

	switch {
	case current == "":
		return invalid("La contraseña actual es obligatoria")
	case next == "":
		return invalid("La nueva contraseña es obligatoria")
	case len(next) < MinPasswordLength:
		return invalid("La nueva contraseña debe tener al menos %d caracteres", MinPasswordLength)
	case next != confirm:
		return invalid("Las contraseñas nuevas no coinciden")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.First(&user, userID).Error; err != nil {
			return notFound(err, "user", userID)
		}
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)) != nil {
			prometheus.RecordAuthError("wrong_password")
			return invalid("La contraseña actual es incorrecta")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		if err := tx.Model(&user).Update("password_hash", string(hash)).Error; err != nil {
			return err
		}
		logFor(ctx, s.logger).Info("Password changed", zap.Uint("user_id", userID))
		return nil
	})
}

// Stats counts active products, orders, users and active categories
func (s *AccountService) Stats(ctx context.Context) (*Stats, error) {
	db := s.db.WithContext(ctx)
	stats := &Stats{}

	if err := db.Model(&model.Product{}).Where("active = ?", true).Count(&stats.ActiveProducts).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Order{}).Count(&stats.TotalOrders).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Category{}).Where("active = ?", true).Count(&stats.ActiveCategories).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

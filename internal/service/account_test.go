package service

import (
	"context"
	"testing"

	"storefront-service/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func register(t *testing.T, f *fixture, username, password string) *model.User {
	t.Helper()
	user, err := f.accounts.Register(context.Background(), RegisterInput{
		Username:        username,
		Email:           username + "@tienda.com",
		Password:        password,
		ConfirmPassword: password,
	})
	require.NoError(t, err)
	return user
}

func TestRegisterAndAuthenticate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := register(t, f, "maria", "secreto1")
	assert.False(t, user.IsAdmin)
	assert.NotEqual(t, "secreto1", user.PasswordHash)

	got, err := f.accounts.Authenticate(ctx, "maria", "secreto1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = f.accounts.Authenticate(ctx, "maria", "otra")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.accounts.Authenticate(ctx, "nadie", "secreto1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	register(t, f, "maria", "secreto1")

	_, err := f.accounts.Register(ctx, RegisterInput{Username: "luis", Email: "luis@x.com", Password: "a", ConfirmPassword: "b"})
	requireValidation(t, err, "Las contraseñas no coinciden")

	_, err = f.accounts.Register(ctx, RegisterInput{Username: "maria", Email: "otra@x.com", Password: "a", ConfirmPassword: "a"})
	requireValidation(t, err, "El usuario ya existe")

	_, err = f.accounts.Register(ctx, RegisterInput{Username: "luis", Email: "maria@tienda.com", Password: "a", ConfirmPassword: "a"})
	requireValidation(t, err, "El email ya está registrado")
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := register(t, f, "maria", "secreto1")

	cases := []struct {
		name string
		in   ChangePasswordInput
		msg  string
	}{
		{"missing current", ChangePasswordInput{New: "nuevo123", Confirm: "nuevo123"}, "La contraseña actual es obligatoria"},
		{"missing new", ChangePasswordInput{Current: "secreto1"}, "La nueva contraseña es obligatoria"},
		{"too short", ChangePasswordInput{Current: "secreto1", New: "abc", Confirm: "abc"}, "La nueva contraseña debe tener al menos 6 caracteres"},
		{"mismatch", ChangePasswordInput{Current: "secreto1", New: "nuevo123", Confirm: "nuevo124"}, "Las contraseñas nuevas no coinciden"},
		{"wrong current", ChangePasswordInput{Current: "otra", New: "nuevo123", Confirm: "nuevo123"}, "La contraseña actual es incorrecta"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			requireValidation(t, f.accounts.ChangePassword(ctx, user.ID, tc.in), tc.msg)
		})
	}

	require.NoError(t, f.accounts.ChangePassword(ctx, user.ID, ChangePasswordInput{
		Current: "secreto1", New: "nuevo123", Confirm: "nuevo123",
	}))
	_, err := f.accounts.Authenticate(ctx, "maria", "secreto1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.accounts.Authenticate(ctx, "maria", "nuevo123")
	assert.NoError(t, err)
}

func TestStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	register(t, f, "maria", "secreto1")
	f.product(t, "Pizza", "10.00", 5)
	hidden := f.product(t, "Viejo", "1.00", 0)
	require.NoError(t, f.db.Model(&hidden).Update("active", false).Error)
	_, err := f.catalog.CreateCategory(ctx, CategoryInput{Name: strPtr("Comida")})
	require.NoError(t, err)
	_, err = f.orders.Create(ctx, CreateOrderInput{CustomerName: "Ana", CustomerPhone: "1"})
	require.NoError(t, err)

	stats, err := f.accounts.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, &Stats{ActiveProducts: 1, TotalOrders: 1, TotalUsers: 1, ActiveCategories: 1}, stats)
}

package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"storefront-service/internal/model"
	"storefront-service/pkg/database/dbtest"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type sentMessage struct {
	To   string
	Body string
}

// recordingNotifier keeps every message and optionally fails
type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (n *recordingNotifier) Send(_ context.Context, to, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentMessage{To: to, Body: message})
	return n.err
}

func (n *recordingNotifier) messages() []sentMessage {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]sentMessage(nil), n.sent...)
}

type fixture struct {
	db       *gorm.DB
	notifier *recordingNotifier
	settings *SettingsService
	catalog  *CatalogService
	orders   *OrderService
	accounts *AccountService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithDB(t, dbtest.New(t))
}

func newFixtureWithDB(t *testing.T, db *gorm.DB) *fixture {
	t.Helper()
	log := zap.NewNop()
	notifier := &recordingNotifier{}
	settings := NewSettingsService(db, log)
	return &fixture{
		db:       db,
		notifier: notifier,
		settings: settings,
		catalog:  NewCatalogService(db, log),
		orders: NewOrderService(db, notifier, settings, OrderNotifyConfig{
			AdminRecipient: "51900000000",
			CountryCode:    "51",
		}, log),
		accounts: NewAccountService(db, log),
	}
}

func (f *fixture) product(t *testing.T, name, price string, stock int) model.Product {
	t.Helper()
	p := model.Product{Name: name, Price: decimal.RequireFromString(price), Stock: stock, Active: true}
	require.NoError(t, f.db.Create(&p).Error)
	return p
}

func (f *fixture) stockOf(t *testing.T, id uint) int {
	t.Helper()
	var p model.Product
	require.NoError(t, f.db.First(&p, id).Error)
	return p.Stock
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func intPtr(i int) *int { return &i }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func requireValidation(t *testing.T, err error, msg string) {
	t.Helper()
	require.Error(t, err)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve), "expected ValidationError, got %v", err)
	if msg != "" {
		require.Equal(t, msg, ve.Message)
	}
}

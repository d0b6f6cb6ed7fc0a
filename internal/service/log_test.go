package service

import (
	"context"
	"testing"

	"storefront-service/pkg/database/dbtest"
	"storefront-service/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestServiceLogsCarryRequestID(t *testing.T) {
	baseCore, baseLogs := observer.New(zap.InfoLevel)
	reqCore, reqLogs := observer.New(zap.InfoLevel)
	accounts := NewAccountService(dbtest.New(t), zap.New(baseCore))

	ctx := logger.WithContext(context.Background(), zap.New(reqCore).With(zap.String("request_id", "req-42")))
	_, err := accounts.Register(ctx, RegisterInput{
		Username: "maria", Email: "maria@tienda.com", Password: "secreto1", ConfirmPassword: "secreto1",
	})
	require.NoError(t, err)

	entries := reqLogs.FilterMessage("User registered").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "req-42", entries[0].ContextMap()["request_id"])
	assert.Zero(t, baseLogs.Len())

	_, err = accounts.Register(context.Background(), RegisterInput{
		Username: "luis", Email: "luis@tienda.com", Password: "secreto1", ConfirmPassword: "secreto1",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, baseLogs.FilterMessage("User registered").Len())
}

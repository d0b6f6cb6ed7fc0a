package service

import (
	"context"

	"storefront-service/pkg/logger"

	"go.uber.org/zap"
)

// logFor prefers the request-scoped logger carried by ctx over the service's own
func logFor(ctx context.Context, base *zap.Logger) *zap.Logger {
	return logger.FromCtxOr(ctx, base)
}

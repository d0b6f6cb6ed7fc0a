package prometheus

import (
	"errors"
	"testing"

	"storefront-service/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gatheredNames(t *testing.T) map[string]bool {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	return names
}

func TestInitMetricsUsesConfiguredPrefix(t *testing.T) {
	t.Cleanup(func() { register(DefaultNamespace) })

	InitMetrics(&config.Config{Metrics: config.MetricsConfig{Prefix: "tienda"}})
	assert.Equal(t, "tienda", Namespace())

	RecordOrderOperation("create", "success")
	RecordNotification("admin", errors.New("down"))

	names := gatheredNames(t)
	assert.True(t, names["tienda_order_operations_total"])
	assert.True(t, names["tienda_notifications_total"])
	assert.False(t, names["storefront_order_operations_total"])
}

func TestInitMetricsDefaultsPrefix(t *testing.T) {
	t.Cleanup(func() { register(DefaultNamespace) })

	InitMetrics(&config.Config{})
	assert.Equal(t, DefaultNamespace, Namespace())

	RecordAuthError("missing_token")
	assert.True(t, gatheredNames(t)["storefront_auth_errors_total"])
}

package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront-service/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(url string) *WhatsAppClient {
	return NewWhatsAppClient(config.WhatsAppConfig{
		Token:   "token",
		PhoneID: "12345",
		BaseURL: url,
		Timeout: 2 * time.Second,
	}, zap.NewNop())
}

func TestSendPostsTextMessage(t *testing.T) {
	var got messageRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/12345/messages", r.URL.Path)
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"messages":[{"id":"wamid.1"}]}`))
	}))
	defer srv.Close()

	err := newTestClient(srv.URL).Send(context.Background(), "51987654321", "hola")
	require.NoError(t, err)
	assert.Equal(t, "whatsapp", got.MessagingProduct)
	assert.Equal(t, "51987654321", got.To)
	assert.Equal(t, "text", got.Type)
	assert.Equal(t, "hola", got.Text.Body)
}

func TestSendReportsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"Invalid parameter","type":"OAuthException","code":100}}`))
	}))
	defer srv.Close()

	err := newTestClient(srv.URL).Send(context.Background(), "51987654321", "hola")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid parameter")
}

func TestSendSimulatedWithoutCredentials(t *testing.T) {
	c := NewWhatsAppClient(config.WhatsAppConfig{BaseURL: "http://127.0.0.1:0"}, zap.NewNop())
	assert.True(t, c.Simulated())
	assert.NoError(t, c.Send(context.Background(), "51987654321", "hola"))
}

func TestSendWithoutDestinationIsSimulated(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	assert.NoError(t, newTestClient(srv.URL).Send(context.Background(), "", "hola"))
	assert.False(t, called)
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "51987654321", NormalizePhone("987 654-321", "51"))
	assert.Equal(t, "51987654321", NormalizePhone("+51 987 654 321", "51"))
	assert.Equal(t, "987654321", NormalizePhone("987654321", ""))
	assert.Equal(t, "", NormalizePhone("n/a", "51"))
}

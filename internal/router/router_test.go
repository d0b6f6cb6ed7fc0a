package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"storefront-service/internal/model"
	"storefront-service/pkg/config"
	"storefront-service/pkg/database"
	"storefront-service/pkg/database/dbtest"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type outbox struct {
	mu  sync.Mutex
	to  []string
	msg []string
}

func (o *outbox) Send(_ context.Context, to, message string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.to = append(o.to, to)
	o.msg = append(o.msg, message)
	return nil
}

type testAPI struct {
	t      *testing.T
	e      *echo.Echo
	db     *gorm.DB
	outbox *outbox
}

func setupAPI(t *testing.T) *testAPI {
	t.Helper()
	db := dbtest.New(t)
	cfg := &config.Config{
		ServiceName: "storefront-service",
		JWT:         config.JWTConfig{SigningKey: "test-key", ExpirationHours: 1},
		WhatsApp:    config.WhatsAppConfig{Recipient: "51900000000", DefaultCountryCode: "51"},
		Seed: config.SeedConfig{
			Enabled:       true,
			AdminUsername: "admin",
			AdminEmail:    "admin@tienda.com",
			AdminPassword: "admin123",
		},
	}
	require.NoError(t, database.Seed(db, cfg.Seed, zap.NewNop()))

	box := &outbox{}
	e := New(Options{DB: db, Config: cfg, Notifier: box, Logger: zap.NewNop()})
	return &testAPI{t: t, e: e, db: db, outbox: box}
}

func (a *testAPI) do(method, path, token string, body interface{}) (int, map[string]interface{}) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)

	var out map[string]interface{}
	if bytes.HasPrefix(bytes.TrimSpace(rec.Body.Bytes()), []byte("{")) {
		require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec.Code, out
}

func (a *testAPI) list(path string) []map[string]interface{} {
	a.t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	require.Equal(a.t, http.StatusOK, rec.Code)

	var out []map[string]interface{}
	require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func (a *testAPI) login(username, password string) string {
	a.t.Helper()
	code, body := a.do(http.MethodPost, "/api/login", "", echo.Map{"username": username, "password": password})
	require.Equal(a.t, http.StatusOK, code, body)
	return body["token"].(string)
}

func TestHealth(t *testing.T) {
	api := setupAPI(t)
	code, body := api.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", body["status"])
}

func TestLogin(t *testing.T) {
	api := setupAPI(t)

	code, body := api.do(http.MethodPost, "/api/login", "", echo.Map{"username": "admin", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, false, body["success"])

	token := api.login("admin", "admin123")
	assert.NotEmpty(t, token)
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	api := setupAPI(t)

	code, _ := api.do(http.MethodPost, "/api/categoria", "", echo.Map{"nombre": "Bebidas"})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, body := api.do(http.MethodPost, "/api/register", "", echo.Map{
		"username": "luis", "email": "luis@tienda.com", "password": "secreto1", "confirm_password": "secreto1",
	})
	require.Equal(t, http.StatusOK, code, body)
	staff := api.login("luis", "secreto1")

	code, _ = api.do(http.MethodPost, "/api/categoria", staff, echo.Map{"nombre": "Bebidas"})
	assert.Equal(t, http.StatusForbidden, code)

	code, body = api.do(http.MethodPost, "/api/cambiar-password", staff, echo.Map{
		"password_actual": "secreto1", "password_nueva": "nuevo123", "password_confirmar": "nuevo123",
	})
	assert.Equal(t, http.StatusOK, code, body)
	api.login("luis", "nuevo123")
}

func TestOrderLifecycle(t *testing.T) {
	api := setupAPI(t)
	admin := api.login("admin", "admin123")

	code, body := api.do(http.MethodPost, "/api/categoria", admin, echo.Map{"nombre": "Comida Rápida"})
	require.Equal(t, http.StatusOK, code, body)
	categoryID := body["categoria"].(map[string]interface{})["id"]

	code, body = api.do(http.MethodPost, "/api/producto", admin, echo.Map{
		"nombre": "Pizza Margherita", "precio": 12.99, "stock": 10, "categoria_id": categoryID,
	})
	require.Equal(t, http.StatusOK, code, body)
	productID := body["producto_id"]

	products := api.list("/api/productos")
	require.Len(t, products, 1)
	assert.Equal(t, "Comida Rápida", products[0]["categoria_nombre"])
	assert.Equal(t, 12.99, products[0]["precio"])

	categories := api.list("/api/categorias")
	require.Len(t, categories, 1)
	assert.Equal(t, float64(1), categories[0]["total_productos"])

	order := echo.Map{
		"cliente_nombre":   "Ana",
		"cliente_telefono": "987-654-321",
		"total":            155.88,
		"items":            []echo.Map{{"producto_id": productID, "cantidad": 12}},
	}
	code, body = api.do(http.MethodPost, "/api/pedido", "", order)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "No hay suficiente stock para Pizza Margherita. Stock disponible: 10", body["error"])

	order["items"] = []echo.Map{{"producto_id": productID, "cantidad": 4}}
	order["total"] = 51.96
	code, body = api.do(http.MethodPost, "/api/pedido", "", order)
	require.Equal(t, http.StatusOK, code, body)
	orderID := body["pedido_id"]

	var product model.Product
	require.NoError(t, api.db.First(&product, uint(productID.(float64))).Error)
	assert.Equal(t, 6, product.Stock)
	require.Len(t, api.outbox.to, 1)
	assert.Equal(t, "51900000000", api.outbox.to[0])

	code, body = api.do(http.MethodGet, "/api/notificaciones/pedidos", admin, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), body["pedidos_pendientes"])

	path := "/api/pedido/" + jsonNumber(orderID)
	code, body = api.do(http.MethodPost, path+"/confirmar", admin, nil)
	require.Equal(t, http.StatusOK, code, body)
	require.Len(t, api.outbox.to, 2)
	assert.Equal(t, "51987654321", api.outbox.to[1])

	code, body = api.do(http.MethodPut, path+"/estado", admin, echo.Map{"estado": "cancelado"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = api.do(http.MethodPut, path+"/estado", admin, echo.Map{"estado": "entregado"})
	assert.Equal(t, http.StatusOK, code)

	code, body = api.do(http.MethodGet, path, admin, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "entregado", body["pedido"].(map[string]interface{})["estado"])

	code, body = api.do(http.MethodDelete, "/api/producto/"+jsonNumber(productID), admin, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["desactivado"])

	code, body = api.do(http.MethodDelete, "/api/categoria/"+jsonNumber(categoryID), admin, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = api.do(http.MethodDelete, path, admin, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = api.do(http.MethodGet, path, admin, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestSettingsRoutes(t *testing.T) {
	api := setupAPI(t)
	admin := api.login("admin", "admin123")

	code, body := api.do(http.MethodGet, "/api/configuracion/publica", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Mi Tienda Online", body["configuracion"].(map[string]interface{})["nombre_tienda"])

	code, _ = api.do(http.MethodPost, "/api/configuracion", admin, echo.Map{"nombre_tienda": ""})
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = api.do(http.MethodPost, "/api/configuracion", admin, echo.Map{
		"nombre_tienda": "Pizzería Roma", "whatsapp_admin": "51911222333",
	})
	require.Equal(t, http.StatusOK, code, body)
	assert.NotEqual(t, "-", body["ultima_actualizacion"])

	code, body = api.do(http.MethodGet, "/api/configuracion", admin, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Pizzería Roma", body["configuracion"].(map[string]interface{})["nombre_tienda"])

	code, body = api.do(http.MethodGet, "/api/admin/estadisticas", admin, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), body["estadisticas"].(map[string]interface{})["total_usuarios"])
}

func TestUnknownIDs(t *testing.T) {
	api := setupAPI(t)

	code, body := api.do(http.MethodGet, "/api/producto/999", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Producto no encontrado", body["error"])

	code, _ = api.do(http.MethodGet, "/api/categoria/abc", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func jsonNumber(v interface{}) string {
	b, _ := json.Marshal(v)
	return string(b)
}

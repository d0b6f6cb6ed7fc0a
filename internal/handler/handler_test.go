package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront-service/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFailMapsErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
		body string
	}{
		{"validation", &service.ValidationError{Message: "Datos malos"}, http.StatusBadRequest, `"error":"Datos malos"`},
		{"not found", fmt.Errorf("order 3: %w", service.ErrNotFound), http.StatusNotFound, `"error":"Pedido no encontrado"`},
		{"unexpected", errors.New("disk full"), http.StatusInternalServerError, `"error":"disk full"`},
	}

	e := echo.New()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			require.NoError(t, fail(c, tc.err, orderNotFound))
			assert.Equal(t, tc.code, rec.Code)
			assert.Contains(t, rec.Body.String(), `"success":false`)
			assert.Contains(t, rec.Body.String(), tc.body)
		})
	}
}

func TestPathID(t *testing.T) {
	e := echo.New()
	for raw, want := range map[string]bool{"7": true, "0": false, "abc": false, "-1": false} {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		c.SetParamNames("id")
		c.SetParamValues(raw)

		_, ok := pathID(c)
		assert.Equal(t, want, ok, raw)
	}
}

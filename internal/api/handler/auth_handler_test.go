package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"github.com/nisarahamed1507/credit-approval-backend-system/internal/api/handler"
	"github.com/nisarahamed1507/credit-approval-backend-system/internal/config"
)

func TestGenerateBearerToken(t *testing.T) {
	cfg := config.Config{}
	cfg.Server.Auth.JWTSecret = "testsecret"
	h := handler.NewAuthHandler(cfg, discardLogger())

	t.Run("issues a signed token", func(t *testing.T) {
		body := `{"username":"analyst"}`
		req := httptest.NewRequest(http.MethodPost, "/auth/token", bytes.NewReader([]byte(body)))
		rec := httptest.NewRecorder()

		h.GenerateBearerToken(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp map[string]string
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

		tokenString := strings.TrimPrefix(resp["token"], "Bearer ")
		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			return []byte("testsecret"), nil
		})
		assert.NoError(t, err)
		assert.True(t, token.Valid)

		claims, ok := token.Claims.(jwt.MapClaims)
		assert.True(t, ok)
		assert.Equal(t, "analyst", claims["username"])
	})

	t.Run("missing username", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/token", bytes.NewReader([]byte(`{}`)))
		rec := httptest.NewRecorder()

		h.GenerateBearerToken(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

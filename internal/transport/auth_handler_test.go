package transport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"catalog-be/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAuthHandler_Login(t *testing.T) {
	t.Run("Success sets cookie", func(t *testing.T) {
		a := new(MockAuthenticator)
		token := auth.Token{
			AccessToken: "signed.jwt.token",
			ExpiresIn:   7200,
			TokenType:   auth.TokenTypeBearer,
			ExpiresAt:   time.Now().Add(2 * time.Hour),
		}
		a.On("Login", mock.Anything, "admin@example.com", "senha123").Return(token, nil)
		h := NewAuthHandler(a, true)

		w := httptest.NewRecorder()
		h.Login(w, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
			strings.NewReader(`{"email":"admin@example.com","password":"senha123"}`)))

		require.Equal(t, http.StatusOK, w.Code)

		var body auth.Token
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "signed.jwt.token", body.AccessToken)
		assert.Equal(t, 7200, body.ExpiresIn)

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, auth.AccessTokenCookie, cookies[0].Name)
		assert.True(t, cookies[0].HttpOnly)
		assert.True(t, cookies[0].Secure)
	})

	t.Run("Invalid credentials", func(t *testing.T) {
		a := new(MockAuthenticator)
		a.On("Login", mock.Anything, "admin@example.com", "wrong").Return(auth.Token{}, auth.ErrInvalidCredentials)
		h := NewAuthHandler(a, false)

		w := httptest.NewRecorder()
		h.Login(w, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
			strings.NewReader(`{"email":"admin@example.com","password":"wrong"}`)))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Empty(t, w.Result().Cookies())
	})

	t.Run("Missing fields", func(t *testing.T) {
		a := new(MockAuthenticator)
		h := NewAuthHandler(a, false)

		w := httptest.NewRecorder()
		h.Login(w, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":""}`)))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "password is required")
		a.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything)
	})
}

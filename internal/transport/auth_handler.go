package transport

import (
	"context"
	"errors"
	"net/http"

	"catalog-be/internal/auth"
	"catalog-be/internal/logger"

	"go.uber.org/zap"
)

type Authenticator interface {
	Login(ctx context.Context, email, password string) (auth.Token, error)
}

type AuthHandler struct {
	authenticator Authenticator
	secureCookie  bool
}

func NewAuthHandler(a Authenticator, secureCookie bool) *AuthHandler {
	return &AuthHandler{authenticator: a, secureCookie: secureCookie}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	fields := map[string][]string{}
	if req.Email == "" {
		fields["email"] = []string{"email is required"}
	}
	if req.Password == "" {
		fields["password"] = []string{"password is required"}
	}
	if len(fields) > 0 {
		respondValidation(w, fields)
		return
	}

	token, err := h.authenticator.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			logger.FromCtx(r.Context()).Warn("login failed",
				zap.String("layer", "transport"),
				zap.String("email", req.Email),
			)
			respondError(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
			return
		}
		respondFailure(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.AccessTokenCookie,
		Value:    token.AccessToken,
		Path:     "/",
		Expires:  token.ExpiresAt,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	respondJSON(w, http.StatusOK, token)
}

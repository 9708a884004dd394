package auth

import (
	"net/http"
	"strings"
)

const (
	AccessTokenCookie = "access_token"
	bearerScheme      = "bearer"
)

// ExtractAccessToken reads the access token from the request, or "" if none.
func ExtractAccessToken(r *http.Request) string {
	// 1️⃣ Cookie (preferred)
	if cookie, err := r.Cookie(AccessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	// 2️⃣ Authorization header (fallback)
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, bearerScheme) {
		return ""
	}
	return strings.TrimSpace(token)
}

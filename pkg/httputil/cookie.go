package httputil

import (
	"errors"
	"net/http"
	"strings"

	"github.com/droplogic/connect4/internal/config"
)

const AuthCookieName = "auth_token"

func SetAuthCookie(w http.ResponseWriter, token string) {
	maxAge := config.AppConfig.JWTExpirationHours * 60 * 60
	isProduction := config.GetEnv("ENVIRONMENT", "development") == "production"

	cookie := &http.Cookie{
		Name:     AuthCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
	}

	// SameSite=None requires Secure, so fall back to Lax for local
	// development over plain HTTP.
	if isProduction {
		cookie.SameSite = http.SameSiteNoneMode
		cookie.Secure = true
	} else {
		cookie.SameSite = http.SameSiteLaxMode
	}

	http.SetCookie(w, cookie)
}

func ClearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

// GetTokenFromRequest pulls the JWT from the auth cookie, falling back to
// a bearer Authorization header.
func GetTokenFromRequest(r *http.Request) (string, error) {
	if cookie, err := r.Cookie(AuthCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		if strings.HasPrefix(authHeader, "Bearer ") {
			return strings.TrimPrefix(authHeader, "Bearer "), nil
		}
		return authHeader, nil
	}

	return "", errors.New("no auth token found in cookie or header")
}

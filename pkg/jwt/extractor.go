package jwt

import (
	"net/http"
	"strings"
)

// TokenExtractor pulls a raw token string from an HTTP request.
type TokenExtractor func(r *http.Request) (string, error)

// BearerTokenExtractor reads "Authorization: Bearer <token>" headers.
func BearerTokenExtractor(r *http.Request) (string, error) {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return "", ErrInvalidToken
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", ErrInvalidToken
	}
	return parts[1], nil
}

// CookieTokenExtractor reads the token from the named cookie. Used for
// browser sessions on tenant sites where Authorization headers are not
// practical.
func CookieTokenExtractor(name string) TokenExtractor {
	return func(r *http.Request) (string, error) {
		cookie, err := r.Cookie(name)
		if err != nil {
			return "", ErrInvalidToken
		}
		return cookie.Value, nil
	}
}

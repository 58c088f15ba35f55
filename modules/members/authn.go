package members

import (
	"net/http"

	"github.com/collectif/platform/pkg/guard"
	"github.com/collectif/platform/pkg/jwt"
)

// SessionCookie is the cookie carrying the session token on tenant sites.
const SessionCookie = "collectif_session"

// Authenticator binds the request principal into the context when a valid
// session token is present. Requests without a token, or with an invalid
// one, proceed unauthenticated; the access guard decides later whether
// that is acceptable for the route.
func Authenticator(svc *Service) func(http.Handler) http.Handler {
	cookieExtractor := jwt.CookieTokenExtractor(SessionCookie)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := jwt.BearerTokenExtractor(r)
			if err != nil {
				token, err = cookieExtractor(r)
			}
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			principal, err := svc.VerifyToken(r.Context(), token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(guard.WithPrincipal(r.Context(), principal)))
		})
	}
}

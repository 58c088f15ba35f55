package guard

import (
	"log/slog"
	"net/http"

	"github.com/collectif/platform/pkg/tenant"
)

// RequireMember permits only principals whose tenant affiliation matches
// the resolved request tenant, or platform-level principals acting within
// it. Mount it after both the tenant middleware and the authenticator; a
// missing tenant here is a wiring defect and panics.
func RequireMember(logger *slog.Logger) func(http.Handler) http.Handler {
	return requireDecision(logger, false)
}

// RequireAdmin additionally demands an administrative role within the
// tenant. Insufficient role is an ordinary denial, distinct from the
// security-relevant tenant mismatch.
func RequireAdmin(logger *slog.Logger) func(http.Handler) http.Handler {
	return requireDecision(logger, true)
}

// RequirePlatformAdmin permits only global platform operators. It is the
// guard for the platform surface, which resolves no tenant; tenant-affiliated
// principals are rejected regardless of their role.
func RequirePlatformAdmin(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok || !p.Active {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			if !p.PlatformLevel() {
				if logger != nil {
					logger.WarnContext(r.Context(), "platform surface access denied",
						slog.String("principal_id", p.ID.String()),
						slog.String("role", string(p.Role)))
				}
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func requireDecision(logger *slog.Logger, admin bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, _ := PrincipalFromContext(r.Context())
			t := tenant.MustFromContext(r.Context())

			decision, err := Authorize(p, t)
			switch decision {
			case DecisionMatched, DecisionPlatformExempt:
				// proceed
			case DecisionMismatched:
				if logger != nil {
					logger.WarnContext(r.Context(), "cross-tenant access denied",
						slog.String("principal_id", p.ID.String()),
						slog.String("resolved_tenant", t.ID.String()))
				}
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			default:
				if logger != nil {
					logger.DebugContext(r.Context(), "authentication required", slog.Any("error", err))
				}
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if admin && !p.Admin() {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}

			if decision == DecisionPlatformExempt && logger != nil {
				logger.InfoContext(r.Context(), "platform principal acting in tenant",
					slog.String("principal_id", p.ID.String()),
					slog.String("tenant_id", t.ID.String()))
			}

			next.ServeHTTP(w, r)
		})
	}
}

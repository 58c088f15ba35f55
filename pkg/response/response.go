package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/collectif/platform/pkg/guard"
	"github.com/collectif/platform/pkg/pg"
	"github.com/collectif/platform/pkg/scopeddb"
	"github.com/collectif/platform/pkg/tenant"
)

// Envelope is the standard JSON response body.
type Envelope struct {
	Data  any            `json:"data,omitempty"`
	Meta  map[string]any `json:"meta,omitempty"`
	Error *ErrorDetail   `json:"error,omitempty"`
}

// ErrorDetail carries a machine-readable code and a human-readable message.
type ErrorDetail struct {
	Code    string              `json:"code"`
	Message string              `json:"message,omitempty"`
	Details map[string][]string `json:"details,omitempty"`
}

// HTTPError pairs a status code with a stable error code for the body.
type HTTPError struct {
	Status int
	Code   string
}

func (e HTTPError) Error() string { return e.Code }

// NewHTTPError creates a custom HTTPError.
func NewHTTPError(status int, code string) HTTPError {
	return HTTPError{Status: status, Code: code}
}

// JSON writes data wrapped in the standard envelope.
func JSON(w http.ResponseWriter, status int, data any) {
	write(w, status, Envelope{Data: data})
}

// JSONMeta writes data with pagination or other metadata.
func JSONMeta(w http.ResponseWriter, status int, data any, meta map[string]any) {
	write(w, status, Envelope{Data: data, Meta: meta})
}

// Error writes an error response, mapping known sentinel errors to their
// HTTP status. Unknown errors become 500 with a generic body so internal
// details never leak to clients.
func Error(w http.ResponseWriter, err error) {
	status, code := classify(err)
	write(w, status, Envelope{Error: &ErrorDetail{
		Code:    code,
		Message: http.StatusText(status),
	}})
}

func classify(err error) (int, string) {
	var httpErr HTTPError
	switch {
	case errors.As(err, &httpErr):
		return httpErr.Status, httpErr.Code
	case errors.Is(err, tenant.ErrTenantNotFound):
		return http.StatusNotFound, "tenant_not_found"
	case errors.Is(err, tenant.ErrTenantSuspended):
		return http.StatusForbidden, "tenant_suspended"
	case errors.Is(err, tenant.ErrInvalidIdentifier):
		return http.StatusBadRequest, "invalid_tenant_identifier"
	case errors.Is(err, guard.ErrUnauthenticated):
		return http.StatusUnauthorized, "unauthenticated"
	case errors.Is(err, guard.ErrPrincipalInactive):
		return http.StatusForbidden, "account_inactive"
	case errors.Is(err, guard.ErrTenantMismatch):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, guard.ErrInsufficientRole):
		return http.StatusForbidden, "insufficient_role"
	case errors.Is(err, scopeddb.ErrCrossTenantWrite):
		return http.StatusForbidden, "forbidden"
	case pg.IsNotFoundError(err):
		return http.StatusNotFound, "not_found"
	case pg.IsDuplicateKeyError(err):
		return http.StatusConflict, "conflict"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func write(w http.ResponseWriter, status int, body Envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

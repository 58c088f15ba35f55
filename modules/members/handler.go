package members

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/collectif/platform/pkg/guard"
	"github.com/collectif/platform/pkg/response"
)

// Handler exposes authentication and member administration over HTTP.
type Handler struct {
	svc           *Service
	secureCookies bool
}

// NewHandler constructs the members HTTP handler. secureCookies should be
// true everywhere except local development.
func NewHandler(svc *Service, secureCookies bool) *Handler {
	return &Handler{svc: svc, secureCookies: secureCookies}
}

// AuthRouter mounts the tenant-site authentication routes. These run inside
// a resolved tenant but before any guard.
func (h *Handler) AuthRouter() http.Handler {
	r := chi.NewRouter()
	r.Post("/login", h.login)
	r.Post("/logout", h.logout)
	return r
}

// AdminRouter mounts the member administration routes. Mount behind
// guard.RequireAdmin.
func (h *Handler) AdminRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Route("/{memberID}", func(r chi.Router) {
		r.Get("/", h.get)
		r.Put("/role", h.setRole)
		r.Post("/activate", h.activate)
		r.Post("/deactivate", h.deactivate)
	})
	return r
}

// PlatformAuthRouter mounts the platform operator login route. It lives on
// the platform host, outside any tenant.
func (h *Handler) PlatformAuthRouter() http.Handler {
	r := chi.NewRouter()
	r.Post("/login", h.platformLogin)
	return r
}

// ChangePassword handles the authenticated self-service password change.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	principal, ok := guard.PrincipalFromContext(r.Context())
	if !ok {
		response.Error(w, guard.ErrUnauthenticated)
		return
	}

	var req struct {
		Current string `json:"current_password"`
		Next    string `json:"new_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, response.NewHTTPError(http.StatusBadRequest, "invalid_body"))
		return
	}

	if err := h.svc.ChangePassword(r.Context(), principal.ID, req.Current, req.Next); err != nil {
		writeMembersError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeMembersError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		response.Error(w, response.NewHTTPError(http.StatusUnauthorized, "invalid_credentials"))
	case errors.Is(err, ErrInactiveMember):
		response.Error(w, response.NewHTTPError(http.StatusForbidden, "account_inactive"))
	case errors.Is(err, ErrEmailTaken):
		response.Error(w, response.NewHTTPError(http.StatusConflict, "email_taken"))
	case errors.Is(err, ErrInvalidEmail), errors.Is(err, ErrWeakPassword), errors.Is(err, ErrInvalidRole):
		response.Error(w, response.NewHTTPError(http.StatusBadRequest, "invalid_input"))
	case errors.Is(err, ErrMemberNotFound):
		response.Error(w, response.NewHTTPError(http.StatusNotFound, "member_not_found"))
	default:
		response.Error(w, err)
	}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, response.NewHTTPError(http.StatusBadRequest, "invalid_body"))
		return
	}

	token, m, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeMembersError(w, err)
		return
	}

	h.setSessionCookie(w, token)
	response.JSON(w, http.StatusOK, map[string]any{"token": token, "member": m})
}

func (h *Handler) platformLogin(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, response.NewHTTPError(http.StatusBadRequest, "invalid_body"))
		return
	}

	token, m, err := h.svc.PlatformLogin(r.Context(), req.Email, req.Password)
	if err != nil {
		writeMembersError(w, err)
		return
	}

	h.setSessionCookie(w, token)
	response.JSON(w, http.StatusOK, map[string]any{"token": token, "member": m})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(24 * time.Hour),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, list)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string     `json:"email"`
		Name     string     `json:"name"`
		Password string     `json:"password"`
		Role     guard.Role `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, response.NewHTTPError(http.StatusBadRequest, "invalid_body"))
		return
	}

	m, err := h.svc.Register(r.Context(), req.Email, req.Name, req.Password, req.Role)
	if err != nil {
		writeMembersError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, m)
}

func (h *Handler) memberID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "memberID"))
	if err != nil {
		response.Error(w, response.NewHTTPError(http.StatusBadRequest, "invalid_member_id"))
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.memberID(w, r)
	if !ok {
		return
	}
	m, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeMembersError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, m)
}

func (h *Handler) setRole(w http.ResponseWriter, r *http.Request) {
	id, ok := h.memberID(w, r)
	if !ok {
		return
	}
	var req struct {
		Role guard.Role `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, response.NewHTTPError(http.StatusBadRequest, "invalid_body"))
		return
	}
	if err := h.svc.SetRole(r.Context(), id, req.Role); err != nil {
		writeMembersError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) activate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.memberID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Activate(r.Context(), id); err != nil {
		writeMembersError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deactivate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.memberID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Deactivate(r.Context(), id); err != nil {
		writeMembersError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package directory

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/collectif/platform/pkg/response"
	"github.com/collectif/platform/pkg/tenant"
)

// Handler exposes the platform administration surface of the directory.
// Routes here must be mounted behind the platform-admin guard.
type Handler struct {
	svc *Service
}

// NewHandler constructs the directory HTTP handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Router mounts the directory admin routes.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Post("/", h.provision)
	r.Get("/", h.list)
	r.Route("/{tenantID}", func(r chi.Router) {
		r.Get("/", h.get)
		r.Post("/suspend", h.suspend)
		r.Post("/reactivate", h.reactivate)
		r.Put("/slug", h.renameSlug)
		r.Put("/domain", h.claimDomain)
		r.Delete("/domain", h.releaseDomain)
		r.Put("/settings", h.updateSettings)
		r.Put("/theme", h.updateTheme)
	})
	return r
}

func (h *Handler) tenantID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "tenantID"))
	if err != nil {
		response.Error(w, response.NewHTTPError(http.StatusBadRequest, "invalid_tenant_id"))
		return uuid.Nil, false
	}
	return id, true
}

func writeDirectoryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrSlugTaken), errors.Is(err, ErrDomainTaken):
		response.Error(w, response.NewHTTPError(http.StatusConflict, "conflict"))
	case errors.Is(err, ErrInvalidName), errors.Is(err, ErrInvalidDomain), errors.Is(err, ErrInvalidSlug):
		response.Error(w, response.NewHTTPError(http.StatusBadRequest, "invalid_input"))
	default:
		response.Error(w, err)
	}
}

func (h *Handler) provision(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, response.NewHTTPError(http.StatusBadRequest, "invalid_body"))
		return
	}

	t, err := h.svc.Provision(r.Context(), req.Name)
	if err != nil {
		writeDirectoryError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, t)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	tenants, err := h.svc.List(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, tenants)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	t, err := h.svc.Get(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, t)
}

func (h *Handler) suspend(w http.ResponseWriter, r *http.Request) {
	id, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Suspend(r.Context(), id); err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"status": string(tenant.StatusSuspended)})
}

func (h *Handler) reactivate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Reactivate(r.Context(), id); err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"status": string(tenant.StatusActive)})
}

func (h *Handler) renameSlug(w http.ResponseWriter, r *http.Request) {
	id, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	var req struct {
		Slug string `json:"slug"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, response.NewHTTPError(http.StatusBadRequest, "invalid_body"))
		return
	}
	if err := h.svc.RenameSlug(r.Context(), id, req.Slug); err != nil {
		writeDirectoryError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"slug": req.Slug})
}

func (h *Handler) claimDomain(w http.ResponseWriter, r *http.Request) {
	id, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	var req struct {
		Domain string `json:"domain"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, response.NewHTTPError(http.StatusBadRequest, "invalid_body"))
		return
	}
	if err := h.svc.ClaimDomain(r.Context(), id, req.Domain); err != nil {
		writeDirectoryError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"domain": req.Domain})
}

func (h *Handler) releaseDomain(w http.ResponseWriter, r *http.Request) {
	id, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	if err := h.svc.ReleaseDomain(r.Context(), id); err != nil {
		response.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) updateSettings(w http.ResponseWriter, r *http.Request) {
	id, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	var settings tenant.Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		response.Error(w, response.NewHTTPError(http.StatusBadRequest, "invalid_body"))
		return
	}
	if err := h.svc.UpdateSettings(r.Context(), id, settings); err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, settings)
}

func (h *Handler) updateTheme(w http.ResponseWriter, r *http.Request) {
	id, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	var theme tenant.Theme
	if err := json.NewDecoder(r.Body).Decode(&theme); err != nil {
		response.Error(w, response.NewHTTPError(http.StatusBadRequest, "invalid_body"))
		return
	}
	if err := h.svc.UpdateTheme(r.Context(), id, theme); err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, theme)
}

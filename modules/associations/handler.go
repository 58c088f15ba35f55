package associations

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/collectif/platform/pkg/response"
)

// Storer is the persistence surface of the handler. The pgx Store
// satisfies it; handler tests use a fake.
type Storer interface {
	Create(ctx context.Context, a *Association) error
	ByID(ctx context.Context, id uuid.UUID) (*Association, error)
	List(ctx context.Context) ([]*Association, error)
	Update(ctx context.Context, a *Association) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Handler exposes association CRUD. Reads are member-level; mutations must
// be mounted behind guard.RequireAdmin.
type Handler struct {
	store Storer
}

// NewHandler constructs the associations HTTP handler.
func NewHandler(store Storer) *Handler {
	return &Handler{store: store}
}

// ReadRouter mounts list and get.
func (h *Handler) ReadRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Get("/{associationID}", h.get)
	return r
}

// WriteRouter mounts create, update and delete.
func (h *Handler) WriteRouter() http.Handler {
	r := chi.NewRouter()
	r.Post("/", h.create)
	r.Put("/{associationID}", h.update)
	r.Delete("/{associationID}", h.delete)
	return r
}

func (h *Handler) id(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "associationID"))
	if err != nil {
		response.Error(w, response.NewHTTPError(http.StatusBadRequest, "invalid_association_id"))
		return uuid.Nil, false
	}
	return id, true
}

func writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(w, response.NewHTTPError(http.StatusNotFound, "association_not_found"))
	case errors.Is(err, ErrInvalidName):
		response.Error(w, response.NewHTTPError(http.StatusBadRequest, "invalid_input"))
	default:
		response.Error(w, err)
	}
}

type associationInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Email       string `json:"email"`
	Website     string `json:"website"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req associationInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, response.NewHTTPError(http.StatusBadRequest, "invalid_body"))
		return
	}

	now := time.Now().UTC()
	a := &Association{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Email:       req.Email,
		Website:     req.Website,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := a.Validate(); err != nil {
		writeErr(w, err)
		return
	}
	if err := h.store.Create(r.Context(), a); err != nil {
		writeErr(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, a)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	list, err := h.store.List(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	response.JSON(w, http.StatusOK, list)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	a, err := h.store.ByID(r.Context(), id)
	if err != nil {
		writeErr(w, err)
		return
	}
	response.JSON(w, http.StatusOK, a)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	var req associationInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, response.NewHTTPError(http.StatusBadRequest, "invalid_body"))
		return
	}

	a := &Association{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Email:       req.Email,
		Website:     req.Website,
	}
	if err := a.Validate(); err != nil {
		writeErr(w, err)
		return
	}
	if err := h.store.Update(r.Context(), a); err != nil {
		writeErr(w, err)
		return
	}
	response.JSON(w, http.StatusOK, a)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	if err := h.store.Delete(r.Context(), id); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package pages

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
	Create(ctx context.Context, p *Page) error
	BySlug(ctx context.Context, slug string) (*Page, error)
	List(ctx context.Context) ([]*Page, error)
	Update(ctx context.Context, p *Page) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Handler exposes tenant content pages. The public router serves published
// pages to visitors; the admin router manages drafts and must be mounted
// behind guard.RequireAdmin.
type Handler struct {
	store Storer
}

// NewHandler constructs the pages HTTP handler.
func NewHandler(store Storer) *Handler {
	return &Handler{store: store}
}

// PublicRouter serves published pages by slug.
func (h *Handler) PublicRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/{pageSlug}", h.public)
	return r
}

// AdminRouter mounts page management, drafts included.
func (h *Handler) AdminRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{pageSlug}", h.get)
	r.Put("/{pageSlug}", h.update)
	r.Delete("/{pageSlug}", h.delete)
	return r
}

func writePagesError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(w, response.NewHTTPError(http.StatusNotFound, "page_not_found"))
	case errors.Is(err, ErrSlugTaken):
		response.Error(w, response.NewHTTPError(http.StatusConflict, "slug_taken"))
	case errors.Is(err, ErrInvalidSlug):
		response.Error(w, response.NewHTTPError(http.StatusBadRequest, "invalid_slug"))
	default:
		response.Error(w, err)
	}
}

type pageInput struct {
	Slug      string          `json:"slug"`
	Title     string          `json:"title"`
	Blocks    json.RawMessage `json:"blocks"`
	Published bool            `json:"published"`
}

func (h *Handler) public(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.BySlug(r.Context(), chi.URLParam(r, "pageSlug"))
	if err != nil {
		writePagesError(w, err)
		return
	}
	if !p.Published {
		// Drafts are invisible to visitors, indistinguishable from absence.
		writePagesError(w, ErrNotFound)
		return
	}
	response.JSON(w, http.StatusOK, p)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req pageInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, response.NewHTTPError(http.StatusBadRequest, "invalid_body"))
		return
	}

	now := time.Now().UTC()
	p := &Page{
		ID:        uuid.New(),
		Slug:      req.Slug,
		Title:     req.Title,
		Blocks:    req.Blocks,
		Published: req.Published,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.store.Create(r.Context(), p); err != nil {
		writePagesError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, p)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	list, err := h.store.List(r.Context())
	if err != nil {
		writePagesError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, list)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.BySlug(r.Context(), chi.URLParam(r, "pageSlug"))
	if err != nil {
		writePagesError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, p)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.BySlug(r.Context(), chi.URLParam(r, "pageSlug"))
	if err != nil {
		writePagesError(w, err)
		return
	}

	var req pageInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, response.NewHTTPError(http.StatusBadRequest, "invalid_body"))
		return
	}

	p.Title = req.Title
	p.Blocks = req.Blocks
	p.Published = req.Published
	if err := h.store.Update(r.Context(), p); err != nil {
		writePagesError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, p)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.BySlug(r.Context(), chi.URLParam(r, "pageSlug"))
	if err != nil {
		writePagesError(w, err)
		return
	}
	if err := h.store.Delete(r.Context(), p.ID); err != nil {
		writePagesError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

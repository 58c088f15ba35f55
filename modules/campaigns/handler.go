package campaigns

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/collectif/platform/pkg/response"
	"github.com/collectif/platform/pkg/tenant"
)

// Storer is the persistence surface of the handler.
type Storer interface {
	Create(ctx context.Context, c *Campaign) error
	ByID(ctx context.Context, id uuid.UUID) (*Campaign, error)
	List(ctx context.Context) ([]*Campaign, error)
	Update(ctx context.Context, c *Campaign) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Handler exposes campaign CRUD and the share QR endpoint.
type Handler struct {
	store          Storer
	platformSuffix string
}

// NewHandler constructs the campaigns HTTP handler. platformSuffix builds
// share links for tenants without a custom domain.
func NewHandler(store Storer, platformSuffix string) *Handler {
	return &Handler{store: store, platformSuffix: platformSuffix}
}

// ReadRouter mounts list, get and the QR share image.
func (h *Handler) ReadRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Get("/{campaignID}", h.get)
	r.Get("/{campaignID}/qr", h.shareQR)
	return r
}

// WriteRouter mounts create, update and delete. Mount behind
// guard.RequireAdmin.
func (h *Handler) WriteRouter() http.Handler {
	r := chi.NewRouter()
	r.Post("/", h.create)
	r.Put("/{campaignID}", h.update)
	r.Delete("/{campaignID}", h.delete)
	return r
}

func (h *Handler) id(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "campaignID"))
	if err != nil {
		response.Error(w, response.NewHTTPError(http.StatusBadRequest, "invalid_campaign_id"))
		return uuid.Nil, false
	}
	return id, true
}

func writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(w, response.NewHTTPError(http.StatusNotFound, "campaign_not_found"))
	case errors.Is(err, ErrInvalidTitle), errors.Is(err, ErrInvalidAmount):
		response.Error(w, response.NewHTTPError(http.StatusBadRequest, "invalid_input"))
	default:
		response.Error(w, err)
	}
}

type campaignInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	GoalAmount  int64      `json:"goal_amount"`
	Currency    string     `json:"currency"`
	Active      *bool      `json:"active"`
	EndsAt      *time.Time `json:"ends_at"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req campaignInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, response.NewHTTPError(http.StatusBadRequest, "invalid_body"))
		return
	}

	currency := req.Currency
	if currency == "" {
		currency = tenant.MustFromContext(r.Context()).Settings.Currency
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}

	now := time.Now().UTC()
	c := &Campaign{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		GoalAmount:  req.GoalAmount,
		Currency:    currency,
		Active:      active,
		EndsAt:      req.EndsAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := c.Validate(); err != nil {
		writeErr(w, err)
		return
	}
	if err := h.store.Create(r.Context(), c); err != nil {
		writeErr(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, c)
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
	c, err := h.store.ByID(r.Context(), id)
	if err != nil {
		writeErr(w, err)
		return
	}
	response.JSON(w, http.StatusOK, c)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	var req campaignInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, response.NewHTTPError(http.StatusBadRequest, "invalid_body"))
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	c := &Campaign{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		GoalAmount:  req.GoalAmount,
		Currency:    req.Currency,
		Active:      active,
		EndsAt:      req.EndsAt,
	}
	if err := c.Validate(); err != nil {
		writeErr(w, err)
		return
	}
	if err := h.store.Update(r.Context(), c); err != nil {
		writeErr(w, err)
		return
	}
	response.JSON(w, http.StatusOK, c)
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

const qrSize = 256

// shareQR renders the campaign's public donation link as a QR code PNG.
// The link uses the tenant's custom domain when one is claimed, otherwise
// its platform subdomain.
func (h *Handler) shareQR(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	c, err := h.store.ByID(r.Context(), id)
	if err != nil {
		writeErr(w, err)
		return
	}

	png, err := qrcode.Encode(h.ShareURL(r.Context(), c.ID), qrcode.Medium, qrSize)
	if err != nil {
		response.Error(w, fmt.Errorf("encode qr: %w", err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(png)
}

// ShareURL builds the public donation link for a campaign of the current
// tenant.
func (h *Handler) ShareURL(ctx context.Context, campaignID uuid.UUID) string {
	t := tenant.MustFromContext(ctx)
	host := t.Domain
	if host == "" {
		host = t.Slug + "." + h.platformSuffix
	}
	return fmt.Sprintf("https://%s/campaigns/%s", host, campaignID)
}

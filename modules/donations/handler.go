package donations

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/collectif/platform/modules/campaigns"
	"github.com/collectif/platform/pkg/response"
)

// maxWebhookBody bounds processor payload reads.
const maxWebhookBody = 1 << 20

// Handler exposes the public donate endpoint, the admin listing and the
// processor webhook.
type Handler struct {
	svc           *Service
	webhookSecret string
}

// NewHandler constructs the donations HTTP handler.
func NewHandler(svc *Service, webhookSecret string) *Handler {
	return &Handler{svc: svc, webhookSecret: webhookSecret}
}

// PublicRouter mounts the unauthenticated donate endpoint for tenant sites.
func (h *Handler) PublicRouter() http.Handler {
	r := chi.NewRouter()
	r.Post("/", h.donate)
	return r
}

// AdminRouter mounts the tenant-staff listing routes. Mount behind
// guard.RequireMember.
func (h *Handler) AdminRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Get("/{donationID}", h.get)
	return r
}

// Webhook handles processor settlement callbacks. The route is mounted on
// the trusted-header tenant surface: the processor is configured with the
// tenant id it reports for, and signature verification happens before the
// body is interpreted at all.
func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		response.Error(w, response.NewHTTPError(http.StatusBadRequest, "invalid_body"))
		return
	}

	timestamp, _ := strconv.ParseInt(r.Header.Get(TimestampHeader), 10, 64)
	err = VerifySignature(h.webhookSecret, payload, r.Header.Get(SignatureHeader), timestamp, DefaultSignatureMaxAge)
	if err != nil {
		response.Error(w, response.NewHTTPError(http.StatusUnauthorized, "invalid_signature"))
		return
	}

	var event struct {
		DonationID uuid.UUID `json:"donation_id"`
		Status     Status    `json:"status"`
	}
	if err := json.Unmarshal(payload, &event); err != nil || event.DonationID == uuid.Nil {
		response.Error(w, response.NewHTTPError(http.StatusBadRequest, "malformed_event"))
		return
	}

	d, err := h.svc.Settle(r.Context(), event.DonationID, event.Status)
	if err != nil {
		switch {
		case errors.Is(err, ErrAlreadySettled):
			// Processor retries are expected; answer 200 so they stop.
			response.JSON(w, http.StatusOK, map[string]string{"status": "already_settled"})
		case errors.Is(err, ErrInvalidStatus):
			response.Error(w, response.NewHTTPError(http.StatusBadRequest, "malformed_event"))
		case errors.Is(err, ErrNotFound):
			response.Error(w, response.NewHTTPError(http.StatusNotFound, "donation_not_found"))
		default:
			response.Error(w, err)
		}
		return
	}
	response.JSON(w, http.StatusOK, d)
}

func (h *Handler) donate(w http.ResponseWriter, r *http.Request) {
	var req DonateParams
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, response.NewHTTPError(http.StatusBadRequest, "invalid_body"))
		return
	}

	d, err := h.svc.Donate(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidAmount):
			response.Error(w, response.NewHTTPError(http.StatusBadRequest, "invalid_amount"))
		case errors.Is(err, campaigns.ErrNotFound):
			response.Error(w, response.NewHTTPError(http.StatusNotFound, "campaign_not_found"))
		default:
			response.Error(w, err)
		}
		return
	}
	response.JSON(w, http.StatusCreated, d)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	if raw := r.URL.Query().Get("campaign_id"); raw != "" {
		campaignID, err := uuid.Parse(raw)
		if err != nil {
			response.Error(w, response.NewHTTPError(http.StatusBadRequest, "invalid_campaign_id"))
			return
		}
		list, err := h.svc.ListByCampaign(r.Context(), campaignID)
		if err != nil {
			response.Error(w, err)
			return
		}
		response.JSON(w, http.StatusOK, list)
		return
	}

	list, err := h.svc.List(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, list)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "donationID"))
	if err != nil {
		response.Error(w, response.NewHTTPError(http.StatusBadRequest, "invalid_donation_id"))
		return
	}
	d, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(w, response.NewHTTPError(http.StatusNotFound, "donation_not_found"))
			return
		}
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, d)
}

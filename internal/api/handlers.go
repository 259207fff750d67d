package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/conselheirocristao/newsletter/internal/domain"
	"github.com/conselheirocristao/newsletter/internal/pkg/httputil"
	"github.com/conselheirocristao/newsletter/internal/service/campaign"
	"github.com/conselheirocristao/newsletter/internal/service/contacts"
	"github.com/conselheirocristao/newsletter/internal/service/reconcile"
)

// snsKindHeader carries the out-of-band message kind on SNS deliveries.
const snsKindHeader = "x-amz-sns-message-type"

// maxWebhookBody bounds inbound notification payloads.
const maxWebhookBody = 1 << 20

// Handlers holds the service dependencies for all HTTP endpoints.
type Handlers struct {
	contacts   *contacts.Service
	campaigns  *campaign.Service
	reconciler *reconcile.Service
}

// NewHandlers creates the handler set.
func NewHandlers(c *contacts.Service, cam *campaign.Service, rec *reconcile.Service) *Handlers {
	return &Handlers{contacts: c, campaigns: cam, reconciler: rec}
}

// HealthCheck reports service liveness.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.OK(w, map[string]string{"status": "ok"})
}

// Subscribe registers a new contact.
// POST /subscribe {name, email, source?}
func (h *Handlers) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name   string `json:"name"`
		Email  string `json:"email"`
		Source string `json:"source"`
	}
	if !httputil.Decode(w, r, &req) {
		return
	}

	contact, err := h.contacts.Subscribe(r.Context(), req.Name, req.Email, req.Source)
	if err != nil {
		if errors.Is(err, contacts.ErrValidation) {
			httputil.BadRequest(w, err.Error(), "validation")
			return
		}
		httputil.InternalError(w, err)
		return
	}
	httputil.Created(w, contact)
}

// Unsubscribe deletes a contact by id. Idempotent: deleting an id that is
// already gone still reports success.
// POST /unsubscribe/{id}
func (h *Handlers) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	h.unsubscribe(w, r, chi.URLParam(r, "id"))
}

// UnsubscribeLink is the browser-facing target of the email footer link.
// GET /unsubscribe?id=<contact id>
func (h *Handlers) UnsubscribeLink(w http.ResponseWriter, r *http.Request) {
	h.unsubscribe(w, r, r.URL.Query().Get("id"))
}

func (h *Handlers) unsubscribe(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.contacts.Unsubscribe(r.Context(), id); err != nil {
		if errors.Is(err, contacts.ErrValidation) {
			httputil.BadRequest(w, err.Error(), "validation")
			return
		}
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, map[string]string{"message": "you have been unsubscribed"})
}

// SendCampaign launches a broadcast.
// POST /campaigns/send {subject, body, segment?}
func (h *Handlers) SendCampaign(w http.ResponseWriter, r *http.Request) {
	var req domain.CampaignRequest
	if !httputil.Decode(w, r, &req) {
		return
	}

	report, err := h.campaigns.Send(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, campaign.ErrValidation):
			httputil.BadRequest(w, err.Error(), "validation")
		case errors.Is(err, campaign.ErrNoContacts):
			httputil.NotFound(w, err.Error(), "no_contacts")
		case errors.Is(err, campaign.ErrUpstream):
			httputil.BadGateway(w, err.Error(), "upstream")
		default:
			httputil.InternalError(w, err)
		}
		return
	}

	httputil.OK(w, map[string]any{
		"message":  fmt.Sprintf("campaign sent to %d contact(s) in segment %q", report.Sent, report.Segment),
		"sent":     report.Sent,
		"segment":  report.Segment,
		"failures": report.Failures,
	})
}

// SESWebhook receives SNS-wrapped SES delivery notifications.
// POST /webhooks/ses
//
// Unsupported kinds are answered 200 so SNS stops retrying, but with an
// explicit rejected status distinct from a processed notification.
func (h *Handlers) SESWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		httputil.BadRequest(w, "failed to read body", "bad_body")
		return
	}

	outcome, err := h.reconciler.Process(r.Context(), r.Header.Get(snsKindHeader), body)
	if err != nil {
		switch {
		case errors.Is(err, reconcile.ErrMalformedPayload):
			httputil.BadRequest(w, err.Error(), "malformed_payload")
		case errors.Is(err, reconcile.ErrUnsupportedKind):
			httputil.JSON(w, http.StatusOK, map[string]string{
				"status": "rejected",
				"error":  err.Error(),
			})
		default:
			httputil.InternalError(w, err)
		}
		return
	}

	httputil.OK(w, map[string]any{
		"status":  "processed",
		"outcome": outcome,
	})
}

package reconcile

import (
	"context"
	"fmt"

	"github.com/conselheirocristao/newsletter/internal/domain"
	"github.com/conselheirocristao/newsletter/internal/pkg/logger"
)

// ContactStore is the slice of the contact repository the reconciler needs.
type ContactStore interface {
	// FindByEmail returns every contact holding the address. Uniqueness is
	// not enforced upstream, so more than one match is expected input.
	FindByEmail(ctx context.Context, email string) ([]domain.Contact, error)

	// Delete removes a contact by id. Absent ids are not an error.
	Delete(ctx context.Context, id string) error
}

// Service processes inbound delivery-outcome notifications.
type Service struct {
	store ContactStore
}

// NewService creates a reconciler backed by the given contact store.
func NewService(store ContactStore) *Service {
	return &Service{store: store}
}

// CleanupFailure records one address whose cleanup did not fully succeed.
type CleanupFailure struct {
	Email  string `json:"email"`
	Reason string `json:"reason"`
}

// Outcome summarizes one processed notification. The webhook is always
// acknowledged once an Outcome is produced, even when Removed is zero.
type Outcome struct {
	Kind             string           `json:"kind"`
	NotificationType string           `json:"notification_type,omitempty"`
	BounceType       string           `json:"bounce_type,omitempty"`
	SubscribeURL     string           `json:"subscribe_url,omitempty"`
	Removed          int              `json:"removed"`
	AlreadyClean     int              `json:"already_clean"`
	Failures         []CleanupFailure `json:"failures,omitempty"`
}

// Process classifies one inbound payload and applies the resulting store
// mutations.
//
// Cleanup is sequential-await: every lookup and deletion is waited on, and
// per-address failures are collected into the outcome rather than aborting
// the batch or being dropped. An address with zero matching contacts is
// counted as already clean, not an error. Errors are returned only for
// malformed payloads and unsupported kinds — a completed cleanup always
// acknowledges, whatever it found.
func (s *Service) Process(ctx context.Context, kind string, payload []byte) (*Outcome, error) {
	c, err := Classify(kind, payload)
	if err != nil {
		return nil, err
	}

	out := &Outcome{
		Kind:             c.Kind,
		NotificationType: c.NotificationType,
		BounceType:       c.BounceType,
		SubscribeURL:     c.SubscribeURL,
	}

	if c.Kind == KindSubscriptionConfirmation {
		// Surface the URL for an operator to visit exactly once. Never
		// auto-confirmed: a forged payload must not make this service
		// subscribe itself to an attacker's topic.
		logger.Warn("SNS subscription confirmation received — operator action required",
			"subscribe_url", c.SubscribeURL)
		return out, nil
	}

	if len(c.Recipients) == 0 {
		logger.Info("notification acknowledged without cleanup",
			"notification_type", c.NotificationType, "bounce_type", c.BounceType,
			"message_id", c.MessageID)
		return out, nil
	}

	for _, email := range c.Recipients {
		matches, err := s.store.FindByEmail(ctx, email)
		if err != nil {
			logger.Error("cleanup lookup failed", "email", email, "error", err)
			out.Failures = append(out.Failures, CleanupFailure{
				Email:  email,
				Reason: fmt.Sprintf("lookup: %v", err),
			})
			continue
		}
		if len(matches) == 0 {
			logger.Info("recipient already clean", "email", email)
			out.AlreadyClean++
			continue
		}
		// Delete every matching document, not just the first — duplicate
		// signups share the address.
		for _, m := range matches {
			if err := s.store.Delete(ctx, m.ID); err != nil {
				logger.Error("cleanup delete failed", "email", email, "contact_id", m.ID, "error", err)
				out.Failures = append(out.Failures, CleanupFailure{
					Email:  email,
					Reason: fmt.Sprintf("delete %s: %v", m.ID, err),
				})
				continue
			}
			out.Removed++
		}
	}

	logger.Info("cleanup complete",
		"notification_type", c.NotificationType,
		"removed", fmt.Sprintf("%d", out.Removed),
		"already_clean", fmt.Sprintf("%d", out.AlreadyClean),
		"failures", fmt.Sprintf("%d", len(out.Failures)))
	return out, nil
}

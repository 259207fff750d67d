package campaign

import (
	"context"
	"fmt"
	"strings"

	"github.com/conselheirocristao/newsletter/internal/domain"
	"github.com/conselheirocristao/newsletter/internal/pkg/logger"
)

// Selector produces the ordered set of contacts a segment targets.
// Implemented by the contacts service.
type Selector interface {
	Select(ctx context.Context, segment string) ([]domain.Contact, error)
}

// Sender delivers a single email. Implemented by the SES client. Failure
// reasons are opaque to this package beyond the returned error.
type Sender interface {
	Send(ctx context.Context, msg domain.EmailMessage) error
}

// Config holds the fixed broadcast settings.
type Config struct {
	FromAddress        string
	UnsubscribeBaseURL string
	ContinueOnError    bool
}

// Service implements campaign fanout. Safe for concurrent use; it holds no
// mutable state between calls.
type Service struct {
	selector Selector
	sender   Sender
	cfg      Config
}

// NewService creates a campaign service.
func NewService(selector Selector, sender Sender, cfg Config) *Service {
	return &Service{selector: selector, sender: sender, cfg: cfg}
}

// SendFailure records one recipient the broadcast could not reach.
// Only populated in continue-on-error mode.
type SendFailure struct {
	ContactID string `json:"contact_id"`
	Email     string `json:"email"`
	Reason    string `json:"reason"`
}

// Report summarizes a completed broadcast.
type Report struct {
	Sent     int           `json:"sent"`
	Segment  string        `json:"segment"`
	Failures []SendFailure `json:"failures,omitempty"`
}

// Send broadcasts a campaign to every contact the segment selects.
//
// Contacts are processed strictly sequentially, in selector order: each
// body is personalized, the unsubscribe footer appended, and the message
// awaited before the next begins. In the default mode the first failing
// send aborts the remaining loop and the call reports ErrUpstream — the
// processed count up to that point is logged but discarded. With
// Config.ContinueOnError set, failures are collected per recipient and the
// broadcast runs to completion.
func (s *Service) Send(ctx context.Context, req domain.CampaignRequest) (*Report, error) {
	if strings.TrimSpace(req.Subject) == "" {
		return nil, fmt.Errorf("%w: subject is required", ErrValidation)
	}
	if strings.TrimSpace(req.Body) == "" {
		return nil, fmt.Errorf("%w: body is required", ErrValidation)
	}

	selected, err := s.selector.Select(ctx, req.Segment)
	if err != nil {
		return nil, fmt.Errorf("%w: selecting contacts for segment %q: %v", ErrUpstream, segmentLabel(req.Segment), err)
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("%w: segment %q", ErrNoContacts, segmentLabel(req.Segment))
	}

	report := &Report{Segment: segmentLabel(req.Segment)}
	for i, contact := range selected {
		body := Personalize(req.Body, contact.Name)
		body += UnsubscribeFooter(s.cfg.UnsubscribeBaseURL, contact.ID)

		msg := domain.EmailMessage{
			To:       contact.Email,
			From:     s.cfg.FromAddress,
			Subject:  req.Subject,
			HTMLBody: body,
		}
		if err := s.sender.Send(ctx, msg); err != nil {
			if s.cfg.ContinueOnError {
				logger.Warn("send failed, continuing",
					"email", contact.Email, "contact_id", contact.ID, "error", err)
				report.Failures = append(report.Failures, SendFailure{
					ContactID: contact.ID,
					Email:     contact.Email,
					Reason:    err.Error(),
				})
				continue
			}
			// Legacy contract: abort the remaining loop. Log the exact
			// abort position so the operator knows who was reached.
			logger.Error("broadcast aborted",
				"email", contact.Email, "position", fmt.Sprintf("%d/%d", i+1, len(selected)),
				"sent_before_abort", fmt.Sprintf("%d", report.Sent), "error", err)
			return nil, fmt.Errorf("%w: send to contact %s failed after %d successful send(s): %v",
				ErrUpstream, contact.ID, report.Sent, err)
		}
		report.Sent++
	}

	logger.Info("broadcast complete",
		"segment", report.Segment,
		"sent", fmt.Sprintf("%d", report.Sent),
		"failed", fmt.Sprintf("%d", len(report.Failures)))
	return report, nil
}

func segmentLabel(segment string) string {
	if segment == "" {
		return domain.SegmentAll
	}
	return segment
}

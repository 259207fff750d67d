package contacts

import (
	"context"
	"fmt"
	"strings"

	"github.com/conselheirocristao/newsletter/internal/domain"
	"github.com/conselheirocristao/newsletter/internal/pkg/logger"
)

// Service implements contact list business logic. It is safe for concurrent
// use if the underlying repository is concurrency-safe.
type Service struct {
	repo Repository
}

// NewService creates a contacts service backed by the given repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Subscribe validates and persists a new contact. Name and email are
// required; a missing source is recorded as the "unknown origin" sentinel.
// Duplicate emails are allowed — each signup creates its own document.
func (s *Service) Subscribe(ctx context.Context, name, email, source string) (*domain.Contact, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrValidation)
	}
	if source == "" {
		source = domain.SourceUnknown
	}

	c := &domain.Contact{
		Name:   name,
		Email:  email,
		Source: source,
	}
	id, err := s.repo.Add(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("adding contact: %w", err)
	}
	c.ID = id

	logger.Info("contact subscribed", "id", id, "email", email, "source", source)
	return c, nil
}

// Unsubscribe deletes a contact by id. Deleting an id that does not exist
// is reported as success: the end state (no such contact) is identical, and
// footer links get clicked more than once.
func (s *Service) Unsubscribe(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: id is required", ErrValidation)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting contact %s: %w", id, err)
	}
	logger.Info("contact unsubscribed", "id", id)
	return nil
}

// Select returns the contacts targeted by a segment, in store order.
// An empty segment or the literal "all" selects every contact; any other
// value filters on source equality (case-sensitive, exact match).
// An empty result is the caller's problem to surface — Select itself does
// not treat it as an error.
func (s *Service) Select(ctx context.Context, segment string) ([]domain.Contact, error) {
	if segment == "" || segment == domain.SegmentAll {
		return s.repo.All(ctx)
	}
	return s.repo.FindBySource(ctx, segment)
}

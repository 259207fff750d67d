package contacts

import (
	"context"

	"github.com/conselheirocristao/newsletter/internal/domain"
)

// Repository defines the data access contract for the contact store.
type Repository interface {
	// Add persists a new contact and returns the store-assigned id.
	// The caller must not set ID or CreatedAt; the repository owns both.
	Add(ctx context.Context, c *domain.Contact) (string, error)

	// All returns every contact, in store-defined order.
	All(ctx context.Context) ([]domain.Contact, error)

	// FindBySource returns every contact whose source equals the given
	// value exactly (case-sensitive).
	FindBySource(ctx context.Context, source string) ([]domain.Contact, error)

	// FindByEmail returns every contact with the given email address.
	// Uniqueness is not enforced, so multiple matches are possible.
	FindByEmail(ctx context.Context, email string) ([]domain.Contact, error)

	// Delete removes a contact by id. Deleting an absent id is not an
	// error (idempotent).
	Delete(ctx context.Context, id string) error
}

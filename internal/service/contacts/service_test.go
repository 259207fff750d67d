package contacts_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/conselheirocristao/newsletter/internal/domain"
	"github.com/conselheirocristao/newsletter/internal/service/contacts"
)

// memRepo is an in-memory contact repository for unit testing.
type memRepo struct {
	mu       sync.Mutex
	contacts map[string]domain.Contact // keyed by id
	nextID   int
}

func newMemRepo() *memRepo {
	return &memRepo{contacts: make(map[string]domain.Contact)}
}

func (m *memRepo) Add(_ context.Context, c *domain.Contact) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	id := fmt.Sprintf("id-%d", m.nextID)
	cp := *c
	cp.ID = id
	m.contacts[id] = cp
	return id, nil
}

func (m *memRepo) All(_ context.Context) ([]domain.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Contact
	for i := 1; i <= m.nextID; i++ {
		if c, ok := m.contacts[fmt.Sprintf("id-%d", i)]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memRepo) FindBySource(ctx context.Context, source string) ([]domain.Contact, error) {
	all, _ := m.All(ctx)
	var out []domain.Contact
	for _, c := range all {
		if c.Source == source {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memRepo) FindByEmail(ctx context.Context, email string) ([]domain.Contact, error) {
	all, _ := m.All(ctx)
	var out []domain.Contact
	for _, c := range all {
		if c.Email == email {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.contacts, id)
	return nil
}

func TestSubscribe(t *testing.T) {
	svc := contacts.NewService(newMemRepo())

	c, err := svc.Subscribe(context.Background(), "Ana", "ana@example.com", "landing-page")
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if c.ID == "" {
		t.Error("expected assigned id")
	}
	if c.Source != "landing-page" {
		t.Errorf("source = %q, want landing-page", c.Source)
	}
}

func TestSubscribeDefaultsSource(t *testing.T) {
	svc := contacts.NewService(newMemRepo())

	c, err := svc.Subscribe(context.Background(), "Ana", "ana@example.com", "")
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if c.Source != domain.SourceUnknown {
		t.Errorf("source = %q, want %q", c.Source, domain.SourceUnknown)
	}
}

func TestSubscribeValidation(t *testing.T) {
	svc := contacts.NewService(newMemRepo())

	cases := []struct {
		name, email string
	}{
		{"", "ana@example.com"},
		{"Ana", ""},
		{"   ", "ana@example.com"},
		{"Ana", "   "},
	}
	for _, tc := range cases {
		if _, err := svc.Subscribe(context.Background(), tc.name, tc.email, ""); !errors.Is(err, contacts.ErrValidation) {
			t.Errorf("Subscribe(%q, %q): got %v, want ErrValidation", tc.name, tc.email, err)
		}
	}
}

func TestSubscribeAllowsDuplicateEmails(t *testing.T) {
	repo := newMemRepo()
	svc := contacts.NewService(repo)
	ctx := context.Background()

	a, err := svc.Subscribe(ctx, "Ana", "ana@example.com", "a")
	if err != nil {
		t.Fatalf("first Subscribe: %v", err)
	}
	b, err := svc.Subscribe(ctx, "Ana", "ana@example.com", "b")
	if err != nil {
		t.Fatalf("second Subscribe: %v", err)
	}
	if a.ID == b.ID {
		t.Error("duplicate signups should create distinct contacts")
	}

	matches, _ := repo.FindByEmail(ctx, "ana@example.com")
	if len(matches) != 2 {
		t.Errorf("got %d contacts for shared email, want 2", len(matches))
	}
}

func TestUnsubscribeIdempotent(t *testing.T) {
	svc := contacts.NewService(newMemRepo())
	ctx := context.Background()

	c, err := svc.Subscribe(ctx, "Ana", "ana@example.com", "")
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	if err := svc.Unsubscribe(ctx, c.ID); err != nil {
		t.Fatalf("first Unsubscribe: %v", err)
	}
	// Second delete of the same id must still succeed.
	if err := svc.Unsubscribe(ctx, c.ID); err != nil {
		t.Errorf("repeat Unsubscribe: %v", err)
	}
	// An id that never existed succeeds too.
	if err := svc.Unsubscribe(ctx, "never-existed"); err != nil {
		t.Errorf("Unsubscribe of unknown id: %v", err)
	}
}

func TestUnsubscribeRequiresID(t *testing.T) {
	svc := contacts.NewService(newMemRepo())
	if err := svc.Unsubscribe(context.Background(), "  "); !errors.Is(err, contacts.ErrValidation) {
		t.Errorf("got %v, want ErrValidation", err)
	}
}

func TestSelect(t *testing.T) {
	svc := contacts.NewService(newMemRepo())
	ctx := context.Background()

	svc.Subscribe(ctx, "Ana", "ana@example.com", "landing-page")
	svc.Subscribe(ctx, "Bruno", "bruno@example.com", "instagram")
	svc.Subscribe(ctx, "Carla", "carla@example.com", "landing-page")

	all, err := svc.Select(ctx, "")
	if err != nil {
		t.Fatalf("Select(\"\"): %v", err)
	}
	if len(all) != 3 {
		t.Errorf("empty segment selected %d contacts, want 3", len(all))
	}

	all, err = svc.Select(ctx, domain.SegmentAll)
	if err != nil {
		t.Fatalf("Select(all): %v", err)
	}
	if len(all) != 3 {
		t.Errorf("segment %q selected %d contacts, want 3", domain.SegmentAll, len(all))
	}

	lp, err := svc.Select(ctx, "landing-page")
	if err != nil {
		t.Fatalf("Select(landing-page): %v", err)
	}
	if len(lp) != 2 {
		t.Errorf("segment landing-page selected %d contacts, want 2", len(lp))
	}

	// Exact match only — no normalization.
	none, err := svc.Select(ctx, "Landing-Page")
	if err != nil {
		t.Fatalf("Select(Landing-Page): %v", err)
	}
	if len(none) != 0 {
		t.Errorf("case-variant segment selected %d contacts, want 0", len(none))
	}
}

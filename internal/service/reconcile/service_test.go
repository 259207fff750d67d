package reconcile_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/conselheirocristao/newsletter/internal/domain"
	"github.com/conselheirocristao/newsletter/internal/service/reconcile"
)

// memStore is an in-memory contact store for unit testing.
type memStore struct {
	mu       sync.Mutex
	contacts map[string]domain.Contact
	findErr  error
}

func newMemStore(contacts ...domain.Contact) *memStore {
	s := &memStore{contacts: make(map[string]domain.Contact)}
	for _, c := range contacts {
		s.contacts[c.ID] = c
	}
	return s
}

func (m *memStore) FindByEmail(_ context.Context, email string) ([]domain.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	var out []domain.Contact
	for _, c := range m.contacts {
		if c.Email == email {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.contacts, id)
	return nil
}

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.contacts)
}

func bouncePayload(t *testing.T, bounceType string, emails ...string) []byte {
	t.Helper()
	recipients := make([]map[string]string, len(emails))
	for i, e := range emails {
		recipients[i] = map[string]string{"emailAddress": e}
	}
	return envelope(t, map[string]any{
		"notificationType": "Bounce",
		"bounce": map[string]any{
			"bounceType":        bounceType,
			"bouncedRecipients": recipients,
		},
	})
}

func complaintPayload(t *testing.T, emails ...string) []byte {
	t.Helper()
	recipients := make([]map[string]string, len(emails))
	for i, e := range emails {
		recipients[i] = map[string]string{"emailAddress": e}
	}
	return envelope(t, map[string]any{
		"notificationType": "Complaint",
		"complaint": map[string]any{
			"complainedRecipients": recipients,
		},
	})
}

func TestProcessPermanentBounceRemovesAllMatches(t *testing.T) {
	// Two contacts share the bounced address; both must go.
	store := newMemStore(
		domain.Contact{ID: "1", Email: "gone@example.com"},
		domain.Contact{ID: "2", Email: "gone@example.com"},
		domain.Contact{ID: "3", Email: "stays@example.com"},
	)
	svc := reconcile.NewService(store)

	out, err := svc.Process(context.Background(), reconcile.KindNotification,
		bouncePayload(t, "Permanent", "gone@example.com"))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if out.Removed != 2 {
		t.Errorf("Removed = %d, want 2", out.Removed)
	}
	if store.count() != 1 {
		t.Errorf("store holds %d contacts, want 1", store.count())
	}
}

func TestProcessTransientBounceLeavesStoreAlone(t *testing.T) {
	store := newMemStore(domain.Contact{ID: "1", Email: "busy@example.com"})
	svc := reconcile.NewService(store)

	out, err := svc.Process(context.Background(), reconcile.KindNotification,
		bouncePayload(t, "Transient", "busy@example.com"))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if out.Removed != 0 {
		t.Errorf("Removed = %d, want 0", out.Removed)
	}
	if store.count() != 1 {
		t.Error("transient bounce deleted a contact")
	}
}

func TestProcessComplaintRemoves(t *testing.T) {
	store := newMemStore(
		domain.Contact{ID: "1", Email: "annoyed@example.com"},
		domain.Contact{ID: "2", Email: "happy@example.com"},
	)
	svc := reconcile.NewService(store)

	out, err := svc.Process(context.Background(), reconcile.KindNotification,
		complaintPayload(t, "annoyed@example.com"))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if out.Removed != 1 {
		t.Errorf("Removed = %d, want 1", out.Removed)
	}
	if store.count() != 1 {
		t.Errorf("store holds %d contacts, want 1", store.count())
	}
}

func TestProcessNoMatchesIsAlreadyClean(t *testing.T) {
	store := newMemStore()
	svc := reconcile.NewService(store)

	out, err := svc.Process(context.Background(), reconcile.KindNotification,
		bouncePayload(t, "Permanent", "unknown@example.com"))
	if err != nil {
		t.Fatalf("Process acknowledged a clean address with an error: %v", err)
	}
	if out.AlreadyClean != 1 {
		t.Errorf("AlreadyClean = %d, want 1", out.AlreadyClean)
	}
	if out.Removed != 0 {
		t.Errorf("Removed = %d, want 0", out.Removed)
	}
}

func TestProcessCollectsLookupFailures(t *testing.T) {
	store := newMemStore()
	store.findErr = fmt.Errorf("store unavailable")
	svc := reconcile.NewService(store)

	out, err := svc.Process(context.Background(), reconcile.KindNotification,
		complaintPayload(t, "a@example.com", "b@example.com"))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(out.Failures) != 2 {
		t.Errorf("got %d failures, want 2 (one per address, batch not aborted)", len(out.Failures))
	}
}

func TestProcessSubscriptionConfirmation(t *testing.T) {
	store := newMemStore(domain.Contact{ID: "1", Email: "ana@example.com"})
	svc := reconcile.NewService(store)

	payload := []byte(`{"Type":"SubscriptionConfirmation","SubscribeURL":"https://sns.example.com/confirm"}`)
	out, err := svc.Process(context.Background(), "", payload)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if out.SubscribeURL != "https://sns.example.com/confirm" {
		t.Errorf("subscribe url = %q", out.SubscribeURL)
	}
	if store.count() != 1 {
		t.Error("confirmation mutated the store")
	}
}

func TestProcessRejectsUnsupportedKind(t *testing.T) {
	svc := reconcile.NewService(newMemStore())
	if _, err := svc.Process(context.Background(), "UnsubscribeConfirmation", []byte(`{}`)); !errors.Is(err, reconcile.ErrUnsupportedKind) {
		t.Errorf("got %v, want ErrUnsupportedKind", err)
	}
}

func TestProcessRejectsMalformed(t *testing.T) {
	svc := reconcile.NewService(newMemStore())
	if _, err := svc.Process(context.Background(), "", []byte(`garbage`)); !errors.Is(err, reconcile.ErrMalformedPayload) {
		t.Errorf("got %v, want ErrMalformedPayload", err)
	}
}

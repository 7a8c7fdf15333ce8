package profile

import (
	"context"
	"errors"
	"sync"
	"testing"

	"cloud.google.com/go/firestore"

	"github.com/roktodan/roktodan-api/internal/testutil"
)

func setupFirestoreTest(t *testing.T) (*FirestoreStore, func()) {
	t.Helper()

	testutil.SkipIfFirestoreUnavailable(t)
	testutil.SetupEmulator(t)
	testutil.ClearFirestore(t)

	ctx := context.Background()
	client, err := firestore.NewClient(ctx, testutil.ProjectID)
	if err != nil {
		t.Fatalf("failed to create Firestore client: %v", err)
	}

	store := NewFirestoreStore(client)
	cleanup := func() {
		testutil.ClearFirestore(t)
		_ = client.Close()
	}

	return store, cleanup
}

func TestFirestoreUpsertCreatesWithDefaults(t *testing.T) {
	store, cleanup := setupFirestoreTest(t)
	defer cleanup()

	ctx := context.Background()
	p, err := store.UpsertByEmail(ctx, "ASHA@Example.com ", Hints{Name: "Asha Rahman"})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if p.Email != "asha@example.com" {
		t.Errorf("expected normalized email, got %q", p.Email)
	}
	if p.Role != RoleDonor {
		t.Errorf("expected default role donor, got %s", p.Role)
	}
	if p.Status != StatusActive {
		t.Errorf("expected default status active, got %s", p.Status)
	}
	if p.Name != "Asha Rahman" {
		t.Errorf("expected hint name, got %q", p.Name)
	}
	if p.CreatedAt.IsZero() || p.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestFirestoreUpsertPreservesStoredFields(t *testing.T) {
	store, cleanup := setupFirestoreTest(t)
	defer cleanup()

	ctx := context.Background()
	if _, err := store.UpsertByEmail(ctx, "asha@example.com", Hints{Name: "Asha Rahman"}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if _, err := store.SetRole(ctx, "asha@example.com", RoleVolunteer); err != nil {
		t.Fatalf("set role: %v", err)
	}

	p, err := store.UpsertByEmail(ctx, "asha@example.com", Hints{Name: "Different Name"})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if p.Role != RoleVolunteer {
		t.Errorf("upsert must not reset role, got %s", p.Role)
	}
	if p.Name != "Asha Rahman" {
		t.Errorf("hint must not overwrite stored name, got %q", p.Name)
	}
}

func TestFirestoreUpsertFillsBlanks(t *testing.T) {
	store, cleanup := setupFirestoreTest(t)
	defer cleanup()

	ctx := context.Background()
	if _, err := store.UpsertByEmail(ctx, "asha@example.com", Hints{}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	p, err := store.UpsertByEmail(ctx, "asha@example.com", Hints{Name: "Asha Rahman", Avatar: "https://example.com/a.png"})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if p.Name != "Asha Rahman" || p.Avatar != "https://example.com/a.png" {
		t.Errorf("blank fields should be filled from hints, got name=%q avatar=%q", p.Name, p.Avatar)
	}
}

func TestFirestoreUpsertConcurrentSingleRecord(t *testing.T) {
	store, cleanup := setupFirestoreTest(t)
	defer cleanup()

	ctx := context.Background()
	const callers = 5
	var wg sync.WaitGroup
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.UpsertByEmail(ctx, "race@example.com", Hints{Name: "Racer"}); err != nil {
				t.Errorf("concurrent upsert: %v", err)
			}
		}()
	}
	wg.Wait()

	all, err := store.List(ctx, Filter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected one record after concurrent upserts, got %d", len(all))
	}
}

func TestFirestorePatchAndGet(t *testing.T) {
	store, cleanup := setupFirestoreTest(t)
	defer cleanup()

	ctx := context.Background()
	if _, err := store.UpsertByEmail(ctx, "asha@example.com", Hints{Name: "Asha"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	bg := "O+"
	district := "Dhaka"
	p, err := store.Patch(ctx, "asha@example.com", UpdateParams{BloodGroup: &bg, District: &district})
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	if p.BloodGroup != "O+" || p.District != "Dhaka" {
		t.Errorf("patch did not apply: %+v", p)
	}
	if p.Name != "Asha" {
		t.Errorf("patch touched unrelated field: %q", p.Name)
	}

	got, err := store.GetByEmail(ctx, "asha@example.com")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.BloodGroup != "O+" {
		t.Errorf("patched value not persisted, got %q", got.BloodGroup)
	}
}

func TestFirestorePatchNotFound(t *testing.T) {
	store, cleanup := setupFirestoreTest(t)
	defer cleanup()

	name := "Nobody"
	_, err := store.Patch(context.Background(), "missing@example.com", UpdateParams{Name: &name})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFirestoreSetStatusAndListFilter(t *testing.T) {
	store, cleanup := setupFirestoreTest(t)
	defer cleanup()

	ctx := context.Background()
	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		if _, err := store.UpsertByEmail(ctx, email, Hints{}); err != nil {
			t.Fatalf("upsert %s: %v", email, err)
		}
	}
	if _, err := store.SetStatus(ctx, "b@example.com", StatusBlocked); err != nil {
		t.Fatalf("set status: %v", err)
	}

	blocked, err := store.List(ctx, Filter{Status: StatusBlocked})
	if err != nil {
		t.Fatalf("list blocked: %v", err)
	}
	if len(blocked) != 1 || blocked[0].Email != "b@example.com" {
		t.Errorf("expected only b@example.com blocked, got %v", blocked)
	}

	active, err := store.List(ctx, Filter{Status: StatusActive})
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 2 {
		t.Errorf("expected 2 active records, got %d", len(active))
	}
}

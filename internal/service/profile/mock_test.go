package profile

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestMockUpsertDefaults(t *testing.T) {
	svc := NewMockProfileService()
	ctx := context.Background()

	p, err := svc.UpsertByEmail(ctx, " Asha@Example.COM ", Hints{Name: "Asha Rahman"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.Email != "asha@example.com" {
		t.Errorf("expected normalized email, got %s", p.Email)
	}
	if p.Role != RoleDonor {
		t.Errorf("expected role donor, got %s", p.Role)
	}
	if p.Status != StatusActive {
		t.Errorf("expected status active, got %s", p.Status)
	}
	if p.Name != "Asha Rahman" {
		t.Errorf("expected hint name, got %s", p.Name)
	}
}

func TestMockUpsertIdempotent(t *testing.T) {
	svc := NewMockProfileService()
	ctx := context.Background()

	first, err := svc.UpsertByEmail(ctx, "asha@example.com", Hints{Name: "Asha"})
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	second, err := svc.UpsertByEmail(ctx, "asha@example.com", Hints{Name: "Other Name"})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if second.Name != first.Name {
		t.Errorf("hint overwrote stored name: %s", second.Name)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Error("second upsert must not recreate the record")
	}
}

func TestMockUpsertConcurrent(t *testing.T) {
	svc := NewMockProfileService()
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.UpsertByEmail(ctx, "race@example.com", Hints{}); err != nil {
				t.Errorf("concurrent upsert: %v", err)
			}
		}()
	}
	wg.Wait()

	all, err := svc.List(ctx, Filter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected one record, got %d", len(all))
	}
}

func TestMockGetNotFound(t *testing.T) {
	svc := NewMockProfileService()

	_, err := svc.GetByEmail(context.Background(), "missing@example.com")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMockSetRoleAndStatus(t *testing.T) {
	svc := NewMockProfileService()
	ctx := context.Background()

	if _, err := svc.UpsertByEmail(ctx, "asha@example.com", Hints{}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	p, err := svc.SetRole(ctx, "asha@example.com", RoleAdmin)
	if err != nil {
		t.Fatalf("set role: %v", err)
	}
	if p.Role != RoleAdmin {
		t.Errorf("expected admin, got %s", p.Role)
	}

	p, err = svc.SetStatus(ctx, "asha@example.com", StatusBlocked)
	if err != nil {
		t.Fatalf("set status: %v", err)
	}
	if p.Status != StatusBlocked {
		t.Errorf("expected blocked, got %s", p.Status)
	}
}

func TestMockFailWith(t *testing.T) {
	svc := NewMockProfileService()
	svc.FailWith = errors.New("store down")

	if _, err := svc.UpsertByEmail(context.Background(), "x@example.com", Hints{}); err == nil {
		t.Fatal("expected injected failure")
	}
}

func TestMockListFilter(t *testing.T) {
	svc := NewMockProfileService()
	svc.Seed(&Profile{Email: "d1@example.com", Role: RoleDonor, Status: StatusActive, BloodGroup: "O+", District: "Dhaka"})
	svc.Seed(&Profile{Email: "d2@example.com", Role: RoleDonor, Status: StatusActive, BloodGroup: "A-", District: "Dhaka"})
	svc.Seed(&Profile{Email: "v1@example.com", Role: RoleVolunteer, Status: StatusActive, BloodGroup: "O+"})
	svc.Seed(&Profile{Email: "d3@example.com", Role: RoleDonor, Status: StatusBlocked, BloodGroup: "O+"})

	got, err := svc.List(context.Background(), Filter{Role: RoleDonor, Status: StatusActive, BloodGroup: "O+"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].Email != "d1@example.com" {
		t.Fatalf("unexpected filter result: %v", got)
	}
}

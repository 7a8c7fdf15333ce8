package profile

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MockProfileService implements Service for unit tests.
type MockProfileService struct {
	mu       sync.RWMutex
	profiles map[string]*Profile

	// FailWith, when set, makes every call return this error. Used to
	// simulate an unreachable store.
	FailWith error
}

// NewMockProfileService creates a new mock service.
func NewMockProfileService() *MockProfileService {
	return &MockProfileService{
		profiles: make(map[string]*Profile),
	}
}

func (m *MockProfileService) GetByEmail(_ context.Context, email string) (*Profile, error) {
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, exists := m.profiles[normalizeEmail(email)]
	if !exists {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockProfileService) UpsertByEmail(_ context.Context, email string, hints Hints) (*Profile, error) {
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	email = normalizeEmail(email)
	now := time.Now().UTC()

	if p, exists := m.profiles[email]; exists {
		if p.Name == "" && hints.Name != "" {
			p.Name = hints.Name
			p.UpdatedAt = now
		}
		if p.Avatar == "" && hints.Avatar != "" {
			p.Avatar = hints.Avatar
			p.UpdatedAt = now
		}
		cp := *p
		return &cp, nil
	}

	p := &Profile{
		Email:     email,
		Name:      hints.Name,
		Avatar:    hints.Avatar,
		Role:      RoleDonor,
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.profiles[email] = p
	cp := *p
	return &cp, nil
}

func (m *MockProfileService) Patch(_ context.Context, email string, params UpdateParams) (*Profile, error) {
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	p, exists := m.profiles[normalizeEmail(email)]
	if !exists {
		return nil, ErrNotFound
	}

	if params.Name != nil {
		p.Name = *params.Name
	}
	if params.Avatar != nil {
		p.Avatar = *params.Avatar
	}
	if params.BloodGroup != nil {
		p.BloodGroup = *params.BloodGroup
	}
	if params.District != nil {
		p.District = *params.District
	}
	if params.Upazila != nil {
		p.Upazila = *params.Upazila
	}
	p.UpdatedAt = time.Now().UTC()
	cp := *p
	return &cp, nil
}

func (m *MockProfileService) SetRole(_ context.Context, email string, role Role) (*Profile, error) {
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	p, exists := m.profiles[normalizeEmail(email)]
	if !exists {
		return nil, ErrNotFound
	}
	p.Role = role
	p.UpdatedAt = time.Now().UTC()
	cp := *p
	return &cp, nil
}

func (m *MockProfileService) SetStatus(_ context.Context, email string, st Status) (*Profile, error) {
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	p, exists := m.profiles[normalizeEmail(email)]
	if !exists {
		return nil, ErrNotFound
	}
	p.Status = st
	p.UpdatedAt = time.Now().UTC()
	cp := *p
	return &cp, nil
}

func (m *MockProfileService) List(_ context.Context, filter Filter) ([]*Profile, error) {
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*Profile
	for _, p := range m.profiles {
		if filter.Matches(p) {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Seed inserts a fully-specified profile, bypassing upsert defaults.
func (m *MockProfileService) Seed(p *Profile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	cp.Email = normalizeEmail(cp.Email)
	m.profiles[cp.Email] = &cp
}

// Clear removes all profiles (useful for test cleanup).
func (m *MockProfileService) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles = make(map[string]*Profile)
}

// Compile-time interface check
var _ Service = (*MockProfileService)(nil)

package request

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MockRequestStore implements Store for unit tests. Compare-and-set runs under
// a single lock, matching the serialization Firestore transactions provide.
type MockRequestStore struct {
	mu       sync.RWMutex
	requests map[string]*Request

	// FailWith, when set, makes every call return this error.
	FailWith error
}

// NewMockRequestStore creates a new mock store.
func NewMockRequestStore() *MockRequestStore {
	return &MockRequestStore{
		requests: make(map[string]*Request),
	}
}

func (m *MockRequestStore) Create(_ context.Context, params CreateParams) (*Request, error) {
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	r := &Request{
		ID:                uuid.NewString(),
		RequesterEmail:    strings.ToLower(strings.TrimSpace(params.RequesterEmail)),
		RequesterName:     params.RequesterName,
		RecipientName:     params.RecipientName,
		RecipientDistrict: params.RecipientDistrict,
		RecipientUpazila:  params.RecipientUpazila,
		HospitalName:      params.HospitalName,
		FullAddress:       params.FullAddress,
		BloodGroup:        params.BloodGroup,
		DonationDate:      params.DonationDate,
		DonationTime:      params.DonationTime,
		RequestMessage:    params.RequestMessage,
		Status:            StatusPending,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	m.requests[r.ID] = r
	cp := *r
	return &cp, nil
}

func (m *MockRequestStore) GetByID(_ context.Context, id string) (*Request, error) {
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, exists := m.requests[id]
	if !exists {
		return nil, ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *MockRequestStore) List(_ context.Context, filter Filter) ([]*Request, error) {
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*Request
	for _, r := range m.requests {
		if filter.Matches(r) {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MockRequestStore) CompareAndSetStatus(_ context.Context, id string, expected, next Status, donor *Donor) (*Request, error) {
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	r, exists := m.requests[id]
	if !exists {
		return nil, ErrNotFound
	}
	if r.Status != expected {
		return nil, ErrConflict
	}

	r.Status = next
	if donor != nil {
		r.DonorName = donor.Name
		r.DonorEmail = strings.ToLower(strings.TrimSpace(donor.Email))
	}
	r.UpdatedAt = time.Now().UTC()
	cp := *r
	return &cp, nil
}

func (m *MockRequestStore) PatchDescriptive(_ context.Context, id string, params UpdateParams) (*Request, error) {
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	r, exists := m.requests[id]
	if !exists {
		return nil, ErrNotFound
	}

	if params.RecipientName != nil {
		r.RecipientName = *params.RecipientName
	}
	if params.RecipientDistrict != nil {
		r.RecipientDistrict = *params.RecipientDistrict
	}
	if params.RecipientUpazila != nil {
		r.RecipientUpazila = *params.RecipientUpazila
	}
	if params.HospitalName != nil {
		r.HospitalName = *params.HospitalName
	}
	if params.FullAddress != nil {
		r.FullAddress = *params.FullAddress
	}
	if params.BloodGroup != nil {
		r.BloodGroup = *params.BloodGroup
	}
	if params.DonationDate != nil {
		r.DonationDate = *params.DonationDate
	}
	if params.DonationTime != nil {
		r.DonationTime = *params.DonationTime
	}
	if params.RequestMessage != nil {
		r.RequestMessage = *params.RequestMessage
	}
	r.UpdatedAt = time.Now().UTC()
	cp := *r
	return &cp, nil
}

func (m *MockRequestStore) Delete(_ context.Context, id string) error {
	if m.FailWith != nil {
		return m.FailWith
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.requests[id]; !exists {
		return ErrNotFound
	}
	delete(m.requests, id)
	return nil
}

// Clear removes all requests (useful for test cleanup).
func (m *MockRequestStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = make(map[string]*Request)
}

// Compile-time interface check
var _ Store = (*MockRequestStore)(nil)

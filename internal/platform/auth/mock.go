package auth

import (
	"context"
)

// MockVerifier provides fake token verification for tests.
type MockVerifier struct {
	User    *ProviderUser
	Error   error
	Revoked []string
}

// Verify returns the configured user or error.
func (m *MockVerifier) Verify(_ context.Context, _ string) (*ProviderUser, error) {
	if m.Error != nil {
		return nil, m.Error
	}
	return m.User, nil
}

// RevokeSessions records the email and returns the configured error.
func (m *MockVerifier) RevokeSessions(_ context.Context, email string) error {
	if m.Error != nil {
		return m.Error
	}
	m.Revoked = append(m.Revoked, email)
	return nil
}

// TestUser returns a standard test user.
func TestUser() *ProviderUser {
	return &ProviderUser{
		UID:           "test-user-123",
		Email:         "test@example.com",
		EmailVerified: true,
		Name:          "Test User",
	}
}

// Compile-time interface checks
var (
	_ Verifier = (*MockVerifier)(nil)
	_ Revoker  = (*MockVerifier)(nil)
)

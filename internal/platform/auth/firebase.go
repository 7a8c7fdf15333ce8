package auth

import (
	"context"
	"errors"
	"strings"

	fbauth "firebase.google.com/go/v4/auth"
)

// ProviderUser is the identity asserted by the identity provider for a session
// token. Name and Avatar are display hints only; role and status always come
// from the profile store, never from the token.
type ProviderUser struct {
	UID           string
	Email         string
	EmailVerified bool
	Name          string
	Avatar        string
}

// Error types for authentication failures.
var (
	// ErrNoToken indicates missing Authorization header.
	ErrNoToken = errors.New("missing authorization header")

	// ErrInvalidToken indicates an invalid token format or signature.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired indicates the token has expired.
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenRevoked indicates the token has been revoked.
	ErrTokenRevoked = errors.New("token revoked")

	// ErrUserDisabled indicates the provider account is disabled.
	ErrUserDisabled = errors.New("user disabled")

	// ErrCertificateFetch indicates a network error fetching public keys.
	// This should result in HTTP 503 (service unavailable), not a sign-out.
	ErrCertificateFetch = errors.New("failed to fetch certificates")
)

// Verifier validates session tokens and returns the provider-asserted identity.
type Verifier interface {
	Verify(ctx context.Context, token string) (*ProviderUser, error)
}

// Revoker invalidates all outstanding provider sessions for a user.
// Used on sign-out and when an admin blocks an account.
type Revoker interface {
	RevokeSessions(ctx context.Context, email string) error
}

// FirebaseVerifier implements Verifier and Revoker using the Firebase Admin SDK.
type FirebaseVerifier struct {
	client *fbauth.Client
}

// NewFirebaseVerifier creates a new verifier with the given auth client.
func NewFirebaseVerifier(client *fbauth.Client) *FirebaseVerifier {
	return &FirebaseVerifier{client: client}
}

// Verify validates a Firebase ID token and checks for revocation.
func (v *FirebaseVerifier) Verify(ctx context.Context, idToken string) (*ProviderUser, error) {
	token, err := v.client.VerifyIDTokenAndCheckRevoked(ctx, idToken)
	if err != nil {
		switch {
		case fbauth.IsCertificateFetchFailed(err):
			return nil, ErrCertificateFetch
		case fbauth.IsIDTokenExpired(err):
			return nil, ErrTokenExpired
		case fbauth.IsIDTokenRevoked(err):
			return nil, ErrTokenRevoked
		case fbauth.IsUserDisabled(err):
			return nil, ErrUserDisabled
		case fbauth.IsIDTokenInvalid(err):
			return nil, ErrInvalidToken
		default:
			return nil, ErrInvalidToken
		}
	}

	email, _ := token.Claims["email"].(string)
	verified, _ := token.Claims["email_verified"].(bool)
	name, _ := token.Claims["name"].(string)
	avatar, _ := token.Claims["picture"].(string)

	return &ProviderUser{
		UID:           token.UID,
		Email:         strings.ToLower(strings.TrimSpace(email)),
		EmailVerified: verified,
		Name:          name,
		Avatar:        avatar,
	}, nil
}

// RevokeSessions invalidates the user's refresh tokens. Outstanding ID tokens
// fail verification once VerifyIDTokenAndCheckRevoked observes the revocation.
func (v *FirebaseVerifier) RevokeSessions(ctx context.Context, email string) error {
	user, err := v.client.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	return v.client.RevokeRefreshTokens(ctx, user.UID)
}

// ExtractBearerToken extracts the token from Authorization header.
func ExtractBearerToken(header string) (string, error) {
	if header == "" {
		return "", ErrNoToken
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", ErrInvalidToken
	}
	return parts[1], nil
}

// Compile-time interface checks
var (
	_ Verifier = (*FirebaseVerifier)(nil)
	_ Revoker  = (*FirebaseVerifier)(nil)
)

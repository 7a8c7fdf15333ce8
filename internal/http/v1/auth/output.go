package auth

// SyncOutput for POST /auth/sync
type SyncOutput struct {
	Body Account
}

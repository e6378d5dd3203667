package domain

import "time"

// OAuthState is a pending connect attempt. Only the SHA-256 fingerprint of
// the state value handed to the provider is stored.
type OAuthState struct {
	ID        string
	StateHash string
	Platform  Platform
	OwnerID   string
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}

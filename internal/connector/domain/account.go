package domain

import "time"

// Account is one social media identity connected by an operator. At most
// one Account exists per (Platform, ExternalID); reconnecting re-parents it.
type Account struct {
	ID          string // ULID
	Platform    Platform
	ExternalID  string // provider's user/open id
	OwnerID     string // operator that owns the connection
	DisplayName string
	AvatarURL   string
	Active      bool // false once disconnected (soft delete)
	LastUsedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

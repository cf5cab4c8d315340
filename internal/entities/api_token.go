package entities

import (
	"time"

	"github.com/google/uuid"
)

// APIToken is a long-lived bearer credential a user mints for scripts and
// integrations. The token value itself is an opaque UUID.
type APIToken struct {
	ID         int64      `json:"id"`
	UserID     int64      `json:"user_id"`
	Token      uuid.UUID  `json:"-"`
	Label      string     `json:"label"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
}

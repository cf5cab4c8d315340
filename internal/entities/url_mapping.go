package entities

import "time"

// URLMapping is a short code and the destination it resolves to. The code is the
// primary key; code, URL and owner never change after creation.
type URLMapping struct {
	Code      string     `json:"code"`
	URL       string     `json:"url"`
	UserID    int64      `json:"user_id"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"` // Pointer allows nil (no expiration)
	CreatedAt time.Time  `json:"created_at"`
}

// Expired reports whether the mapping's expiry, if any, has passed at the given instant.
func (m *URLMapping) Expired(now time.Time) bool {
	return m.ExpiresAt != nil && !m.ExpiresAt.After(now)
}

package entities

import "time"

// ClickEvent is one successful resolve of a short code. Events are append-only and
// removed only when their mapping is deleted.
type ClickEvent struct {
	ID        int64     `json:"id"`
	Code      string    `json:"code"`
	ClickedAt time.Time `json:"clicked_at"`
	IPAddress string    `json:"ip_address"`
	UserAgent string    `json:"user_agent"`
	Referer   string    `json:"referer"`
}

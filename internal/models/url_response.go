package models

// ShortenResponse represents the response after creating a short URL
type ShortenResponse struct {
	Code     string `json:"code"`
	ShortURL string `json:"short_url"`
}

// URLInfoResponse describes one mapping. Timestamps are epoch seconds. Clicks is
// only populated on the per-user listing, never on the public info endpoint.
type URLInfoResponse struct {
	Code      string `json:"code"`
	URL       string `json:"url"`
	ShortURL  string `json:"short"`
	CreatedAt int64  `json:"created_at"`
	ExpiresAt *int64 `json:"expires_at,omitempty"`
	TTLActive bool   `json:"ttl_active"`
	Clicks    *int64 `json:"clicks,omitempty"`
}

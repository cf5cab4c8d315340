package models

// ShortenRequest represents the request body for creating a short URL.
// The URL is opaque text; it is not validated beyond being present.
type ShortenRequest struct {
	URL string `json:"url" binding:"required"`
	TTL *int64 `json:"ttl,omitempty" binding:"omitempty,gt=0"` // seconds
}

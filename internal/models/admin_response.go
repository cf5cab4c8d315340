package models

// UserResponse is the admin projection of a user account.
type UserResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt int64  `json:"created_at"` // epoch seconds
}

// CodeClicks pairs a short code with its total click count.
type CodeClicks struct {
	Code   string `json:"code"`
	Clicks int64  `json:"clicks"`
}

// AnalyticsSummaryResponse aggregates click counts across all codes.
type AnalyticsSummaryResponse struct {
	TotalClicks int64        `json:"total_clicks"`
	TopURLs     []CodeClicks `json:"top_urls"`
}

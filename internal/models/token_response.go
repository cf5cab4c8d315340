package models

// CreateTokenRequest represents the request body for minting an API token.
type CreateTokenRequest struct {
	Label string `json:"label" binding:"required"`
}

// TokenResponse describes a minted API token. The token value is only included
// in the response to the mint call; listings return it as well since tokens are
// bearer credentials the owner already holds.
type TokenResponse struct {
	ID         int64  `json:"id"`
	Token      string `json:"token"`
	Label      string `json:"label"`
	CreatedAt  int64  `json:"created_at"`
	LastUsedAt *int64 `json:"last_used_at,omitempty"`
}

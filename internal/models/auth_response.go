package models

// AuthResponse is returned by both register and login.
type AuthResponse struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Token  string `json:"token"` // JWT, valid for the configured TTL
	Role   string `json:"role"`
}

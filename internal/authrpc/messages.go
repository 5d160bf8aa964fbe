package authrpc

import "time"

type RegisterRequest struct {
	Name            string   `json:"name"`
	Password        string   `json:"password"`
	ConfirmPassword string   `json:"confirm_password"`
	Categories      []string `json:"categories,omitempty"`
}

type LoginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// TokenResponse is returned by Register and Login.
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	UserID      int64     `json:"user_id"`
	UserName    string    `json:"user_name"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type WhoAmIRequest struct{}

// UserProfile is the public view of an account.
type UserProfile struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Categories  []string   `json:"categories"`
	Points      int        `json:"points"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

type PingRequest struct{}

// PingResponse names the caller when the ping carried a valid token.
type PingResponse struct {
	Status string `json:"status"`
	User   string `json:"user,omitempty"`
}

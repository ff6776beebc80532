package model

import "time"

// User represents a user account in the database. Password holds the
// bcrypt hash and stays empty until the user sets one after signup.
type User struct {
	ID             int64
	Username       string
	Email          string
	Password       string
	ProfilePicture string
	Currency       string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// SignUpRequest represents a new account registration request.
type SignUpRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// SignInRequest represents a credential login request.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SetPasswordRequest sets or replaces the caller's password.
type SetPasswordRequest struct {
	Password string `json:"password"`
}

// UpdateUserRequest carries optional profile mutations; nil fields are
// left untouched.
type UpdateUserRequest struct {
	Username       *string `json:"username"`
	Email          *string `json:"email"`
	ProfilePicture *string `json:"profilePicture"`
	Currency       *string `json:"currency"`
	IsActive       *bool   `json:"isActive"`
}

// AuthResponse represents a successful authentication: a token pair plus
// a public projection of the user.
type AuthResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

// UserResponse represents user data safe for API responses (no password hash).
type UserResponse struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	ProfilePicture string    `json:"profilePicture,omitempty"`
	Currency       string    `json:"currency,omitempty"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
}

// PublicUser converts a User to its API-safe projection.
func PublicUser(u *User) UserResponse {
	return UserResponse{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		ProfilePicture: u.ProfilePicture,
		Currency:       u.Currency,
		IsActive:       u.IsActive,
		CreatedAt:      u.CreatedAt,
	}
}

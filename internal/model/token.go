package model

import "time"

// Token represents a stored refresh token. A user holds one row per
// device/session; the row's value is replaced in place on rotation.
type Token struct {
	ID           int64
	UserID       int64
	RefreshToken string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RefreshRequest exchanges a refresh token for a new token pair.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// LogoutRequest revokes the presented refresh token, or every token the
// user holds when AllDevices is set.
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
	AllDevices   bool   `json:"allDevices"`
}

// TokenPairResponse carries a freshly issued access/refresh pair.
type TokenPairResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

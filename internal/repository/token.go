package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/pennywise/pennywise-go/internal/model"
)

var ErrTokenNotFound = errors.New("refresh token not found")

// TokenRepository handles stored refresh tokens. A user holds one row per
// device; rotation replaces a row's value in place.
type TokenRepository struct {
	db *sql.DB
}

// NewTokenRepository creates a new TokenRepository.
func NewTokenRepository(db *sql.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// Create persists a freshly issued refresh token for a user.
func (r *TokenRepository) Create(ctx context.Context, token *model.Token) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO tokens (user_id, refresh_token) VALUES (?, ?)`,
		token.UserID, token.RefreshToken,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	token.ID = id
	return nil
}

// Rotate replaces the stored value only if the old value still matches,
// so two concurrent refresh calls with the same token produce exactly one
// winner. Zero rows affected means the token was already rotated, revoked
// or never stored.
func (r *TokenRepository) Rotate(ctx context.Context, userID int64, oldToken, newToken string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE tokens SET refresh_token = ? WHERE user_id = ? AND refresh_token = ?`,
		newToken, userID, oldToken,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrTokenNotFound
	}
	return nil
}

// DeleteByToken removes the row holding the literal token value. Deleting
// a token that is not stored is not an error.
func (r *TokenRepository) DeleteByToken(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tokens WHERE refresh_token = ?`, token)
	return err
}

// DeleteByUser removes every stored token for a user (all devices).
func (r *TokenRepository) DeleteByUser(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tokens WHERE user_id = ?`, userID)
	return err
}

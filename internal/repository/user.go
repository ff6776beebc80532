package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/pennywise/pennywise-go/internal/model"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

// UserRepository handles user persistence operations.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user and sets the generated ID on the user struct.
// The password column stays NULL until SetPassword is called.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (username, email, profile_picture, currency, is_active) VALUES (?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		user.Username, user.Email, user.ProfilePicture, user.Currency, user.IsActive,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrDuplicateEmail
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	user.ID = id
	return nil
}

const userColumns = `id, username, email, COALESCE(password, ''), profile_picture, currency, is_active, created_at, updated_at`

func scanUser(row *sql.Row) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.Password,
		&user.ProfilePicture, &user.Currency, &user.IsActive,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// GetByEmail retrieves a user by their email address, including the
// password hash.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

// GetByID retrieves a user by their ID.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

// ExistsByEmail reports whether a user with the given email is registered.
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)`, email).Scan(&exists)
	return exists, err
}

// Update persists profile fields for an existing user.
func (r *UserRepository) Update(ctx context.Context, user *model.User) error {
	query := `UPDATE users SET username = ?, email = ?, profile_picture = ?, currency = ?, is_active = ? WHERE id = ?`

	_, err := r.db.ExecContext(ctx, query,
		user.Username, user.Email, user.ProfilePicture, user.Currency, user.IsActive, user.ID,
	)
	if err != nil && isDuplicateEntryError(err) {
		return ErrDuplicateEmail
	}
	return err
}

// SetPassword stores a new password hash for the user.
func (r *UserRepository) SetPassword(ctx context.Context, id int64, hash string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE users SET password = ? WHERE id = ?`, hash, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Delete removes the user row. Dependent records must be deleted first;
// the cascade is driven by the user service.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// isDuplicateEntryError checks if a MySQL error is a duplicate entry error (code 1062).
func isDuplicateEntryError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "Duplicate entry")
}

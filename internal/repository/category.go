package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/pennywise/pennywise-go/internal/model"
)

var ErrCategoryNotFound = errors.New("category not found")

// CategoryRepository handles category persistence operations.
type CategoryRepository struct {
	db *sql.DB
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

const categoryColumns = `id, user_id, name, icon, bg_colour, created_at, updated_at`

// ListByUser retrieves a user's categories sorted by name.
func (r *CategoryRepository) ListByUser(ctx context.Context, userID int64) ([]model.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE user_id = ? ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Icon, &c.BgColour, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}

// GetByID retrieves a category scoped to its owner.
func (r *CategoryRepository) GetByID(ctx context.Context, userID, id int64) (*model.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE user_id = ? AND id = ?`

	c := &model.Category{}
	err := r.db.QueryRowContext(ctx, query, userID, id).Scan(
		&c.ID, &c.UserID, &c.Name, &c.Icon, &c.BgColour, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	return c, nil
}

// ExistsByName reports whether the user already has a category with this
// exact name. excludeID skips one record, for duplicate checks on update;
// pass 0 to match all records. The comparison is case-sensitive.
func (r *CategoryRepository) ExistsByName(ctx context.Context, userID int64, name string, excludeID int64) (bool, error) {
	query := `SELECT EXISTS(
		SELECT 1 FROM categories WHERE user_id = ? AND BINARY name = ? AND id != ?)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, userID, name, excludeID).Scan(&exists)
	return exists, err
}

// Create inserts a new category and sets the generated ID.
func (r *CategoryRepository) Create(ctx context.Context, category *model.Category) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (user_id, name, icon, bg_colour) VALUES (?, ?, ?, ?)`,
		category.UserID, category.Name, category.Icon, category.BgColour,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	category.ID = id
	return nil
}

// Update persists a category's mutable fields, scoped to its owner.
// Existence is checked by the service first; MySQL reports zero affected
// rows for no-op updates, so the count is not used here.
func (r *CategoryRepository) Update(ctx context.Context, category *model.Category) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE categories SET name = ?, icon = ?, bg_colour = ? WHERE user_id = ? AND id = ?`,
		category.Name, category.Icon, category.BgColour, category.UserID, category.ID,
	)
	return err
}

// Delete removes a category, scoped to its owner. Referential checks run
// in the service before this is called.
func (r *CategoryRepository) Delete(ctx context.Context, userID, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// DeleteByUser removes every category a user owns.
func (r *CategoryRepository) DeleteByUser(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE user_id = ?`, userID)
	return err
}

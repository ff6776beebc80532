package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/pennywise/pennywise-go/internal/model"
)

var ErrNoteNotFound = errors.New("note not found")

// NoteRepository handles note persistence operations.
type NoteRepository struct {
	db *sql.DB
}

// NewNoteRepository creates a new NoteRepository.
func NewNoteRepository(db *sql.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

const noteColumns = `id, user_id, title, content, pinned, created_at, updated_at`

// ListByUser retrieves a user's notes, pinned first, newest first within
// each group.
func (r *NoteRepository) ListByUser(ctx context.Context, userID int64) ([]model.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes WHERE user_id = ? ORDER BY pinned DESC, created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []model.Note
	for rows.Next() {
		var n model.Note
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Content, &n.Pinned, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}

	return notes, rows.Err()
}

// GetByID retrieves a note scoped to its owner.
func (r *NoteRepository) GetByID(ctx context.Context, userID, id int64) (*model.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes WHERE user_id = ? AND id = ?`

	n := &model.Note{}
	err := r.db.QueryRowContext(ctx, query, userID, id).Scan(
		&n.ID, &n.UserID, &n.Title, &n.Content, &n.Pinned, &n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoteNotFound
		}
		return nil, err
	}

	return n, nil
}

// Create inserts a note and sets the generated ID.
func (r *NoteRepository) Create(ctx context.Context, note *model.Note) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO notes (user_id, title, content, pinned) VALUES (?, ?, ?, ?)`,
		note.UserID, note.Title, note.Content, note.Pinned,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	note.ID = id
	return nil
}

// Update replaces a note's content fields, scoped to its owner. Existence
// is checked by the service first; MySQL reports zero affected rows for
// no-op updates, so the count is not used for not-found detection here.
func (r *NoteRepository) Update(ctx context.Context, note *model.Note) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE notes SET title = ?, content = ?, pinned = ? WHERE user_id = ? AND id = ?`,
		note.Title, note.Content, note.Pinned, note.UserID, note.ID,
	)
	return err
}

// SetPinned flips a note's pin state, scoped to its owner.
func (r *NoteRepository) SetPinned(ctx context.Context, userID, id int64, pinned bool) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE notes SET pinned = ? WHERE user_id = ? AND id = ?`,
		pinned, userID, id,
	)
	return err
}

// DeleteByIDs removes the given notes, scoped to their owner. IDs that
// match nothing are skipped silently.
func (r *NoteRepository) DeleteByIDs(ctx context.Context, userID int64, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	query := `DELETE FROM notes WHERE user_id = ? AND id IN (?`
	args := []any{userID, ids[0]}
	for _, id := range ids[1:] {
		query += `, ?`
		args = append(args, id)
	}
	query += `)`

	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

// DeleteByUser removes every note a user owns.
func (r *NoteRepository) DeleteByUser(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE user_id = ?`, userID)
	return err
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/pennywise/pennywise-go/internal/model"
)

var ErrTransactionNotFound = errors.New("transaction not found")

// TransactionRepository handles transaction persistence and the grouped
// aggregates the reporting engine reads. Each aggregate is a single
// filter/group/join/sort query; the percentage math stays in the service.
type TransactionRepository struct {
	db *sql.DB
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create inserts a transaction and sets the generated ID. Amount must
// already be sign-normalized by the caller.
func (r *TransactionRepository) Create(ctx context.Context, tx *model.Transaction) error {
	query := `INSERT INTO transactions
		(user_id, category_id, amount, payment_method, transaction_type, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	createdAt := tx.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	result, err := r.db.ExecContext(ctx, query,
		tx.UserID, tx.CategoryID, tx.Amount, tx.PaymentMethod, tx.TransactionType, tx.Description, createdAt,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	tx.ID = id
	tx.CreatedAt = createdAt
	return nil
}

// GetByID retrieves a transaction scoped to its owner.
func (r *TransactionRepository) GetByID(ctx context.Context, userID, id int64) (*model.Transaction, error) {
	query := `SELECT id, user_id, category_id, amount, payment_method, transaction_type,
		COALESCE(description, ''), created_at, updated_at
		FROM transactions WHERE user_id = ? AND id = ?`

	tx := &model.Transaction{}
	err := r.db.QueryRowContext(ctx, query, userID, id).Scan(
		&tx.ID, &tx.UserID, &tx.CategoryID, &tx.Amount, &tx.PaymentMethod, &tx.TransactionType,
		&tx.Description, &tx.CreatedAt, &tx.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}

	return tx, nil
}

// Update replaces a transaction's fields, scoped to its owner. Existence
// is checked by the service first.
func (r *TransactionRepository) Update(ctx context.Context, tx *model.Transaction) error {
	query := `UPDATE transactions
		SET category_id = ?, amount = ?, payment_method = ?, transaction_type = ?, description = ?, created_at = ?
		WHERE user_id = ? AND id = ?`

	_, err := r.db.ExecContext(ctx, query,
		tx.CategoryID, tx.Amount, tx.PaymentMethod, tx.TransactionType, tx.Description, tx.CreatedAt,
		tx.UserID, tx.ID,
	)
	return err
}

// DeleteByIDs removes the given transactions, scoped to their owner.
// IDs that match nothing are skipped silently.
func (r *TransactionRepository) DeleteByIDs(ctx context.Context, userID int64, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	query := `DELETE FROM transactions WHERE user_id = ? AND id IN (?` // first placeholder
	args := []any{userID, ids[0]}
	for _, id := range ids[1:] {
		query += `, ?`
		args = append(args, id)
	}
	query += `)`

	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

// DeleteByUser removes every transaction a user owns.
func (r *TransactionRepository) DeleteByUser(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE user_id = ?`, userID)
	return err
}

// ExistsByCategory reports whether any transaction still references the
// category. Category deletion is blocked while this holds.
func (r *TransactionRepository) ExistsByCategory(ctx context.Context, categoryID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM transactions WHERE category_id = ?)`, categoryID,
	).Scan(&exists)
	return exists, err
}

const joinedColumns = `t.id, t.amount, t.payment_method, t.transaction_type, COALESCE(t.description, ''), t.created_at,
		c.id, c.name, c.icon, c.bg_colour`

func scanJoined(rows *sql.Rows) ([]model.TransactionWithCategory, error) {
	var list []model.TransactionWithCategory
	for rows.Next() {
		var tx model.TransactionWithCategory
		if err := rows.Scan(
			&tx.ID, &tx.Amount, &tx.PaymentMethod, &tx.TransactionType, &tx.Description, &tx.CreatedAt,
			&tx.Category.ID, &tx.Category.Name, &tx.Category.Icon, &tx.Category.BgColour,
		); err != nil {
			return nil, err
		}
		list = append(list, tx)
	}
	return list, rows.Err()
}

// ListRecent retrieves the user's newest transactions with category
// display fields.
func (r *TransactionRepository) ListRecent(ctx context.Context, userID int64, limit int) ([]model.TransactionWithCategory, error) {
	query := `SELECT ` + joinedColumns + `
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		WHERE t.user_id = ?
		ORDER BY t.created_at DESC
		LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanJoined(rows)
}

// ListSince retrieves the user's transactions created at or after the
// given instant, newest first, with category display fields.
func (r *TransactionRepository) ListSince(ctx context.Context, userID int64, since time.Time) ([]model.TransactionWithCategory, error) {
	query := `SELECT ` + joinedColumns + `
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		WHERE t.user_id = ? AND t.created_at >= ?
		ORDER BY t.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanJoined(rows)
}

// ListByMonth retrieves the user's transactions for one calendar month,
// newest first, with category display fields.
func (r *TransactionRepository) ListByMonth(ctx context.Context, userID int64, month, year int) ([]model.TransactionWithCategory, error) {
	query := `SELECT ` + joinedColumns + `
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		WHERE t.user_id = ? AND MONTH(t.created_at) = ? AND YEAR(t.created_at) = ?
		ORDER BY t.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID, month, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanJoined(rows)
}

const statsSums = `COUNT(*),
		COALESCE(SUM(amount), 0),
		COALESCE(SUM(CASE WHEN transaction_type = 'Income' THEN amount ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN transaction_type = 'Expense' THEN amount ELSE 0 END), 0)`

// BalanceTotals sums the user's signed amounts split by type across all
// transactions. Zero-valued when the user has none.
func (r *TransactionRepository) BalanceTotals(ctx context.Context, userID int64) (model.Balance, error) {
	query := `SELECT ` + statsSums + ` FROM transactions WHERE user_id = ?`

	var count int
	var b model.Balance
	var total float64
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&count, &total, &b.Income, &b.Expense)
	if err != nil {
		return model.Balance{}, err
	}

	b.Balance = b.Income + b.Expense
	return b, nil
}

// MonthStats sums the user's signed amounts split by type for one
// calendar month. The second return reports whether any transaction
// matched the month.
func (r *TransactionRepository) MonthStats(ctx context.Context, userID int64, month, year int) (model.Stats, bool, error) {
	query := `SELECT ` + statsSums + `
		FROM transactions WHERE user_id = ? AND MONTH(created_at) = ? AND YEAR(created_at) = ?`

	var count int
	var s model.Stats
	err := r.db.QueryRowContext(ctx, query, userID, month, year).Scan(&count, &s.TotalAmount, &s.Income, &s.Expense)
	if err != nil {
		return model.Stats{}, false, err
	}

	return s, count > 0, nil
}

// MonthCategoryTotals groups one month's transactions by category, joined
// with category display fields, ordered by total ascending (largest
// expense first under the sign convention).
func (r *TransactionRepository) MonthCategoryTotals(ctx context.Context, userID int64, month, year int) ([]model.CategoryTotal, error) {
	query := `SELECT c.id, c.name, c.icon, c.bg_colour, SUM(t.amount), COUNT(*)
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		WHERE t.user_id = ? AND MONTH(t.created_at) = ? AND YEAR(t.created_at) = ?
		GROUP BY c.id, c.name, c.icon, c.bg_colour
		ORDER BY SUM(t.amount) ASC`

	rows, err := r.db.QueryContext(ctx, query, userID, month, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []model.CategoryTotal
	for rows.Next() {
		var ct model.CategoryTotal
		if err := rows.Scan(&ct.CategoryID, &ct.Name, &ct.Icon, &ct.BgColour, &ct.TotalAmount, &ct.Count); err != nil {
			return nil, err
		}
		totals = append(totals, ct)
	}

	return totals, rows.Err()
}

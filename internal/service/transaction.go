package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/pennywise/pennywise-go/internal/model"
	"github.com/pennywise/pennywise-go/internal/repository"
)

var (
	ErrCategoryExists      = errors.New("category already exists")
	ErrCategoryInUse       = errors.New("cannot delete category with transactions")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidType         = errors.New("transaction type must be Income or Expense")
)

// TransactionStore is the persistence surface for transactions and their
// listings.
type TransactionStore interface {
	Create(ctx context.Context, tx *model.Transaction) error
	GetByID(ctx context.Context, userID, id int64) (*model.Transaction, error)
	Update(ctx context.Context, tx *model.Transaction) error
	DeleteByIDs(ctx context.Context, userID int64, ids []int64) error
	DeleteByUser(ctx context.Context, userID int64) error
	ExistsByCategory(ctx context.Context, categoryID int64) (bool, error)
	ListRecent(ctx context.Context, userID int64, limit int) ([]model.TransactionWithCategory, error)
	ListSince(ctx context.Context, userID int64, since time.Time) ([]model.TransactionWithCategory, error)
}

// CategoryStore is the persistence surface for categories.
type CategoryStore interface {
	ListByUser(ctx context.Context, userID int64) ([]model.Category, error)
	GetByID(ctx context.Context, userID, id int64) (*model.Category, error)
	ExistsByName(ctx context.Context, userID int64, name string, excludeID int64) (bool, error)
	Create(ctx context.Context, category *model.Category) error
	Update(ctx context.Context, category *model.Category) error
	Delete(ctx context.Context, userID, id int64) error
	DeleteByUser(ctx context.Context, userID int64) error
}

// TransactionService handles transaction and category bookkeeping. All
// amounts are sign-normalized on write: income positive, expense negative.
type TransactionService struct {
	transactions TransactionStore
	categories   CategoryStore
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(transactions TransactionStore, categories CategoryStore) *TransactionService {
	return &TransactionService{transactions: transactions, categories: categories}
}

// signedAmount applies the sign convention: income keeps its sign,
// expense is negated.
func signedAmount(amount float64, transactionType string) float64 {
	if transactionType == model.TypeIncome {
		return amount
	}
	return -amount
}

// MonthlyGroups returns the last three calendar months of transactions
// grouped by month, newest month first, newest transaction first within a
// month, each group carrying its signed total.
func (s *TransactionService) MonthlyGroups(ctx context.Context, userID int64) ([]model.MonthGroup, error) {
	now := time.Now()
	// First day of the month two months back, i.e. a three-month window.
	since := time.Date(now.Year(), now.Month()-2, 1, 0, 0, 0, 0, now.Location())

	list, err := s.transactions.ListSince(ctx, userID, since)
	if err != nil {
		return nil, err
	}

	// The list arrives newest first, so appending preserves group order.
	var groups []model.MonthGroup
	for _, tx := range list {
		y, m := tx.CreatedAt.Year(), int(tx.CreatedAt.Month())
		if len(groups) == 0 || groups[len(groups)-1].Year != y || groups[len(groups)-1].Month != m {
			groups = append(groups, model.MonthGroup{Year: y, Month: m})
		}
		g := &groups[len(groups)-1]
		g.TotalAmount += tx.Amount
		g.Data = append(g.Data, tx)
	}

	return groups, nil
}

// Recent returns the user's ten newest transactions.
func (s *TransactionService) Recent(ctx context.Context, userID int64) ([]model.TransactionWithCategory, error) {
	return s.transactions.ListRecent(ctx, userID, 10)
}

// Create normalizes the amount per the sign convention and persists the
// transaction.
func (s *TransactionService) Create(ctx context.Context, userID int64, req model.TransactionRequest) (*model.Transaction, error) {
	if req.TransactionType != model.TypeIncome && req.TransactionType != model.TypeExpense {
		return nil, ErrInvalidType
	}

	if _, err := s.categories.GetByID(ctx, userID, req.Category); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	tx := &model.Transaction{
		UserID:          userID,
		CategoryID:      req.Category,
		Amount:          signedAmount(req.Amount, req.TransactionType),
		PaymentMethod:   req.PaymentMethod,
		TransactionType: req.TransactionType,
		Description:     req.Description,
		CreatedAt:       req.CreatedAt,
	}

	if err := s.transactions.Create(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

// Update replaces a transaction's fields, re-applying the sign convention.
func (s *TransactionService) Update(ctx context.Context, userID, id int64, req model.TransactionRequest) (*model.Transaction, error) {
	if req.TransactionType != model.TypeIncome && req.TransactionType != model.TypeExpense {
		return nil, ErrInvalidType
	}

	tx, err := s.transactions.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}

	tx.CategoryID = req.Category
	tx.Amount = signedAmount(req.Amount, req.TransactionType)
	tx.PaymentMethod = req.PaymentMethod
	tx.TransactionType = req.TransactionType
	tx.Description = req.Description
	if !req.CreatedAt.IsZero() {
		tx.CreatedAt = req.CreatedAt
	}

	if err := s.transactions.Update(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

// Delete removes the given transactions. Unknown ids are skipped.
func (s *TransactionService) Delete(ctx context.Context, userID int64, ids []int64) error {
	return s.transactions.DeleteByIDs(ctx, userID, ids)
}

// Categories lists the user's categories sorted by name.
func (s *TransactionService) Categories(ctx context.Context, userID int64) ([]model.Category, error) {
	return s.categories.ListByUser(ctx, userID)
}

// CreateCategory trims the name and rejects a case-sensitive duplicate
// for the same user.
func (s *TransactionService) CreateCategory(ctx context.Context, userID int64, req model.CategoryRequest) (*model.Category, error) {
	name := strings.TrimSpace(req.Name)

	exists, err := s.categories.ExistsByName(ctx, userID, name, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrCategoryExists
	}

	category := &model.Category{
		UserID:   userID,
		Name:     name,
		Icon:     req.Icon,
		BgColour: req.BgColour,
	}

	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

// UpdateCategory replaces a category's fields, running the duplicate
// check against every other category the user owns.
func (s *TransactionService) UpdateCategory(ctx context.Context, userID, id int64, req model.CategoryRequest) (*model.Category, error) {
	name := strings.TrimSpace(req.Name)

	exists, err := s.categories.ExistsByName(ctx, userID, name, id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrCategoryExists
	}

	category, err := s.categories.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	category.Name = name
	category.Icon = req.Icon
	category.BgColour = req.BgColour

	if err := s.categories.Update(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

// DeleteCategory removes a category unless any transaction still
// references it.
func (s *TransactionService) DeleteCategory(ctx context.Context, userID, id int64) error {
	inUse, err := s.transactions.ExistsByCategory(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		return ErrCategoryInUse
	}

	err = s.categories.Delete(ctx, userID, id)
	if errors.Is(err, repository.ErrCategoryNotFound) {
		return ErrCategoryNotFound
	}
	return err
}

// PurgeUser removes every transaction and category a user owns, in that
// order so the category foreign keys are never violated.
func (s *TransactionService) PurgeUser(ctx context.Context, userID int64) error {
	if err := s.transactions.DeleteByUser(ctx, userID); err != nil {
		return err
	}
	return s.categories.DeleteByUser(ctx, userID)
}

package service

import (
	"context"
	"sort"
	"time"

	"github.com/pennywise/pennywise-go/internal/model"
	"github.com/pennywise/pennywise-go/internal/repository"
)

// In-memory store fakes mirroring the repository semantics, including
// sentinel errors and query ordering.

type fakeUserStore struct {
	seq   int64
	users map[int64]*model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[int64]*model.User)}
}

func (f *fakeUserStore) Create(_ context.Context, user *model.User) error {
	for _, u := range f.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	f.seq++
	user.ID = f.seq
	user.CreatedAt = time.Now()
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUserStore) GetByID(_ context.Context, id int64) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, u := range f.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserStore) SetPassword(_ context.Context, id int64, hash string) error {
	u, ok := f.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.Password = hash
	return nil
}

func (f *fakeUserStore) Update(_ context.Context, user *model.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(f.users, id)
	return nil
}

type fakeTokenStore struct {
	seq  int64
	rows map[int64]*model.Token
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{rows: make(map[int64]*model.Token)}
}

func (f *fakeTokenStore) Create(_ context.Context, token *model.Token) error {
	f.seq++
	token.ID = f.seq
	cp := *token
	f.rows[token.ID] = &cp
	return nil
}

func (f *fakeTokenStore) Rotate(_ context.Context, userID int64, oldToken, newToken string) error {
	for _, t := range f.rows {
		if t.UserID == userID && t.RefreshToken == oldToken {
			t.RefreshToken = newToken
			return nil
		}
	}
	return repository.ErrTokenNotFound
}

func (f *fakeTokenStore) DeleteByToken(_ context.Context, token string) error {
	for id, t := range f.rows {
		if t.RefreshToken == token {
			delete(f.rows, id)
		}
	}
	return nil
}

func (f *fakeTokenStore) DeleteByUser(_ context.Context, userID int64) error {
	for id, t := range f.rows {
		if t.UserID == userID {
			delete(f.rows, id)
		}
	}
	return nil
}

func (f *fakeTokenStore) holds(token string) bool {
	for _, t := range f.rows {
		if t.RefreshToken == token {
			return true
		}
	}
	return false
}

type fakeCategoryStore struct {
	seq        int64
	categories map[int64]*model.Category
}

func newFakeCategoryStore() *fakeCategoryStore {
	return &fakeCategoryStore{categories: make(map[int64]*model.Category)}
}

func (f *fakeCategoryStore) ListByUser(_ context.Context, userID int64) ([]model.Category, error) {
	var list []model.Category
	for _, c := range f.categories {
		if c.UserID == userID {
			list = append(list, *c)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (f *fakeCategoryStore) GetByID(_ context.Context, userID, id int64) (*model.Category, error) {
	c, ok := f.categories[id]
	if !ok || c.UserID != userID {
		return nil, repository.ErrCategoryNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCategoryStore) ExistsByName(_ context.Context, userID int64, name string, excludeID int64) (bool, error) {
	for _, c := range f.categories {
		if c.UserID == userID && c.Name == name && c.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCategoryStore) Create(_ context.Context, category *model.Category) error {
	f.seq++
	category.ID = f.seq
	cp := *category
	f.categories[category.ID] = &cp
	return nil
}

func (f *fakeCategoryStore) Update(_ context.Context, category *model.Category) error {
	cp := *category
	f.categories[category.ID] = &cp
	return nil
}

func (f *fakeCategoryStore) Delete(_ context.Context, userID, id int64) error {
	c, ok := f.categories[id]
	if !ok || c.UserID != userID {
		return repository.ErrCategoryNotFound
	}
	delete(f.categories, id)
	return nil
}

func (f *fakeCategoryStore) DeleteByUser(_ context.Context, userID int64) error {
	for id, c := range f.categories {
		if c.UserID == userID {
			delete(f.categories, id)
		}
	}
	return nil
}

type fakeTransactionStore struct {
	seq          int64
	transactions map[int64]*model.Transaction
	categories   *fakeCategoryStore
}

func newFakeTransactionStore(categories *fakeCategoryStore) *fakeTransactionStore {
	return &fakeTransactionStore{
		transactions: make(map[int64]*model.Transaction),
		categories:   categories,
	}
}

func (f *fakeTransactionStore) Create(_ context.Context, tx *model.Transaction) error {
	f.seq++
	tx.ID = f.seq
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now().UTC()
	}
	cp := *tx
	f.transactions[tx.ID] = &cp
	return nil
}

func (f *fakeTransactionStore) GetByID(_ context.Context, userID, id int64) (*model.Transaction, error) {
	tx, ok := f.transactions[id]
	if !ok || tx.UserID != userID {
		return nil, repository.ErrTransactionNotFound
	}
	cp := *tx
	return &cp, nil
}

func (f *fakeTransactionStore) Update(_ context.Context, tx *model.Transaction) error {
	cp := *tx
	f.transactions[tx.ID] = &cp
	return nil
}

func (f *fakeTransactionStore) DeleteByIDs(_ context.Context, userID int64, ids []int64) error {
	for _, id := range ids {
		if tx, ok := f.transactions[id]; ok && tx.UserID == userID {
			delete(f.transactions, id)
		}
	}
	return nil
}

func (f *fakeTransactionStore) DeleteByUser(_ context.Context, userID int64) error {
	for id, tx := range f.transactions {
		if tx.UserID == userID {
			delete(f.transactions, id)
		}
	}
	return nil
}

func (f *fakeTransactionStore) ExistsByCategory(_ context.Context, categoryID int64) (bool, error) {
	for _, tx := range f.transactions {
		if tx.CategoryID == categoryID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeTransactionStore) joined(tx *model.Transaction) model.TransactionWithCategory {
	out := model.TransactionWithCategory{
		ID:              tx.ID,
		Amount:          tx.Amount,
		PaymentMethod:   tx.PaymentMethod,
		TransactionType: tx.TransactionType,
		Description:     tx.Description,
		CreatedAt:       tx.CreatedAt,
	}
	if c, ok := f.categories.categories[tx.CategoryID]; ok {
		out.Category = model.CategoryRef{ID: c.ID, Name: c.Name, Icon: c.Icon, BgColour: c.BgColour}
	}
	return out
}

func (f *fakeTransactionStore) listWhere(userID int64, keep func(*model.Transaction) bool) []model.TransactionWithCategory {
	var list []model.TransactionWithCategory
	for _, tx := range f.transactions {
		if tx.UserID == userID && keep(tx) {
			list = append(list, f.joined(tx))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list
}

func (f *fakeTransactionStore) ListRecent(_ context.Context, userID int64, limit int) ([]model.TransactionWithCategory, error) {
	list := f.listWhere(userID, func(*model.Transaction) bool { return true })
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (f *fakeTransactionStore) ListSince(_ context.Context, userID int64, since time.Time) ([]model.TransactionWithCategory, error) {
	return f.listWhere(userID, func(tx *model.Transaction) bool {
		return !tx.CreatedAt.Before(since)
	}), nil
}

func inMonth(t time.Time, month, year int) bool {
	return int(t.Month()) == month && t.Year() == year
}

func (f *fakeTransactionStore) ListByMonth(_ context.Context, userID int64, month, year int) ([]model.TransactionWithCategory, error) {
	return f.listWhere(userID, func(tx *model.Transaction) bool {
		return inMonth(tx.CreatedAt, month, year)
	}), nil
}

func (f *fakeTransactionStore) BalanceTotals(_ context.Context, userID int64) (model.Balance, error) {
	var b model.Balance
	for _, tx := range f.transactions {
		if tx.UserID != userID {
			continue
		}
		if tx.TransactionType == model.TypeIncome {
			b.Income += tx.Amount
		} else {
			b.Expense += tx.Amount
		}
	}
	b.Balance = b.Income + b.Expense
	return b, nil
}

func (f *fakeTransactionStore) MonthStats(_ context.Context, userID int64, month, year int) (model.Stats, bool, error) {
	var s model.Stats
	var count int
	for _, tx := range f.transactions {
		if tx.UserID != userID || !inMonth(tx.CreatedAt, month, year) {
			continue
		}
		count++
		s.TotalAmount += tx.Amount
		if tx.TransactionType == model.TypeIncome {
			s.Income += tx.Amount
		} else {
			s.Expense += tx.Amount
		}
	}
	return s, count > 0, nil
}

func (f *fakeTransactionStore) MonthCategoryTotals(_ context.Context, userID int64, month, year int) ([]model.CategoryTotal, error) {
	byCategory := make(map[int64]*model.CategoryTotal)
	for _, tx := range f.transactions {
		if tx.UserID != userID || !inMonth(tx.CreatedAt, month, year) {
			continue
		}
		ct, ok := byCategory[tx.CategoryID]
		if !ok {
			ct = &model.CategoryTotal{CategoryID: tx.CategoryID}
			if c, found := f.categories.categories[tx.CategoryID]; found {
				ct.Name, ct.Icon, ct.BgColour = c.Name, c.Icon, c.BgColour
			}
			byCategory[tx.CategoryID] = ct
		}
		ct.TotalAmount += tx.Amount
		ct.Count++
	}

	var totals []model.CategoryTotal
	for _, ct := range byCategory {
		totals = append(totals, *ct)
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].TotalAmount < totals[j].TotalAmount })
	return totals, nil
}

type fakeNoteStore struct {
	seq   int64
	notes map[int64]*model.Note
}

func newFakeNoteStore() *fakeNoteStore {
	return &fakeNoteStore{notes: make(map[int64]*model.Note)}
}

func (f *fakeNoteStore) ListByUser(_ context.Context, userID int64) ([]model.Note, error) {
	var list []model.Note
	for _, n := range f.notes {
		if n.UserID == userID {
			list = append(list, *n)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Pinned != list[j].Pinned {
			return list[i].Pinned
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

func (f *fakeNoteStore) GetByID(_ context.Context, userID, id int64) (*model.Note, error) {
	n, ok := f.notes[id]
	if !ok || n.UserID != userID {
		return nil, repository.ErrNoteNotFound
	}
	cp := *n
	return &cp, nil
}

func (f *fakeNoteStore) Create(_ context.Context, note *model.Note) error {
	f.seq++
	note.ID = f.seq
	note.CreatedAt = time.Now()
	cp := *note
	f.notes[note.ID] = &cp
	return nil
}

func (f *fakeNoteStore) Update(_ context.Context, note *model.Note) error {
	cp := *note
	f.notes[note.ID] = &cp
	return nil
}

func (f *fakeNoteStore) SetPinned(_ context.Context, userID, id int64, pinned bool) error {
	n, ok := f.notes[id]
	if !ok || n.UserID != userID {
		return repository.ErrNoteNotFound
	}
	n.Pinned = pinned
	return nil
}

func (f *fakeNoteStore) DeleteByIDs(_ context.Context, userID int64, ids []int64) error {
	for _, id := range ids {
		if n, ok := f.notes[id]; ok && n.UserID == userID {
			delete(f.notes, id)
		}
	}
	return nil
}

func (f *fakeNoteStore) DeleteByUser(_ context.Context, userID int64) error {
	for id, n := range f.notes {
		if n.UserID == userID {
			delete(f.notes, id)
		}
	}
	return nil
}

type fakeSummarizer struct {
	text       string
	err        error
	lastPrompt string
}

func (f *fakeSummarizer) Summarize(_ context.Context, prompt string) (string, error) {
	f.lastPrompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

type purgeRecorder struct {
	name string
	log  *[]string
}

func (p *purgeRecorder) PurgeUser(context.Context, int64) error {
	*p.log = append(*p.log, p.name)
	return nil
}

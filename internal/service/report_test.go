package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pennywise/pennywise-go/internal/model"
)

func newTestReportService(summarizer *fakeSummarizer) (*ReportService, *fakeTransactionStore, *fakeCategoryStore) {
	categories := newFakeCategoryStore()
	transactions := newFakeTransactionStore(categories)
	if summarizer == nil {
		summarizer = &fakeSummarizer{text: "summary"}
	}
	return NewReportService(transactions, summarizer), transactions, categories
}

func seedCategory(t *testing.T, categories *fakeCategoryStore, userID int64, name string) *model.Category {
	t.Helper()
	c := &model.Category{UserID: userID, Name: name, Icon: "tag", BgColour: "#cccccc"}
	require.NoError(t, categories.Create(context.Background(), c))
	return c
}

func seedTransaction(t *testing.T, store *fakeTransactionStore, userID, categoryID int64, amount float64, txType string, at time.Time) {
	t.Helper()
	require.NoError(t, store.Create(context.Background(), &model.Transaction{
		UserID:          userID,
		CategoryID:      categoryID,
		Amount:          signedAmount(amount, txType),
		TransactionType: txType,
		PaymentMethod:   "card",
		CreatedAt:       at,
	}))
}

func TestBalanceEmpty(t *testing.T) {
	svc, _, _ := newTestReportService(nil)

	balance, err := svc.Balance(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, model.Balance{}, balance)
}

func TestBalanceInvariant(t *testing.T) {
	svc, store, categories := newTestReportService(nil)
	c := seedCategory(t, categories, 1, "Misc")
	now := time.Now()

	seedTransaction(t, store, 1, c.ID, 1000, model.TypeIncome, now)
	seedTransaction(t, store, 1, c.ID, 300, model.TypeExpense, now)
	seedTransaction(t, store, 1, c.ID, 120.50, model.TypeExpense, now)

	balance, err := svc.Balance(context.Background(), 1)
	require.NoError(t, err)

	assert.InDelta(t, 1000, balance.Income, 1e-9)
	assert.InDelta(t, -420.50, balance.Expense, 1e-9)
	// balance == sum of sign-normalized amounts == income + expense
	assert.InDelta(t, balance.Income+balance.Expense, balance.Balance, 1e-9)
	assert.InDelta(t, 579.50, balance.Balance, 1e-9)
}

func TestStatsSingleExpense(t *testing.T) {
	svc, store, categories := newTestReportService(nil)
	c := seedCategory(t, categories, 1, "Groceries")

	seedTransaction(t, store, 1, c.ID, 50, model.TypeExpense,
		time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC))

	stats, err := svc.Stats(context.Background(), 1, 3, 2024)
	require.NoError(t, err)

	assert.InDelta(t, -50, stats.TotalAmount, 1e-9)
	assert.InDelta(t, 0, stats.Income, 1e-9)
	assert.InDelta(t, -50, stats.Expense, 1e-9)
}

func TestStatsScopedToMonth(t *testing.T) {
	svc, store, categories := newTestReportService(nil)
	c := seedCategory(t, categories, 1, "Misc")

	seedTransaction(t, store, 1, c.ID, 50, model.TypeExpense,
		time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC))
	seedTransaction(t, store, 1, c.ID, 75, model.TypeExpense,
		time.Date(2024, time.April, 2, 12, 0, 0, 0, time.UTC))

	stats, err := svc.Stats(context.Background(), 1, 4, 2024)
	require.NoError(t, err)
	assert.InDelta(t, -75, stats.TotalAmount, 1e-9)
}

func TestMonthViewPercentages(t *testing.T) {
	svc, store, categories := newTestReportService(nil)
	salary := seedCategory(t, categories, 1, "Salary")
	food := seedCategory(t, categories, 1, "Food")
	rent := seedCategory(t, categories, 1, "Rent")
	march := time.Date(2024, time.March, 5, 9, 0, 0, 0, time.UTC)

	seedTransaction(t, store, 1, salary.ID, 1000, model.TypeIncome, march)
	seedTransaction(t, store, 1, food.ID, 200, model.TypeExpense, march.Add(time.Hour))
	seedTransaction(t, store, 1, rent.ID, 600, model.TypeExpense, march.Add(2*time.Hour))

	view, err := svc.MonthView(context.Background(), 1, 3, 2024)
	require.NoError(t, err)

	assert.InDelta(t, 1000, view.Stats.Income, 1e-9)
	assert.InDelta(t, -800, view.Stats.Expense, 1e-9)
	assert.InDelta(t, 200, view.Stats.TotalAmount, 1e-9)

	// Category totals ascending: Rent (-600), Food (-200), Salary (1000).
	require.Len(t, view.Categories, 3)
	assert.Equal(t, "Rent", view.Categories[0].Name)
	assert.Equal(t, "Food", view.Categories[1].Name)
	assert.Equal(t, "Salary", view.Categories[2].Name)

	// Shares of income flip the sign of the stored total.
	assert.InDelta(t, 60, view.Categories[0].PercentageOfIncome, 1e-9)
	assert.InDelta(t, 20, view.Categories[1].PercentageOfIncome, 1e-9)
	assert.InDelta(t, 75, view.Categories[0].PercentageOfExpense, 1e-9)
	assert.InDelta(t, 25, view.Categories[1].PercentageOfExpense, 1e-9)

	// Transactions newest first.
	require.Len(t, view.Transactions, 3)
	assert.Equal(t, "Rent", view.Transactions[0].Category.Name)
	assert.Equal(t, "Salary", view.Transactions[2].Category.Name)
}

func TestMonthViewZeroIncomeNoDivision(t *testing.T) {
	svc, store, categories := newTestReportService(nil)
	food := seedCategory(t, categories, 1, "Food")

	seedTransaction(t, store, 1, food.ID, 80, model.TypeExpense,
		time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC))

	view, err := svc.MonthView(context.Background(), 1, 6, 2024)
	require.NoError(t, err)

	require.Len(t, view.Categories, 1)
	assert.Zero(t, view.Categories[0].PercentageOfIncome)
	assert.InDelta(t, 100, view.Categories[0].PercentageOfExpense, 1e-9)
}

func TestMonthViewEmptyMonth(t *testing.T) {
	svc, _, _ := newTestReportService(nil)

	view, err := svc.MonthView(context.Background(), 1, 1, 2024)
	require.NoError(t, err)

	assert.Zero(t, view.Stats.TotalAmount)
	assert.Empty(t, view.Transactions)
	assert.Empty(t, view.Categories)
}

func TestPercentageRounding(t *testing.T) {
	// 1/3 of the expense total must come back with exactly two decimals.
	totals := []model.CategoryTotal{{Name: "A", TotalAmount: -1}}
	stats := model.Stats{Expense: -3}

	breakdown := withPercentages(totals, stats)
	assert.InDelta(t, 33.33, breakdown[0].PercentageOfExpense, 1e-9)
}

func TestSummary(t *testing.T) {
	summarizer := &fakeSummarizer{text: "spending was stable"}
	svc, store, categories := newTestReportService(summarizer)
	food := seedCategory(t, categories, 1, "Food")

	seedTransaction(t, store, 1, food.ID, 90, model.TypeExpense,
		time.Date(2024, time.May, 3, 0, 0, 0, 0, time.UTC))
	seedTransaction(t, store, 1, food.ID, 40, model.TypeExpense,
		time.Date(2024, time.April, 20, 0, 0, 0, 0, time.UTC))

	resp, err := svc.Summary(context.Background(), 1, 5, 2024)
	require.NoError(t, err)
	assert.Equal(t, "spending was stable", resp.Summary)

	// The prompt embeds the aggregated JSON payload for both periods.
	assert.Contains(t, summarizer.lastPrompt, `"thisMonth"`)
	assert.Contains(t, summarizer.lastPrompt, `"lastMonth"`)
	assert.Contains(t, summarizer.lastPrompt, "Food")
}

func TestSummaryHasDataFlags(t *testing.T) {
	summarizer := &fakeSummarizer{text: "ok"}
	svc, store, categories := newTestReportService(summarizer)
	food := seedCategory(t, categories, 1, "Food")

	// Data in May only; April is empty.
	seedTransaction(t, store, 1, food.ID, 90, model.TypeExpense,
		time.Date(2024, time.May, 3, 0, 0, 0, 0, time.UTC))

	_, err := svc.Summary(context.Background(), 1, 5, 2024)
	require.NoError(t, err)

	assert.Contains(t, summarizer.lastPrompt, `"hasData": true`)
	assert.Contains(t, summarizer.lastPrompt, `"hasData": false`)
}

func TestSummaryJanuaryWrapsToPriorDecember(t *testing.T) {
	summarizer := &fakeSummarizer{text: "ok"}
	svc, store, categories := newTestReportService(summarizer)
	food := seedCategory(t, categories, 1, "Food")

	seedTransaction(t, store, 1, food.ID, 25, model.TypeExpense,
		time.Date(2023, time.December, 28, 0, 0, 0, 0, time.UTC))

	_, err := svc.Summary(context.Background(), 1, 1, 2024)
	require.NoError(t, err)

	// December 2023 shows up as the previous period with data.
	assert.Contains(t, summarizer.lastPrompt, `"hasData": true`)
}

func TestPreviousPeriod(t *testing.T) {
	m, y := previousPeriod(5, 2024)
	assert.Equal(t, 4, m)
	assert.Equal(t, 2024, y)

	m, y = previousPeriod(1, 2024)
	assert.Equal(t, 12, m)
	assert.Equal(t, 2023, y)
}

func TestSummaryUpstreamFailure(t *testing.T) {
	summarizer := &fakeSummarizer{err: errors.New("quota exceeded")}
	svc, _, _ := newTestReportService(summarizer)

	_, err := svc.Summary(context.Background(), 1, 5, 2024)
	assert.ErrorIs(t, err, ErrSummaryFailed)
}

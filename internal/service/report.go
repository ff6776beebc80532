package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/pennywise/pennywise-go/internal/model"
)

var ErrSummaryFailed = errors.New("summary generation failed")

// ReportStore is the aggregate read surface the reporting engine needs.
type ReportStore interface {
	BalanceTotals(ctx context.Context, userID int64) (model.Balance, error)
	MonthStats(ctx context.Context, userID int64, month, year int) (model.Stats, bool, error)
	ListByMonth(ctx context.Context, userID int64, month, year int) ([]model.TransactionWithCategory, error)
	MonthCategoryTotals(ctx context.Context, userID int64, month, year int) ([]model.CategoryTotal, error)
}

// Summarizer generates a plain-text summary from a prompt.
type Summarizer interface {
	Summarize(ctx context.Context, prompt string) (string, error)
}

// ReportService aggregates transactions into balances, monthly stats and
// category breakdowns, and delegates natural-language summaries to an
// external text-generation service.
type ReportService struct {
	store      ReportStore
	summarizer Summarizer
}

// NewReportService creates a new ReportService.
func NewReportService(store ReportStore, summarizer Summarizer) *ReportService {
	return &ReportService{store: store, summarizer: summarizer}
}

// Balance returns the user's all-time income/expense totals. Zero-valued
// when no transactions exist.
func (s *ReportService) Balance(ctx context.Context, userID int64) (model.Balance, error) {
	return s.store.BalanceTotals(ctx, userID)
}

// Stats returns the income/expense split for one calendar month.
func (s *ReportService) Stats(ctx context.Context, userID int64, month, year int) (model.Stats, error) {
	stats, _, err := s.store.MonthStats(ctx, userID, month, year)
	return stats, err
}

// round2 rounds to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// withPercentages attaches each category's share of the month's income
// and expense totals. A zero denominator yields 0 rather than dividing.
// Income shares flip the sign because category totals follow the expense
// convention relative to the income total.
func withPercentages(totals []model.CategoryTotal, stats model.Stats) []model.CategoryBreakdown {
	breakdown := make([]model.CategoryBreakdown, len(totals))
	for i, ct := range totals {
		b := model.CategoryBreakdown{CategoryTotal: ct}
		if stats.Income != 0 {
			b.PercentageOfIncome = round2(ct.TotalAmount * -1 / stats.Income * 100)
		}
		if stats.Expense != 0 {
			b.PercentageOfExpense = round2(ct.TotalAmount / stats.Expense * 100)
		}
		breakdown[i] = b
	}
	return breakdown
}

// MonthView assembles the full report for one month. The three aggregates
// read disjoint shards, so they are issued concurrently and awaited
// jointly.
func (s *ReportService) MonthView(ctx context.Context, userID int64, month, year int) (model.MonthView, error) {
	var (
		stats        model.Stats
		transactions []model.TransactionWithCategory
		totals       []model.CategoryTotal
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats, _, err = s.store.MonthStats(gctx, userID, month, year)
		return err
	})
	g.Go(func() error {
		var err error
		transactions, err = s.store.ListByMonth(gctx, userID, month, year)
		return err
	})
	g.Go(func() error {
		var err error
		totals, err = s.store.MonthCategoryTotals(gctx, userID, month, year)
		return err
	})
	if err := g.Wait(); err != nil {
		return model.MonthView{}, err
	}

	return model.MonthView{
		Stats:        stats,
		Transactions: transactions,
		Categories:   withPercentages(totals, stats),
	}, nil
}

// previousPeriod maps a month to the one before it, wrapping January back
// to December of the prior year.
func previousPeriod(month, year int) (int, int) {
	if month > 1 {
		return month - 1, year
	}
	return 12, year - 1
}

const summaryPromptTemplate = `## Context
You are a financial assistant helping a user understand their monthly spending.

## Task
Generate a concise and insightful summary of the user's financial transactions for the current month, based on the provided JSON data.

## Data
Here is the JSON data of the user's transactions for the current month and the previous month:
%s

## Instructions

1.  **Focus on Key Metrics:** Analyze the data and highlight important trends, such as total income, total expenses, key spending categories (e.g., groceries, entertainment, utilities), and any significant changes in these categories compared to the previous month.
2.  **Comparative Analysis:** Compare the current month's spending and income with the previous month's. Identify any substantial increases or decreases and explain the potential reasons (if discernible from the data). For example, "Spending on entertainment increased by 20%% this month compared to last month."
3.  **Insights & Explanations:** Provide context and potential explanations for significant changes. Don't assume knowledge the user doesn't have. For example, If there is a big income then explain that the user received a bonus of x amount.
4.  **Concise Summary:** Keep the summary brief and to the point. Aim for 3-4 short/medium paragraphs.
5.  **Currency:** Use the rupee symbol (₹) to represent currency in the summary.
6.  **Plain Text Output:** The summary should be plain text only, formatted into paragraphs. Do *not* include any special characters like "#", "*", or markdown formatting. It should be directly renderable in a user interface.
7.  **Don't:** Do not provide any investment advice or personal opinions. Stick to reporting on the data. Do not include any HTML elements. Do not repeat the data already provided in the json.
`

// summaryPeriod gathers one month's stats and breakdown concurrently.
func (s *ReportService) summaryPeriod(ctx context.Context, userID int64, month, year int) (model.SummaryPeriod, error) {
	var (
		stats   model.Stats
		hasData bool
		totals  []model.CategoryTotal
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats, hasData, err = s.store.MonthStats(gctx, userID, month, year)
		return err
	})
	g.Go(func() error {
		var err error
		totals, err = s.store.MonthCategoryTotals(gctx, userID, month, year)
		return err
	})
	if err := g.Wait(); err != nil {
		return model.SummaryPeriod{}, err
	}

	return model.SummaryPeriod{
		Balance:    stats.TotalAmount,
		Income:     stats.Income,
		Expense:    stats.Expense,
		HasData:    hasData,
		Categories: withPercentages(totals, stats),
	}, nil
}

// Summary builds the aggregate payload for the requested month and the
// month before it, then asks the text-generation service for a plain-text
// summary. The external call is a single attempt; any failure maps to
// ErrSummaryFailed.
func (s *ReportService) Summary(ctx context.Context, userID int64, month, year int) (model.SummaryResponse, error) {
	prevMonth, prevYear := previousPeriod(month, year)

	var thisMonth, lastMonth model.SummaryPeriod

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		thisMonth, err = s.summaryPeriod(gctx, userID, month, year)
		return err
	})
	g.Go(func() error {
		var err error
		lastMonth, err = s.summaryPeriod(gctx, userID, prevMonth, prevYear)
		return err
	})
	if err := g.Wait(); err != nil {
		return model.SummaryResponse{}, err
	}

	data := model.SummaryData{ThisMonth: thisMonth, LastMonth: lastMonth}

	payload, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return model.SummaryResponse{}, err
	}

	prompt := fmt.Sprintf(summaryPromptTemplate, payload)

	text, err := s.summarizer.Summarize(ctx, prompt)
	if err != nil {
		slog.Error("summary generation failed", "error", err, "month", month, "year", year)
		return model.SummaryResponse{}, ErrSummaryFailed
	}

	return model.SummaryResponse{Summary: text}, nil
}

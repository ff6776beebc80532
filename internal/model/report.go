package model

// Balance is the all-time income/expense split for a user. Expense is
// stored negative, so Balance == Income + Expense.
type Balance struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Balance float64 `json:"balance"`
}

// Stats is the income/expense split for a single calendar month.
type Stats struct {
	TotalAmount float64 `json:"totalAmount"`
	Income      float64 `json:"income"`
	Expense     float64 `json:"expense"`
}

// CategoryTotal is a per-category aggregate over a month's transactions.
type CategoryTotal struct {
	CategoryID  int64   `json:"id"`
	Name        string  `json:"name"`
	Icon        string  `json:"icon"`
	BgColour    string  `json:"bgColour"`
	TotalAmount float64 `json:"totalAmount"`
	Count       int     `json:"count"`
}

// CategoryBreakdown extends a CategoryTotal with its share of the month's
// income and expense totals, rounded to two decimals.
type CategoryBreakdown struct {
	CategoryTotal
	PercentageOfIncome  float64 `json:"percentageOfIncome"`
	PercentageOfExpense float64 `json:"percentageOfExpense"`
}

// MonthView is the full report for one month: scalar stats, the raw
// transaction list and the per-category breakdown.
type MonthView struct {
	Stats        Stats                     `json:"stats"`
	Transactions []TransactionWithCategory `json:"transactions"`
	Categories   []CategoryBreakdown       `json:"categories"`
}

// MonthGroup is one calendar month's worth of transactions in the grouped
// multi-month listing, newest month first.
type MonthGroup struct {
	Year        int                       `json:"year"`
	Month       int                       `json:"month"`
	TotalAmount float64                   `json:"totalAmount"`
	Data        []TransactionWithCategory `json:"data"`
}

// SummaryPeriod is the aggregate payload for one month of the
// summarization request.
type SummaryPeriod struct {
	Balance    float64             `json:"balance"`
	Income     float64             `json:"income"`
	Expense    float64             `json:"expense"`
	HasData    bool                `json:"hasData"`
	Categories []CategoryBreakdown `json:"categories"`
}

// SummaryData is the structured payload sent to the text-generation
// service: the requested month plus the month before it.
type SummaryData struct {
	ThisMonth SummaryPeriod `json:"thisMonth"`
	LastMonth SummaryPeriod `json:"lastMonth"`
}

// SummaryResponse wraps the generated plain-text summary.
type SummaryResponse struct {
	Summary string `json:"summary"`
}

package model

import "time"

// Transaction types. The stored amount is sign-normalized at write time:
// positive for income, negative for expense, so summing amounts yields a
// balance directly.
const (
	TypeIncome  = "Income"
	TypeExpense = "Expense"
)

// Transaction represents a financial record owned by a user.
type Transaction struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"-"`
	CategoryID      int64     `json:"category"`
	Amount          float64   `json:"amount"`
	PaymentMethod   string    `json:"paymentMethod"`
	TransactionType string    `json:"transactionType"`
	Description     string    `json:"description,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// TransactionRequest creates or replaces a transaction. Amount arrives
// unsigned; the service applies the sign convention from TransactionType.
type TransactionRequest struct {
	Category        int64     `json:"category"`
	Amount          float64   `json:"amount"`
	PaymentMethod   string    `json:"paymentMethod"`
	TransactionType string    `json:"transactionType"`
	Description     string    `json:"description"`
	CreatedAt       time.Time `json:"createdAt"`
}

// DeleteRequest carries the ids for a bulk delete.
type DeleteRequest struct {
	IDs []int64 `json:"ids"`
}

// TransactionWithCategory is a transaction joined with its category's
// display fields, as returned by listings.
type TransactionWithCategory struct {
	ID              int64       `json:"id"`
	Amount          float64     `json:"amount"`
	PaymentMethod   string      `json:"paymentMethod"`
	TransactionType string      `json:"transactionType"`
	Description     string      `json:"description,omitempty"`
	CreatedAt       time.Time   `json:"createdAt"`
	Category        CategoryRef `json:"category"`
}

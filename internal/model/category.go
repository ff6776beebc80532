package model

import "time"

// Category represents a user-defined transaction category.
type Category struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"-"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon"`
	BgColour  string    `json:"bgColour"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CategoryRequest creates or replaces a category.
type CategoryRequest struct {
	Name     string `json:"name"`
	Icon     string `json:"icon"`
	BgColour string `json:"bgColour"`
}

// CategoryRef is the category projection embedded in transaction listings.
type CategoryRef struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Icon     string `json:"icon"`
	BgColour string `json:"bgColour"`
}

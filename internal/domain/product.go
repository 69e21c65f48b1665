package domain

import "github.com/shopspring/decimal"

// Product is a read-only catalog entry.
type Product struct {
	ID          uint64          `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	ImageURL    string          `json:"imageUrl"`
}

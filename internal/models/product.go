package models

import "github.com/shopspring/decimal"

// PricePlaces is the number of fraction digits kept for a product price.
const PricePlaces = 2

// Product represents a product entity in the inventory system.
type Product struct {
	ID       int             `json:"id"`
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

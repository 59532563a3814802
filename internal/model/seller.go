package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Seller deposits games and accumulates AmountOwed as they sell.
type Seller struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Phone      string          `json:"phone,omitempty"`
	AmountOwed decimal.Decimal `json:"amountOwed"`
	CreatedAt  time.Time       `json:"createdAt"`
}

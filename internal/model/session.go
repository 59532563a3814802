package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Session is a bounded sale event. SaleCommission is the fraction of the
// sale price kept by the operator (0.1 means ten percent).
type Session struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Location       string          `json:"location,omitempty"`
	StartDate      time.Time       `json:"startDate"`
	EndDate        time.Time       `json:"endDate"`
	SaleCommission decimal.Decimal `json:"saleCommission"`
	DepositFee     decimal.Decimal `json:"depositFee"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// IsOpenAt reports whether t falls inside [StartDate, EndDate].
func (s *Session) IsOpenAt(t time.Time) bool {
	return !t.Before(s.StartDate) && !t.After(s.EndDate)
}

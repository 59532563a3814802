package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DepositedGame (a "label") is one seller's copy of a game consigned to a
// session at a fixed price.
//
// Lifecycle: deposited (all flags false) -> listed (ForSale) -> sold (Sold,
// not ForSale) or picked up (PickedUp, not ForSale; terminal). PickedUp and
// ForSale are never both true.
type DepositedGame struct {
	ID                string          `json:"id"`
	SessionID         string          `json:"sessionId"`
	SellerID          string          `json:"sellerId"`
	GameDescriptionID string          `json:"gameDescriptionId"`
	SalePrice         decimal.Decimal `json:"salePrice"`
	ForSale           bool            `json:"forSale"`
	PickedUp          bool            `json:"pickedUp"`
	Sold              bool            `json:"sold"`
	CreatedAt         time.Time       `json:"createdAt"`
}

// Available reports whether the game can be sold right now.
func (g *DepositedGame) Available() bool {
	return g.ForSale && !g.PickedUp && !g.Sold
}

// SessionRef is the slice of a session shown next to a deposited game.
type SessionRef struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	StartDate      time.Time       `json:"startDate"`
	EndDate        time.Time       `json:"endDate"`
	SaleCommission decimal.Decimal `json:"saleCommission"`
}

// PartyRef is the name and email of a seller or client.
type PartyRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// DepositedGameDetail is a deposited game with its references resolved.
type DepositedGameDetail struct {
	DepositedGame
	Session         SessionRef      `json:"session"`
	Seller          PartyRef        `json:"seller"`
	GameDescription GameDescription `json:"gameDescription"`
}

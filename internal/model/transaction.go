package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction records one completed sale of a deposited game.
type Transaction struct {
	ID              string    `json:"id"`
	LabelID         string    `json:"labelId"`
	SessionID       string    `json:"sessionId"`
	SellerID        string    `json:"sellerId"`
	ClientID        string    `json:"clientId"`
	ManagerID       string    `json:"managerId"`
	TransactionDate time.Time `json:"transactionDate"`
}

// LabelRef summarizes the sold game.
type LabelRef struct {
	ID        string          `json:"id"`
	SalePrice decimal.Decimal `json:"salePrice"`
	GameName  string          `json:"gameName"`
}

// ManagerRef names the manager who recorded a sale.
type ManagerRef struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// TransactionDetail is a transaction with its references resolved. Refs
// whose target has since been deleted are left zero.
type TransactionDetail struct {
	Transaction
	Label       LabelRef   `json:"label"`
	SessionName string     `json:"sessionName"`
	Seller      PartyRef   `json:"seller"`
	Client      PartyRef   `json:"client"`
	Manager     ManagerRef `json:"manager"`
}

// Package queue carries sale events over RabbitMQ: the payload, a publisher
// used by the transaction workflow and a consumer that keeps a sales ledger.
package queue

// SaleCompletedQueue is the durable queue sale events are routed to.
const SaleCompletedQueue = "sale.completed"

// SaleCompletedEvent is published once per committed sale. It carries enough
// for downstream consumers to log or report without querying the database.
// Money fields are decimal strings.
type SaleCompletedEvent struct {
	TransactionID string `json:"transaction_id"`
	LabelID       string `json:"label_id"`
	SessionID     string `json:"session_id"`
	SellerID      string `json:"seller_id"`
	ClientID      string `json:"client_id,omitempty"`
	ManagerID     string `json:"manager_id"`
	Mode          string `json:"mode"`
	SalePrice     string `json:"sale_price"`
	Commission    string `json:"commission"`
	SellerPayout  string `json:"seller_payout"`
	SoldAt        string `json:"sold_at"`
}

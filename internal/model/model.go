// Package model holds the entities of the consignment domain. Field names in
// JSON follow the camelCase used by the front end.
package model

import "github.com/shopspring/decimal"

func init() {
	// Money goes over the wire as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

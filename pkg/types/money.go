package types

import "github.com/shopspring/decimal"

func init() {
	// Prices are rendered as JSON numbers for the storefront UI.
	decimal.MarshalJSONWithoutQuotes = true
}

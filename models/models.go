package models

import "github.com/shopspring/decimal"

func init() {
	// Money goes over the wire as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// All returns every model in migration order
func All() []interface{} {
	return []interface{}{
		&User{},
		&Category{},
		&Subcategory{},
		&Food{},
		&CartLine{},
		&Order{},
		&OrderItem{},
		&OrderHistoryEntry{},
		&Notification{},
		&Address{},
	}
}

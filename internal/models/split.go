package models

import "github.com/shopspring/decimal"

// Person represents a participant who may be assigned items and owes a share.
type Person struct {
	// ID is the unique identifier for the person (UUID format).
	ID string

	// Name is the display name, trimmed and never empty.
	Name string

	// Color is the palette colour assigned when the person was added.
	Color string
}

// Item represents a single purchasable line on the bill.
// Items can be shared among multiple people.
type Item struct {
	// ID is the unique identifier for the item (UUID format).
	ID string

	// Name is the description of the item (e.g., "Bandeja paisa").
	Name string

	// UnitPrice is the price of one unit in the smallest currency unit.
	UnitPrice int64

	// Quantity is the number of units, always >= 1.
	Quantity int

	// AssignedTo holds the IDs of the people sharing this item.
	// An empty list excludes the item from the bill until someone claims it.
	AssignedTo []string
}

// Limits accepted for a single item line.
const (
	MaxUnitPrice = 1_000_000_000_000
	MaxQuantity  = 9_999
)

// LineTotal returns UnitPrice × Quantity.
func (i Item) LineTotal() decimal.Decimal {
	return decimal.NewFromInt(i.UnitPrice).Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// IsAssigned reports whether at least one person shares the item.
func (i Item) IsAssigned() bool {
	return len(i.AssignedTo) > 0
}

// ItemShare is one person's share of one item.
type ItemShare struct {
	Item  Item
	Share decimal.Decimal
}

// PersonSplit represents one person's calculated share of a bill.
// This is the output of the split calculation algorithm.
type PersonSplit struct {
	Person Person

	// Subtotal is the sum of this person's item shares.
	Subtotal decimal.Decimal

	// Tax is computed from Subtotal with the bill's tax mode. In tax-included
	// mode it is informational and not part of Total.
	Tax decimal.Decimal

	// Tip is the bill tip scaled by Subtotal / bill subtotal.
	Tip decimal.Decimal

	// Total is what this person owes. Never rounded to 100.
	Total decimal.Decimal

	// Items lists the items assigned to this person with their share amounts.
	Items []ItemShare
}

// BillSummary is the read-only result of the allocation engine for one snapshot.
type BillSummary struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Tip      decimal.Decimal

	// Total is the exact bill total; PerPerson totals sum to this value.
	Total decimal.Decimal

	// DisplayTotal is Total rounded to the nearest 100 for presentation.
	DisplayTotal decimal.Decimal

	// PerPerson follows the people insertion order. People without items are kept.
	PerPerson []PersonSplit
}

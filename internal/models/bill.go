package models

// Snapshot is an immutable copy of a bill's items, people and config.
// Slices are owned by the snapshot; callers must not share them with a store.
type Snapshot struct {
	Items  []Item
	People []Person
	Config BillConfig
}

// Bill represents a persisted bill.
type Bill struct {
	// ID is the unique identifier for the bill (UUID format).
	ID string

	// Title is the human-readable name for the bill.
	// Auto-generated from the people on the bill when empty.
	Title string

	// Currency is the ISO code reported by the scanner, "COP" by default.
	Currency string

	// Step is the wizard step the bill is on (1..6).
	Step int

	People []Person
	Items  []Item
	Config BillConfig

	// CreatedAt and UpdatedAt are Unix timestamps.
	CreatedAt int64
	UpdatedAt int64
}

// Snapshot returns a deep copy of the bill's allocation inputs.
func (b *Bill) Snapshot() Snapshot {
	return Snapshot{
		Items:  CloneItems(b.Items),
		People: append([]Person(nil), b.People...),
		Config: b.Config,
	}
}

// CloneItems deep-copies items including their assignee lists.
func CloneItems(items []Item) []Item {
	out := make([]Item, len(items))
	for i, item := range items {
		out[i] = item
		out[i].AssignedTo = append([]string(nil), item.AssignedTo...)
	}
	return out
}

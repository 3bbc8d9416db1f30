// Package bill holds the mutable state of one bill being split: people,
// items, the item→people assignment relation and the tax/tip config.
//
// A Store has a single logical writer and does no locking of its own.
// Readers take a Snapshot and hand it to the calculator.
package bill

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/mmynk/splitbill/internal/models"
)

// ItemPatch carries the fields to change on an item. Nil fields are kept.
type ItemPatch struct {
	Name      *string
	UnitPrice *int64
	Quantity  *int
}

type itemRecord struct {
	id        string
	name      string
	unitPrice int64
	quantity  int
}

// Store is the authoritative state of a bill.
type Store struct {
	people []models.Person
	items  []itemRecord

	// assignments maps item ID to the set of person IDs sharing it.
	assignments map[string]map[string]struct{}

	config  models.BillConfig
	step    Step
	version uint64

	newID func() string
}

// New creates an empty bill with the default config on the first step.
func New() *Store {
	return &Store{
		assignments: make(map[string]map[string]struct{}),
		config:      models.DefaultConfig(),
		step:        StepEntry,
		newID:       func() string { return uuid.New().String() },
	}
}

// FromModel rebuilds a store from a persisted bill. Assignments to people
// that are not on the bill are dropped.
func FromModel(b *models.Bill) *Store {
	s := New()
	s.people = append(s.people, b.People...)
	s.config = b.Config
	if step := Step(b.Step); step.Valid() {
		s.step = step
	}

	known := s.personSet()
	for _, item := range b.Items {
		s.items = append(s.items, itemRecord{
			id:        item.ID,
			name:      item.Name,
			unitPrice: item.UnitPrice,
			quantity:  item.Quantity,
		})
		set := make(map[string]struct{}, len(item.AssignedTo))
		for _, pid := range item.AssignedTo {
			if _, ok := known[pid]; ok {
				set[pid] = struct{}{}
			}
		}
		s.assignments[item.ID] = set
	}
	return s
}

// Version increases on every successful mutation. A summary computed at one
// version is stale at any other.
func (s *Store) Version() uint64 {
	return s.version
}

func (s *Store) touch() {
	s.version++
}

// Step returns the current wizard step.
func (s *Store) Step() Step {
	return s.step
}

// SetStep moves the wizard to step.
func (s *Store) SetStep(step Step) error {
	if !step.Valid() {
		return invalid("step", "must be between 1 and 6")
	}
	if step != s.step {
		s.step = step
		s.touch()
	}
	return nil
}

// NextStep advances the wizard, stopping at the result step.
func (s *Store) NextStep() Step {
	_ = s.SetStep(s.step.Next())
	return s.step
}

// PrevStep moves the wizard back, stopping at the entry step.
func (s *Store) PrevStep() Step {
	_ = s.SetStep(s.step.Prev())
	return s.step
}

// Config returns the current bill config.
func (s *Store) Config() models.BillConfig {
	return s.config
}

// People returns the people in insertion order.
func (s *Store) People() []models.Person {
	return append([]models.Person(nil), s.people...)
}

// AddPerson appends a person named name and gives them the next palette colour.
func (s *Store) AddPerson(name string) (models.Person, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Person{}, invalid("name", "must not be empty")
	}

	p := models.Person{
		ID:    s.newID(),
		Name:  name,
		Color: models.ColorFor(len(s.people)),
	}
	s.people = append(s.people, p)
	s.touch()
	return p, nil
}

// RemovePerson deletes the person and drops them from every item's assignees.
// Unknown IDs are ignored.
func (s *Store) RemovePerson(id string) {
	idx := s.personIndex(id)
	if idx < 0 {
		return
	}
	s.people = append(s.people[:idx], s.people[idx+1:]...)
	for _, set := range s.assignments {
		delete(set, id)
	}
	s.touch()
}

// AddItem appends an item with no assignees.
func (s *Store) AddItem(name string, unitPrice int64, quantity int) (models.Item, error) {
	rec := itemRecord{
		id:        s.newID(),
		name:      strings.TrimSpace(name),
		unitPrice: unitPrice,
		quantity:  quantity,
	}
	if err := validateItem(rec); err != nil {
		return models.Item{}, err
	}

	s.items = append(s.items, rec)
	s.assignments[rec.id] = make(map[string]struct{})
	s.touch()
	return s.item(rec), nil
}

// ImportItems replaces the item list with items from the scanner. Every item
// gets a fresh ID and starts unassigned. Nothing changes if any item is invalid.
func (s *Store) ImportItems(items []models.Item) ([]models.Item, error) {
	recs := make([]itemRecord, 0, len(items))
	for _, item := range items {
		rec := itemRecord{
			id:        s.newID(),
			name:      strings.TrimSpace(item.Name),
			unitPrice: item.UnitPrice,
			quantity:  item.Quantity,
		}
		if err := validateItem(rec); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}

	s.items = recs
	s.assignments = make(map[string]map[string]struct{}, len(recs))
	out := make([]models.Item, len(recs))
	for i, rec := range recs {
		s.assignments[rec.id] = make(map[string]struct{})
		out[i] = s.item(rec)
	}
	s.touch()
	return out, nil
}

// UpdateItem applies patch to the item. The item is left unchanged if the
// patched values are invalid.
func (s *Store) UpdateItem(id string, patch ItemPatch) (models.Item, error) {
	idx := s.itemIndex(id)
	if idx < 0 {
		return models.Item{}, ErrItemNotFound
	}

	rec := s.items[idx]
	if patch.Name != nil {
		rec.name = strings.TrimSpace(*patch.Name)
	}
	if patch.UnitPrice != nil {
		rec.unitPrice = *patch.UnitPrice
	}
	if patch.Quantity != nil {
		rec.quantity = *patch.Quantity
	}
	if err := validateItem(rec); err != nil {
		return models.Item{}, err
	}

	s.items[idx] = rec
	s.touch()
	return s.item(rec), nil
}

// RemoveItem deletes the item. Unknown IDs are ignored.
func (s *Store) RemoveItem(id string) {
	idx := s.itemIndex(id)
	if idx < 0 {
		return
	}
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	delete(s.assignments, id)
	s.touch()
}

// AssignPerson adds personID to the item's assignees.
// It is a no-op when either ID is unknown or the person is already assigned.
func (s *Store) AssignPerson(itemID, personID string) {
	set, ok := s.assignments[itemID]
	if !ok || s.personIndex(personID) < 0 {
		return
	}
	if _, assigned := set[personID]; assigned {
		return
	}
	set[personID] = struct{}{}
	s.touch()
}

// UnassignPerson removes personID from the item's assignees.
func (s *Store) UnassignPerson(itemID, personID string) {
	set, ok := s.assignments[itemID]
	if !ok {
		return
	}
	if _, assigned := set[personID]; !assigned {
		return
	}
	delete(set, personID)
	s.touch()
}

// AssignAll assigns the item to everyone currently on the bill.
func (s *Store) AssignAll(itemID string) {
	if _, ok := s.assignments[itemID]; !ok {
		return
	}
	set := make(map[string]struct{}, len(s.people))
	for _, p := range s.people {
		set[p.ID] = struct{}{}
	}
	s.assignments[itemID] = set
	s.touch()
}

// SetTaxPercent sets the tax rate.
func (s *Store) SetTaxPercent(percent float64) error {
	if err := validatePercent("tax_percent", percent); err != nil {
		return err
	}
	s.config.TaxPercent = percent
	s.touch()
	return nil
}

// SetTaxIncluded selects whether prices already include tax.
func (s *Store) SetTaxIncluded(included bool) {
	s.config.TaxIncluded = included
	s.touch()
}

// SetTipType selects percent or fixed tipping.
func (s *Store) SetTipType(t models.TipType) error {
	if !t.Valid() {
		return invalid("tip_type", "must be percent or fixed")
	}
	s.config.TipType = t
	s.touch()
	return nil
}

// SetTipPercent sets the tip rate used in percent mode.
func (s *Store) SetTipPercent(percent float64) error {
	if err := validatePercent("tip_percent", percent); err != nil {
		return err
	}
	s.config.TipPercent = percent
	s.touch()
	return nil
}

// SetTipAmount sets the tip used in fixed mode.
func (s *Store) SetTipAmount(amount int64) error {
	if amount < 0 {
		return invalid("tip_amount", "must not be negative")
	}
	s.config.TipAmount = amount
	s.touch()
	return nil
}

// SetTipVoluntary flags the tip as optional.
func (s *Store) SetTipVoluntary(voluntary bool) {
	s.config.TipIsVoluntary = voluntary
	s.touch()
}

// SetConfig replaces the whole config after validating it.
func (s *Store) SetConfig(cfg models.BillConfig) error {
	if err := ValidateConfig(cfg); err != nil {
		return err
	}
	s.config = cfg
	s.touch()
	return nil
}

// Reset clears people and items and restores the default config.
func (s *Store) Reset() {
	s.people = nil
	s.items = nil
	s.assignments = make(map[string]map[string]struct{})
	s.config = models.DefaultConfig()
	s.step = StepEntry
	s.touch()
}

// Snapshot returns a deep copy of the allocation inputs. Assignees are listed
// in people insertion order.
func (s *Store) Snapshot() models.Snapshot {
	items := make([]models.Item, len(s.items))
	for i, rec := range s.items {
		items[i] = s.item(rec)
	}
	return models.Snapshot{
		Items:  items,
		People: s.People(),
		Config: s.config,
	}
}

// ToModel copies the store into bill for persistence, keeping bill's
// identity fields.
func (s *Store) ToModel(b *models.Bill) {
	snap := s.Snapshot()
	b.People = snap.People
	b.Items = snap.Items
	b.Config = snap.Config
	b.Step = int(s.step)
}

// ValidateConfig checks every numeric field of cfg.
func ValidateConfig(cfg models.BillConfig) error {
	if err := validatePercent("tax_percent", cfg.TaxPercent); err != nil {
		return err
	}
	if err := validatePercent("tip_percent", cfg.TipPercent); err != nil {
		return err
	}
	if !cfg.TipType.Valid() {
		return invalid("tip_type", "must be percent or fixed")
	}
	if cfg.TipAmount < 0 {
		return invalid("tip_amount", "must not be negative")
	}
	return nil
}

func (s *Store) item(rec itemRecord) models.Item {
	item := models.Item{
		ID:        rec.id,
		Name:      rec.name,
		UnitPrice: rec.unitPrice,
		Quantity:  rec.quantity,
	}
	set := s.assignments[rec.id]
	for _, p := range s.people {
		if _, ok := set[p.ID]; ok {
			item.AssignedTo = append(item.AssignedTo, p.ID)
		}
	}
	return item
}

func (s *Store) personIndex(id string) int {
	for i, p := range s.people {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) itemIndex(id string) int {
	for i, rec := range s.items {
		if rec.id == id {
			return i
		}
	}
	return -1
}

func (s *Store) personSet() map[string]struct{} {
	set := make(map[string]struct{}, len(s.people))
	for _, p := range s.people {
		set[p.ID] = struct{}{}
	}
	return set
}

func validateItem(rec itemRecord) error {
	if rec.name == "" {
		return invalid("name", "must not be empty")
	}
	if rec.unitPrice <= 0 {
		return invalid("unit_price", "must be greater than zero")
	}
	if rec.unitPrice > models.MaxUnitPrice {
		return invalid("unit_price", fmt.Sprintf("must be at most %d", int64(models.MaxUnitPrice)))
	}
	if rec.quantity < 1 {
		return invalid("quantity", "must be at least 1")
	}
	if rec.quantity > models.MaxQuantity {
		return invalid("quantity", fmt.Sprintf("must be at most %d", models.MaxQuantity))
	}
	return nil
}

func validatePercent(field string, v float64) error {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return invalid(field, "must be a non-negative number")
	}
	return nil
}

package bill

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitbill/internal/models"
)

// newTestStore returns a store with predictable IDs (id-1, id-2, ...).
func newTestStore() *Store {
	s := New()
	n := 0
	s.newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	return s
}

func TestAddPerson(t *testing.T) {
	s := newTestStore()

	alice, err := s.AddPerson("  Alice ")
	require.NoError(t, err)
	assert.Equal(t, "Alice", alice.Name)
	assert.Equal(t, models.PersonColors[0], alice.Color)

	bob, err := s.AddPerson("Bob")
	require.NoError(t, err)
	assert.Equal(t, models.PersonColors[1], bob.Color)

	people := s.People()
	require.Len(t, people, 2)
	assert.Equal(t, "Alice", people[0].Name)
	assert.Equal(t, "Bob", people[1].Name)
}

func TestAddPerson_BlankNameRejected(t *testing.T) {
	s := newTestStore()
	before := s.Version()

	_, err := s.AddPerson("   ")
	require.ErrorIs(t, err, ErrValidation)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Field)
	assert.Empty(t, s.People())
	assert.Equal(t, before, s.Version())
}

func TestAddPerson_PaletteWraps(t *testing.T) {
	s := newTestStore()
	var last models.Person
	for i := 0; i <= len(models.PersonColors); i++ {
		p, err := s.AddPerson(fmt.Sprintf("P%d", i))
		require.NoError(t, err)
		last = p
	}
	assert.Equal(t, models.PersonColors[0], last.Color)
}

func TestAddItem_Validation(t *testing.T) {
	tests := []struct {
		name      string
		itemName  string
		unitPrice int64
		quantity  int
		field     string
	}{
		{"empty name", " ", 1000, 1, "name"},
		{"zero price", "Arepa", 0, 1, "unit_price"},
		{"negative price", "Arepa", -5, 1, "unit_price"},
		{"zero quantity", "Arepa", 1000, 0, "quantity"},
		{"price above limit", "Caviar", 5_000_000_000_000_000_000, 2, "unit_price"},
		{"quantity above limit", "Arepa", 1000, models.MaxQuantity + 1, "quantity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore()
			_, err := s.AddItem(tt.itemName, tt.unitPrice, tt.quantity)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.Empty(t, s.Snapshot().Items)
		})
	}
}

func TestAddItem_StartsUnassigned(t *testing.T) {
	s := newTestStore()
	item, err := s.AddItem("Limonada", 8000, 2)
	require.NoError(t, err)
	assert.Empty(t, item.AssignedTo)
	assert.Equal(t, "16000", item.LineTotal().String())
}

func TestAssignments(t *testing.T) {
	s := newTestStore()
	alice, _ := s.AddPerson("Alice")
	bob, _ := s.AddPerson("Bob")
	item, _ := s.AddItem("Pizza", 30000, 1)

	s.AssignPerson(item.ID, bob.ID)
	s.AssignPerson(item.ID, alice.ID)
	s.AssignPerson(item.ID, alice.ID)

	snap := s.Snapshot()
	require.Len(t, snap.Items, 1)
	// Assignees come back in people insertion order.
	assert.Equal(t, []string{alice.ID, bob.ID}, snap.Items[0].AssignedTo)

	s.UnassignPerson(item.ID, alice.ID)
	s.UnassignPerson(item.ID, alice.ID)
	assert.Equal(t, []string{bob.ID}, s.Snapshot().Items[0].AssignedTo)
}

func TestAssignPerson_UnknownIDsAreNoOps(t *testing.T) {
	s := newTestStore()
	alice, _ := s.AddPerson("Alice")
	item, _ := s.AddItem("Pizza", 30000, 1)
	before := s.Version()

	s.AssignPerson("missing-item", alice.ID)
	s.AssignPerson(item.ID, "missing-person")
	s.UnassignPerson("missing-item", alice.ID)
	s.AssignAll("missing-item")

	assert.Equal(t, before, s.Version())
	assert.Empty(t, s.Snapshot().Items[0].AssignedTo)
}

func TestAssignAll(t *testing.T) {
	s := newTestStore()
	a, _ := s.AddPerson("A")
	b, _ := s.AddPerson("B")
	c, _ := s.AddPerson("C")
	item, _ := s.AddItem("Nachos", 24000, 1)

	s.AssignAll(item.ID)
	assert.Equal(t, []string{a.ID, b.ID, c.ID}, s.Snapshot().Items[0].AssignedTo)
}

func TestRemovePerson_ReferentialIntegrity(t *testing.T) {
	s := newTestStore()
	alice, _ := s.AddPerson("Alice")
	bob, _ := s.AddPerson("Bob")
	shared, _ := s.AddItem("Pizza", 30000, 1)
	solo, _ := s.AddItem("Cerveza", 9000, 1)

	s.AssignAll(shared.ID)
	s.AssignPerson(solo.ID, alice.ID)

	s.RemovePerson(alice.ID)

	snap := s.Snapshot()
	require.Len(t, snap.People, 1)
	assert.Equal(t, bob.ID, snap.People[0].ID)
	for _, item := range snap.Items {
		assert.NotContains(t, item.AssignedTo, alice.ID)
	}
	assert.Equal(t, []string{bob.ID}, snap.Items[0].AssignedTo)
	assert.Empty(t, snap.Items[1].AssignedTo)
}

func TestRemovePerson_UnknownIsNoOp(t *testing.T) {
	s := newTestStore()
	_, _ = s.AddPerson("Alice")
	before := s.Version()

	s.RemovePerson("nobody")
	assert.Equal(t, before, s.Version())
	assert.Len(t, s.People(), 1)
}

func TestUpdateItem(t *testing.T) {
	s := newTestStore()
	item, _ := s.AddItem("Pizza", 30000, 1)

	name := "Pizza grande"
	qty := 2
	updated, err := s.UpdateItem(item.ID, ItemPatch{Name: &name, Quantity: &qty})
	require.NoError(t, err)
	assert.Equal(t, "Pizza grande", updated.Name)
	assert.Equal(t, int64(30000), updated.UnitPrice)
	assert.Equal(t, 2, updated.Quantity)

	zero := int64(0)
	_, err = s.UpdateItem(item.ID, ItemPatch{UnitPrice: &zero})
	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, int64(30000), s.Snapshot().Items[0].UnitPrice)

	huge := int64(5_000_000_000_000_000_000)
	_, err = s.UpdateItem(item.ID, ItemPatch{UnitPrice: &huge})
	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, int64(30000), s.Snapshot().Items[0].UnitPrice)

	_, err = s.UpdateItem("missing", ItemPatch{Name: &name})
	require.ErrorIs(t, err, ErrItemNotFound)
}

func TestRemoveItem(t *testing.T) {
	s := newTestStore()
	a, _ := s.AddItem("A", 1000, 1)
	b, _ := s.AddItem("B", 2000, 1)

	s.RemoveItem(a.ID)
	s.RemoveItem("missing")

	items := s.Snapshot().Items
	require.Len(t, items, 1)
	assert.Equal(t, b.ID, items[0].ID)
}

func TestImportItems_ReplacesList(t *testing.T) {
	s := newTestStore()
	alice, _ := s.AddPerson("Alice")
	old, _ := s.AddItem("Old", 1000, 1)
	s.AssignPerson(old.ID, alice.ID)

	imported, err := s.ImportItems([]models.Item{
		{Name: "Bandeja paisa", UnitPrice: 32000, Quantity: 1, AssignedTo: []string{alice.ID}},
		{Name: "Jugo", UnitPrice: 7000, Quantity: 3},
	})
	require.NoError(t, err)
	require.Len(t, imported, 2)

	snap := s.Snapshot()
	require.Len(t, snap.Items, 2)
	for _, item := range snap.Items {
		assert.NotEqual(t, old.ID, item.ID)
		assert.Empty(t, item.AssignedTo)
	}
}

func TestImportItems_InvalidLeavesStoreUnchanged(t *testing.T) {
	s := newTestStore()
	_, _ = s.AddItem("Keep", 1000, 1)

	_, err := s.ImportItems([]models.Item{
		{Name: "Ok", UnitPrice: 1000, Quantity: 1},
		{Name: "Bad", UnitPrice: 0, Quantity: 1},
	})
	require.ErrorIs(t, err, ErrValidation)

	items := s.Snapshot().Items
	require.Len(t, items, 1)
	assert.Equal(t, "Keep", items[0].Name)
}

func TestConfigMutations(t *testing.T) {
	s := newTestStore()
	assert.Equal(t, models.DefaultConfig(), s.Config())

	require.NoError(t, s.SetTaxPercent(19))
	s.SetTaxIncluded(false)
	require.NoError(t, s.SetTipType(models.TipFixed))
	require.NoError(t, s.SetTipAmount(5000))
	require.NoError(t, s.SetTipPercent(15))
	s.SetTipVoluntary(false)

	cfg := s.Config()
	assert.Equal(t, 19.0, cfg.TaxPercent)
	assert.False(t, cfg.TaxIncluded)
	assert.Equal(t, models.TipFixed, cfg.TipType)
	assert.Equal(t, int64(5000), cfg.TipAmount)
	assert.Equal(t, 15.0, cfg.TipPercent)
	assert.False(t, cfg.TipIsVoluntary)

	assert.ErrorIs(t, s.SetTaxPercent(-1), ErrValidation)
	assert.ErrorIs(t, s.SetTipPercent(-0.5), ErrValidation)
	assert.ErrorIs(t, s.SetTipAmount(-1), ErrValidation)
	assert.ErrorIs(t, s.SetTipType("round"), ErrValidation)
	assert.Equal(t, cfg, s.Config())
}

func TestSetConfig_Validates(t *testing.T) {
	s := newTestStore()
	cfg := models.DefaultConfig()
	cfg.TipType = ""

	require.ErrorIs(t, s.SetConfig(cfg), ErrValidation)
	assert.Equal(t, models.DefaultConfig(), s.Config())
}

func TestVersionBumpsOnEveryMutation(t *testing.T) {
	s := newTestStore()
	v := s.Version()

	p, _ := s.AddPerson("Alice")
	assert.Greater(t, s.Version(), v)
	v = s.Version()

	item, _ := s.AddItem("Pizza", 1000, 1)
	assert.Greater(t, s.Version(), v)
	v = s.Version()

	s.AssignPerson(item.ID, p.ID)
	assert.Greater(t, s.Version(), v)
	v = s.Version()

	s.SetTaxIncluded(false)
	assert.Greater(t, s.Version(), v)
}

func TestSnapshotIsIsolated(t *testing.T) {
	s := newTestStore()
	alice, _ := s.AddPerson("Alice")
	item, _ := s.AddItem("Pizza", 1000, 1)
	s.AssignPerson(item.ID, alice.ID)

	snap := s.Snapshot()
	snap.Items[0].AssignedTo[0] = "mutated"
	snap.People[0].Name = "mutated"

	fresh := s.Snapshot()
	assert.Equal(t, alice.ID, fresh.Items[0].AssignedTo[0])
	assert.Equal(t, "Alice", fresh.People[0].Name)
}

func TestReset(t *testing.T) {
	s := newTestStore()
	_, _ = s.AddPerson("Alice")
	_, _ = s.AddItem("Pizza", 1000, 1)
	_ = s.SetTaxPercent(19)
	s.NextStep()

	s.Reset()

	snap := s.Snapshot()
	assert.Empty(t, snap.People)
	assert.Empty(t, snap.Items)
	assert.Equal(t, models.DefaultConfig(), snap.Config)
	assert.Equal(t, StepEntry, s.Step())
}

func TestModelRoundTrip(t *testing.T) {
	s := newTestStore()
	alice, _ := s.AddPerson("Alice")
	bob, _ := s.AddPerson("Bob")
	item, _ := s.AddItem("Pizza", 30000, 2)
	s.AssignPerson(item.ID, bob.ID)
	s.AssignPerson(item.ID, alice.ID)
	s.NextStep()

	b := &models.Bill{ID: "bill-1"}
	s.ToModel(b)
	assert.Equal(t, 2, b.Step)

	restored := FromModel(b)
	assert.Equal(t, s.Snapshot(), restored.Snapshot())
	assert.Equal(t, StepReview, restored.Step())
}

func TestFromModel_DropsDanglingAssignees(t *testing.T) {
	b := &models.Bill{
		People: []models.Person{{ID: "p1", Name: "Alice"}},
		Items: []models.Item{
			{ID: "i1", Name: "Pizza", UnitPrice: 1000, Quantity: 1, AssignedTo: []string{"p1", "ghost"}},
		},
		Config: models.DefaultConfig(),
		Step:   99,
	}

	s := FromModel(b)
	assert.Equal(t, []string{"p1"}, s.Snapshot().Items[0].AssignedTo)
	assert.Equal(t, StepEntry, s.Step())
}

package calculator

import (
	"strings"
	"testing"

	"github.com/mmynk/splitbill/internal/models"
)

func TestShareText(t *testing.T) {
	snap := models.Snapshot{
		People: people("Alice", "Bob"),
		Items: []models.Item{
			{ID: "i1", Name: "Parrillada", UnitPrice: 20000, Quantity: 1, AssignedTo: []string{"Alice", "Bob"}},
		},
		Config: percentTip(8, true, 10),
	}

	got := ShareText(Summarize(snap), true)
	want := strings.Join([]string{
		"🧾 *SplitBill: División de cuenta*",
		"",
		"👤 *Alice:* $10.950",
		"  • Parrillada ×1: $10.000",
		"👤 *Bob:* $10.950",
		"  • Parrillada ×1: $10.000",
		"",
		"Subtotal: $20.000",
		"IVA: $1.481",
		"Propina: $1.900",
		"*Total: $21.900*",
		"_(La propina es voluntaria)_",
	}, "\n")

	if got != want {
		t.Errorf("ShareText mismatch:\n got:\n%s\nwant:\n%s", got, want)
	}

	if strings.Contains(ShareText(Summarize(snap), false), "voluntaria") {
		t.Error("voluntary notice should be omitted when the tip is mandatory")
	}
}

package calculator

import (
	"fmt"
	"strings"

	"github.com/mmynk/splitbill/internal/models"
)

// ShareText renders a summary as a plain-text message for chat apps:
// one block per person with their item shares, then the bill-wide lines.
func ShareText(sum models.BillSummary, tipVoluntary bool) string {
	lines := []string{"🧾 *SplitBill: División de cuenta*", ""}
	for _, split := range sum.PerPerson {
		lines = append(lines, fmt.Sprintf("👤 *%s:* %s", split.Person.Name, FormatCOP(split.Total)))
		for _, line := range split.Items {
			lines = append(lines, fmt.Sprintf("  • %s ×%d: %s", line.Item.Name, line.Item.Quantity, FormatCOP(line.Share)))
		}
	}

	lines = append(lines,
		"",
		"Subtotal: "+FormatCOP(sum.Subtotal),
		"IVA: "+FormatCOP(sum.Tax),
		"Propina: "+FormatCOP(sum.Tip),
		"*Total: "+FormatCOP(sum.DisplayTotal)+"*",
	)
	if tipVoluntary {
		lines = append(lines, "_(La propina es voluntaria)_")
	}
	return strings.Join(lines, "\n")
}

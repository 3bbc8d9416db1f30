package service

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitbill/internal/bill"
	"github.com/mmynk/splitbill/internal/calculator"
	"github.com/mmynk/splitbill/internal/models"
	"github.com/mmynk/splitbill/pkg/api"
)

// displayPlaces is the precision of per-person amounts in responses.
// The engine keeps full precision; only the JSON view is rounded.
const displayPlaces = 2

func money(d decimal.Decimal) decimal.Decimal {
	return d.Round(displayPlaces)
}

// toBillView renders b with a summary computed from snap.
func toBillView(b *models.Bill, snap models.Snapshot, sum models.BillSummary) *api.BillView {
	view := &api.BillView{
		ID:        b.ID,
		Title:     b.Title,
		Currency:  b.Currency,
		Step:      b.Step,
		StepName:  bill.Step(b.Step).String(),
		People:    make([]api.Person, len(snap.People)),
		Items:     make([]api.Item, len(snap.Items)),
		Config:    toConfigView(snap.Config),
		Summary:   toSummaryView(sum, snap.Config),
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
	for i, p := range snap.People {
		view.People[i] = api.Person{ID: p.ID, Name: p.Name, Color: p.Color}
	}
	for i, item := range snap.Items {
		assigned := item.AssignedTo
		if assigned == nil {
			assigned = []string{}
		}
		view.Items[i] = api.Item{
			ID:         item.ID,
			Name:       item.Name,
			UnitPrice:  item.UnitPrice,
			Quantity:   item.Quantity,
			AssignedTo: assigned,
		}
	}
	return view
}

func toConfigView(cfg models.BillConfig) api.BillConfig {
	return api.BillConfig{
		TaxPercent:     cfg.TaxPercent,
		TaxIncluded:    cfg.TaxIncluded,
		TipType:        string(cfg.TipType),
		TipPercent:     cfg.TipPercent,
		TipAmount:      cfg.TipAmount,
		TipIsVoluntary: cfg.TipIsVoluntary,
	}
}

func fromConfigView(cfg api.BillConfig) models.BillConfig {
	return models.BillConfig{
		TaxPercent:     cfg.TaxPercent,
		TaxIncluded:    cfg.TaxIncluded,
		TipType:        models.TipType(cfg.TipType),
		TipPercent:     cfg.TipPercent,
		TipAmount:      cfg.TipAmount,
		TipIsVoluntary: cfg.TipIsVoluntary,
	}
}

func toSummaryView(sum models.BillSummary, cfg models.BillConfig) api.Summary {
	view := api.Summary{
		Subtotal:       money(sum.Subtotal),
		Tax:            money(sum.Tax),
		Tip:            money(sum.Tip),
		Total:          money(sum.Total),
		DisplayTotal:   sum.DisplayTotal,
		FormattedTotal: calculator.FormatCOP(sum.DisplayTotal),
		PerPerson:      make([]api.PersonSplit, len(sum.PerPerson)),
		ShareText:      calculator.ShareText(sum, cfg.TipIsVoluntary),
	}
	for i, split := range sum.PerPerson {
		ps := api.PersonSplit{
			PersonID: split.Person.ID,
			Name:     split.Person.Name,
			Color:    split.Person.Color,
			Subtotal: money(split.Subtotal),
			Tax:      money(split.Tax),
			Tip:      money(split.Tip),
			Total:    money(split.Total),
			Items:    make([]api.ItemShare, len(split.Items)),
		}
		for j, line := range split.Items {
			ps.Items[j] = api.ItemShare{
				ItemID:   line.Item.ID,
				Name:     line.Item.Name,
				Quantity: line.Item.Quantity,
				Share:    money(line.Share),
			}
		}
		view.PerPerson[i] = ps
	}
	return view
}

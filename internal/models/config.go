package models

// TipType selects how the tip is computed.
type TipType string

const (
	TipPercent TipType = "percent"
	TipFixed   TipType = "fixed"
)

// Valid reports whether t is a known tip type.
func (t TipType) Valid() bool {
	return t == TipPercent || t == TipFixed
}

// BillConfig holds the bill-wide tax and tip rules.
type BillConfig struct {
	// TaxPercent is the tax rate, e.g. 8 for 8%.
	TaxPercent float64

	// TaxIncluded means prices already contain tax; the tax is then
	// back-calculated for display and never added to the total.
	TaxIncluded bool

	TipType TipType

	// TipPercent is applied to the pre-tax base when TipType is TipPercent.
	TipPercent float64

	// TipAmount is the fixed tip in minor units when TipType is TipFixed.
	TipAmount int64

	// TipIsVoluntary flags that the tip is optional (shown as a notice).
	TipIsVoluntary bool
}

// DefaultConfig returns the configuration a new bill starts with:
// 8% tax already included in prices and a voluntary 10% tip.
func DefaultConfig() BillConfig {
	return BillConfig{
		TaxPercent:     8,
		TaxIncluded:    true,
		TipType:        TipPercent,
		TipPercent:     10,
		TipAmount:      0,
		TipIsVoluntary: true,
	}
}

package scan

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mmynk/splitbill/internal/models"
)

const (
	// MaxNameLength bounds item names, in runes.
	MaxNameLength = 200

	// MaxQuantity caps quantities to guard against misread digits.
	MaxQuantity = 99

	// MaxUnitPrice drops prices no receipt line can plausibly have.
	MaxUnitPrice = models.MaxUnitPrice

	// PlaceholderName replaces names that are empty after trimming.
	PlaceholderName = "Ítem"
)

// Sanitize turns raw scanner records into valid items ready for import.
//
// Records that are not objects, or whose price is not a finite number, or
// rounds to zero or less, are dropped. Quantities default to 1 and are capped
// at MaxQuantity. Returns ErrEmptyResult when nothing survives.
func Sanitize(raw []*structpb.Value) ([]models.Item, error) {
	items := make([]models.Item, 0, len(raw))
	for _, v := range raw {
		obj := v.GetStructValue()
		if obj == nil {
			continue
		}
		fields := obj.GetFields()

		price, ok := number(fields["price"])
		if !ok || price < 0 || price > MaxUnitPrice {
			continue
		}
		unitPrice := int64(math.Round(price))
		if unitPrice <= 0 {
			continue
		}

		items = append(items, models.Item{
			Name:      sanitizeName(fields["name"]),
			UnitPrice: unitPrice,
			Quantity:  sanitizeQuantity(fields["quantity"]),
		})
	}

	if len(items) == 0 {
		return nil, ErrEmptyResult
	}
	return items, nil
}

// number returns v as a finite float64 if v holds a JSON number.
func number(v *structpb.Value) (float64, bool) {
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, false
	}
	f := n.NumberValue
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func sanitizeName(v *structpb.Value) string {
	var name string
	switch k := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		name = k.StringValue
	case *structpb.Value_NumberValue:
		name = strconv.FormatFloat(k.NumberValue, 'f', -1, 64)
	case *structpb.Value_BoolValue:
		name = strconv.FormatBool(k.BoolValue)
	}

	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) > MaxNameLength {
		name = strings.TrimSpace(string([]rune(name)[:MaxNameLength]))
	}
	if name == "" {
		return PlaceholderName
	}
	return name
}

func sanitizeQuantity(v *structpb.Value) int {
	q, ok := number(v)
	if !ok || q < 1 {
		return 1
	}
	q = math.Round(q)
	if q > MaxQuantity {
		return MaxQuantity
	}
	return int(q)
}

package models

// PersonColors is the fixed palette people are coloured from, in order.
var PersonColors = []string{
	"#EF4444",
	"#F97316",
	"#EAB308",
	"#22C55E",
	"#10B981",
	"#14B8A6",
	"#06B6D4",
	"#3B82F6",
	"#6366F1",
	"#8B5CF6",
	"#A855F7",
	"#D946EF",
	"#EC4899",
	"#F43F5E",
	"#84CC16",
	"#0EA5E9",
	"#0D9488",
	"#7C3AED",
	"#DC2626",
	"#059669",
}

// ColorFor returns the palette colour for the n-th person added (0-based).
func ColorFor(n int) string {
	return PersonColors[n%len(PersonColors)]
}

package calculator

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestRoundUpTo100(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"0", 0},
		{"1", 100},
		{"100", 100},
		{"100.0001", 200},
		{"1851.85", 1900},
		{"1900", 1900},
		{"1901", 2000},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := RoundUpTo100(decimal.RequireFromString(tt.in))
			if !got.Equal(decimal.NewFromInt(tt.want)) {
				t.Errorf("RoundUpTo100(%s) = %v, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestRoundTo100(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"0", 0},
		{"49.99", 0},
		{"50", 100},
		{"21849", 21800},
		{"21850", 21900},
		{"21900", 21900},
		{"12345.678", 12300},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := RoundTo100(decimal.RequireFromString(tt.in))
			if !got.Equal(decimal.NewFromInt(tt.want)) {
				t.Errorf("RoundTo100(%s) = %v, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatCOP(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "$0"},
		{"999", "$999"},
		{"1500", "$1.500"},
		{"23000", "$23.000"},
		{"1234567", "$1.234.567"},
		{"10949.6", "$10.950"},
		{"-2500", "-$2.500"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := FormatCOP(decimal.RequireFromString(tt.in)); got != tt.want {
				t.Errorf("FormatCOP(%s) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

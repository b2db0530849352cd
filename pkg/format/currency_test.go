package format

import "testing"

func TestCurrency(t *testing.T) {
	tests := []struct {
		amount   float64
		expected string
	}{
		{0, "$0.00"},
		{12.5, "$12.50"},
		{999.999, "$1,000.00"},
		{2227603.195997021, "$2,227,603.20"},
		{-1234.56, "-$1,234.56"},
		{-0.001, "$0.00"},
	}

	for _, tt := range tests {
		if got := Currency(tt.amount); got != tt.expected {
			t.Errorf("Currency(%v) = %q, expected %q", tt.amount, got, tt.expected)
		}
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		rate     float64
		expected string
	}{
		{0.045, "4.50%"},
		{0.0357, "3.57%"},
		{0, "0.00%"},
		{-0.02, "-2.00%"},
	}

	for _, tt := range tests {
		if got := Percent(tt.rate); got != tt.expected {
			t.Errorf("Percent(%v) = %q, expected %q", tt.rate, got, tt.expected)
		}
	}
}

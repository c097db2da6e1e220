package services

import "testing"

func TestFormatINR(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		expect string
	}{
		{"zero", "0", "₹0.00"},
		{"under thousand", "999", "₹999.00"},
		{"thousands", "12345", "₹12,345.00"},
		{"lakhs", "1234567", "₹12,34,567.00"},
		{"crores", "12345678.90", "₹1,23,45,678.90"},
		{"negative", "-12345.50", "-₹12,345.50"},
		{"rounds paise", "99.999", "₹100.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatINR(dec(tt.amount))
			if got != tt.expect {
				t.Errorf("FormatINR(%s) = %q, want %q", tt.amount, got, tt.expect)
			}
		})
	}
}

func TestFormatQty(t *testing.T) {
	tests := []struct {
		name   string
		qty    float64
		expect string
	}{
		{"whole number", 5, "5"},
		{"fractional", 2.5, "2.50"},
		{"zero", 0, "0"},
		{"small fraction", 0.25, "0.25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatQty(tt.qty)
			if got != tt.expect {
				t.Errorf("FormatQty(%v) = %q, want %q", tt.qty, got, tt.expect)
			}
		})
	}
}

func TestApplyIndianGrouping(t *testing.T) {
	tests := []struct {
		in     string
		expect string
	}{
		{"1", "1"},
		{"123", "123"},
		{"1234", "1,234"},
		{"123456", "1,23,456"},
		{"12345678", "1,23,45,678"},
		{"1234567890", "1,23,45,67,890"},
	}

	for _, tt := range tests {
		if got := applyIndianGrouping(tt.in); got != tt.expect {
			t.Errorf("applyIndianGrouping(%q) = %q, want %q", tt.in, got, tt.expect)
		}
	}
}

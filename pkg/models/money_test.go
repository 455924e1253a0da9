package models

import "testing"

func TestParsePriceMinor(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"₹499", 49900},
		{"499", 49900},
		{"$12.50", 1250},
		{"₹1,299", 129900},
		{"0.99", 99},
		{"12.345", 1234},
		{" ₹ 499 ", 49900},
	}
	for _, tc := range cases {
		got, err := ParsePriceMinor(tc.in)
		if err != nil {
			t.Errorf("ParsePriceMinor(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParsePriceMinor(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestParsePriceMinorRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "abc", "-5"} {
		if _, err := ParsePriceMinor(in); err == nil {
			t.Errorf("ParsePriceMinor(%q) succeeded, want error", in)
		}
	}
}

func TestFormatPriceMinor(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{49900, "₹499"},
		{49950, "₹499.50"},
		{99, "₹0.99"},
		{0, "₹0"},
	}
	for _, tc := range cases {
		if got := FormatPriceMinor(tc.in); got != tc.want {
			t.Errorf("FormatPriceMinor(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

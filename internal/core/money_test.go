package core

import "testing"

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"12.34", 1234, true},
		{"12,34", 1234, true},
		{"500", 50000, true},
		{"0.5", 50, true},
		{"12.345", 1234, true}, // third decimal rounds down
		{"12.346", 1235, true}, // third decimal rounds up
		{"", 0, false},
		{"0", 0, false},
		{"-5", 0, false},
		{"+5", 0, false},
		{"1.2.3", 0, false},
		{"abc", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("%q: got (%d, %v), want %d", tc.in, got, err, tc.want)
		}
		if !tc.ok && err == nil {
			t.Fatalf("%q: expected error", tc.in)
		}
	}
}

func TestMoneyFormatUnits(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{90000, "900"},
		{1234, "12.34"},
		{50, "0.5"},
		{0, "0"},
	}
	for _, tc := range cases {
		if got := (Money{Cents: tc.cents}).FormatUnits(); got != tc.want {
			t.Fatalf("FormatUnits(%d)=%q, want %q", tc.cents, got, tc.want)
		}
	}
}

package table

import (
	"math"
	"testing"

	"tablegen/models"
)

func TestFormatNumber(t *testing.T) {
	cases := []struct {
		in   models.Number
		want string
	}{
		{models.NumberOf(1234.5), "1,234.50"},
		{models.NumberOf(0), "0.00"},
		{models.NumberOf(1000000), "1,000,000.00"},
		{models.NumberOf(999.999), "1,000.00"},
		{models.NumberOf(12), "12.00"},
		{models.NumberOf(-1234567.891), "-1,234,567.89"},
		{models.NumberOf(math.NaN()), "NaN"},
		{models.NumberOf(math.Inf(1)), "Infinity"},
		{models.Blank, "NaN"},
		{models.NumberOf(1.005), "1.00"},
		{models.NumberOf(2.675), "2.67"},
		{models.NumberOf(0.125), "0.13"},
		{models.NumberOf(-0.125), "-0.13"},
		{models.NumberOf(0.1 + 0.2), "0.30"},
	}
	for _, tc := range cases {
		if got := FormatNumber(tc.in, false); got != tc.want {
			t.Fatalf("FormatNumber(%+v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatNumberGuardBlanks(t *testing.T) {
	if got := FormatNumber(models.Blank, true); got != "" {
		t.Fatalf("expected blank, got %q", got)
	}
	if got := FormatNumber(models.ParseNumber("oops"), true); got != "NaN" {
		t.Fatalf("guard must only hide blanks, got %q", got)
	}
}

func TestFormatQuantity(t *testing.T) {
	if got := FormatQuantity(models.ParseNumber(" 1.50 ")); got != "1.50" {
		t.Fatalf("expected typed text 1.50, got %q", got)
	}
	if got := FormatQuantity(models.NumberOf(2.5)); got != "2.5" {
		t.Fatalf("expected 2.5, got %q", got)
	}
	if got := FormatQuantity(models.ParseNumber("abc")); got != "NaN" {
		t.Fatalf("expected NaN, got %q", got)
	}
	if got := FormatQuantity(models.Blank); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}

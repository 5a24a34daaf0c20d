package models

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

type RowKind string

const (
	RowKindLine       RowKind = "line"
	RowKindSubheading RowKind = "subheading"
	RowKindTotal      RowKind = "total"
)

// Number is a coerced numeric input. Blank input is not Valid; malformed input is Valid NaN.
// Raw keeps the trimmed text it was parsed from.
type Number struct {
	Value float64
	Valid bool
	Raw   string
}

// Blank is the zero Number.
var Blank = Number{}

func NumberOf(v float64) Number {
	return Number{Value: v, Valid: true}
}

// ParseNumber coerces raw form text. It never fails: unparseable text becomes NaN.
// Out-of-range magnitudes become ±Inf. Of the textual forms only "Infinity"
// with an optional sign is accepted.
func ParseNumber(raw string) Number {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Blank
	}
	n := Number{Valid: true, Raw: raw}
	unsigned := strings.ToLower(strings.TrimLeft(raw, "+-"))
	if strings.HasPrefix(unsigned, "inf") || strings.HasPrefix(unsigned, "nan") {
		switch raw {
		case "Infinity", "+Infinity":
			n.Value = math.Inf(1)
		case "-Infinity":
			n.Value = math.Inf(-1)
		default:
			n.Value = math.NaN()
		}
		return n
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		v = math.NaN()
	}
	n.Value = v
	return n
}

func (n Number) IsNaN() bool {
	return n.Valid && math.IsNaN(n.Value)
}

// OrZero returns the value for summing; blank and NaN count as 0.
func (n Number) OrZero() float64 {
	if !n.Valid || n.IsNaN() {
		return 0
	}
	return n.Value
}

// Row is one table entry. Fields that do not apply to Kind are left zero.
type Row struct {
	ID          int64
	Kind        RowKind
	Description string
	Quantity    Number
	UnitPrice   Number
	Value       Number
	TotaledRows []int
}

func (r Row) IsLine() bool       { return r.Kind == RowKindLine }
func (r Row) IsSubheading() bool { return r.Kind == RowKindSubheading }
func (r Row) IsTotal() bool      { return r.Kind == RowKindTotal }

// References reports whether a total row includes position in its sum.
func (r Row) References(position int) bool {
	for _, p := range r.TotaledRows {
		if p == position {
			return true
		}
	}
	return false
}

// Clone copies the row so TotaledRows is not shared.
func (r Row) Clone() Row {
	if r.TotaledRows != nil {
		r.TotaledRows = append([]int(nil), r.TotaledRows...)
	}
	return r
}

type SubheadingType string

const (
	SubheadingTypeSubheading SubheadingType = "subheading"
	SubheadingTypeTotal      SubheadingType = "total"
)

// Draft is the pending row as typed into the form.
type Draft struct {
	Description    string
	Quantity       string
	UnitPrice      string
	IsSubheading   bool
	Subheading     string
	SubheadingType SubheadingType
}

// NewDraft returns a blank draft.
func NewDraft() Draft {
	return Draft{SubheadingType: SubheadingTypeSubheading}
}

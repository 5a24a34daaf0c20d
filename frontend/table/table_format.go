package table

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"tablegen/models"
)

// FormatNumber renders n with two decimals and comma thousands grouping.
// Blank and non-numeric values render as "NaN"; with guardBlanks a blank
// value renders as an empty string instead.
func FormatNumber(n models.Number, guardBlanks bool) string {
	if !n.Valid {
		if guardBlanks {
			return ""
		}
		return "NaN"
	}
	return formatFloat(n.Value)
}

func formatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}
	// Round the exact binary value, so 1.005 gives 1.00 as a browser does.
	s := decimal.RequireFromString(strconv.FormatFloat(v, 'f', 40, 64)).StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	b.WriteString(sign)
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}

// FormatQuantity shows a quantity as typed: blank stays blank.
func FormatQuantity(n models.Number) string {
	switch {
	case !n.Valid:
		return ""
	case n.IsNaN():
		return "NaN"
	case n.Raw != "":
		return n.Raw
	}
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}

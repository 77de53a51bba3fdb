// Package format renders resource amounts for display.
package format

import (
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// Style selects how numbers are displayed.
type Style string

const (
	Short      Style = "short"
	Scientific Style = "scientific"
	Standard   Style = "standard"
)

// Valid reports whether s is a known style.
func (s Style) Valid() bool {
	switch s {
	case Short, Scientific, Standard:
		return true
	}
	return false
}

type suffix struct {
	value float64
	name  string
}

// suffixes are ordered largest first.
var suffixes = []suffix{
	{1e33, "D"},
	{1e30, "N"},
	{1e27, "O"},
	{1e24, "Sp"},
	{1e21, "Sx"},
	{1e18, "Qi"},
	{1e15, "Qa"},
	{1e12, "T"},
	{1e9, "B"},
	{1e6, "M"},
	{1e3, "K"},
}

// Number formats v in the given style. Unknown styles fall back to Short.
func Number(v float64, style Style) string {
	if math.IsNaN(v) {
		return "0"
	}
	if math.IsInf(v, 0) {
		if v < 0 {
			return "-∞"
		}
		return "∞"
	}

	switch style {
	case Scientific:
		if v < 1000 {
			return strconv.FormatFloat(math.Floor(v), 'f', -1, 64)
		}
		return exponent(v)
	case Standard:
		return humanize.Commaf(math.Round(v))
	}

	for _, s := range suffixes {
		if v >= s.value {
			return trimmed(v/s.value) + s.name
		}
	}
	return humanize.Commaf(math.Floor(v))
}

// trimmed rounds to two decimals and drops trailing zeros.
func trimmed(v float64) string {
	rounded, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}

// exponent renders v as 1.23e+6, without the zero padding strconv adds to
// the exponent.
func exponent(v float64) string {
	s := strconv.FormatFloat(v, 'e', 2, 64)
	mantissa, exp, _ := strings.Cut(s, "e")
	sign := exp[:1]
	digits := strings.TrimLeft(exp[1:], "0")
	if digits == "" {
		digits = "0"
	}
	return mantissa + "e" + sign + digits
}

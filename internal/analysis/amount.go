package analysis

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

const currencyPrefix = "R$"

// plainDecimal is the only shape handed to the decimal parser. Exponent
// notation is refused so totals stay within a sane scale.
var plainDecimal = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)$`)

// ParseAmount converts a Brazilian currency string such as "R$ 1.234,56" to a decimal.
//
// Spaces and every "R$" are removed, "." thousands separators are dropped and
// "," becomes the decimal point. Input that still does not parse (including
// "N/A", "" and exponent forms such as "1e5") is worth zero: malformed amounts
// never fail an aggregation.
func ParseAmount(raw string) decimal.Decimal {
	s := strings.ReplaceAll(raw, " ", "")
	s = strings.ReplaceAll(s, currencyPrefix, "")
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	s = strings.TrimSpace(s)
	if !plainDecimal.MatchString(s) {
		return decimal.Zero
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// FormatAmount renders d as "R$ 1.234,56", rounded to cents. Negative values
// are prefixed with "-".
func FormatAmount(d decimal.Decimal) string {
	fixed := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}
	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return sign + currencyPrefix + " " + b.String() + "," + fracPart
}

package payroll

import (
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ones  = []string{"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine"}
	teens = []string{"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen", "Seventeen", "Eighteen", "Nineteen"}
	tens  = []string{"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety"}
)

func belowThousand(n int64) string {
	switch {
	case n == 0:
		return ""
	case n < 10:
		return ones[n]
	case n < 20:
		return teens[n-10]
	case n < 100:
		if n%10 == 0 {
			return tens[n/10]
		}
		return tens[n/10] + " " + ones[n%10]
	}
	if n%100 == 0 {
		return ones[n/100] + " Hundred"
	}
	return ones[n/100] + " Hundred " + belowThousand(n%100)
}

// Indian grouping: crore (10^7), lakh (10^5), thousand.
var scales = []struct {
	value int64
	name  string
}{
	{10_000_000, "Crore"},
	{100_000, "Lakh"},
	{1_000, "Thousand"},
}

func integerInWords(n int64) string {
	if n == 0 {
		return "Zero"
	}

	var parts []string
	if n < 0 {
		parts = append(parts, "Minus")
		n = -n
	}
	for _, s := range scales {
		if n < s.value {
			continue
		}
		parts = append(parts, integerInWords(n/s.value), s.name)
		n %= s.value
	}
	if n > 0 {
		parts = append(parts, belowThousand(n))
	}
	return strings.Join(parts, " ")
}

// AmountInWords spells an amount rounded to whole rupees, e.g.
// "One Lakh Twenty Thousand Rupees Only".
func AmountInWords(amount decimal.Decimal) string {
	return integerInWords(amount.Round(0).IntPart()) + " Rupees Only"
}

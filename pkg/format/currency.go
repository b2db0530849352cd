// Package format renders money and rates for display.
package format

import (
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/economic-loss/pkg/constants"
)

// Currency returns a currency string with a dollar sign and thousands separators (e.g., "-$1,234.56").
func Currency(amount float64) string {
	formatted := formatPositiveCurrency(math.Abs(amount))
	if amount < 0 && formatted != "0.00" {
		return "-$" + formatted
	}
	return "$" + formatted
}

// Percent renders a decimal rate as a percentage with two decimals (0.0357 -> "3.57%").
func Percent(rate float64) string {
	return fmt.Sprintf("%.2f%%", rate*constants.PercentageMultiplier)
}

func formatPositiveCurrency(value float64) string {
	formatted := fmt.Sprintf("%.2f", value)
	intPart, decPart, found := strings.Cut(formatted, ".")
	if !found {
		decPart = "00"
	}

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	return intPart + "." + decPart
}

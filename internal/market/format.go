package market

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var rupeePrinter = message.NewPrinter(language.MustParse("en-IN"))

// FormatRupees renders an amount as whole rupees with locale digit grouping,
// e.g. ₹16,784.
func FormatRupees(v float64) string {
	n := int64(math.Round(v))
	if n < 0 {
		return "-" + rupeePrinter.Sprintf("₹%d", -n)
	}
	return rupeePrinter.Sprintf("₹%d", n)
}

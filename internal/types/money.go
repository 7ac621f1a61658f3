// README: Currency formatting shared by presentation, PDF and CLI output.
package types

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var usd = message.NewPrinter(language.English)

// FormatUSD renders an amount with thousand separators, e.g. "$1,500" or "$12.50".
func FormatUSD(amount float64) string {
	if amount == math.Trunc(amount) {
		return usd.Sprintf("$%d", int64(amount))
	}
	return usd.Sprintf("$%.2f", amount)
}

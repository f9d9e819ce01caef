/**
 * @description
 * Pure currency-conversion helpers shared by the transfer and quoting paths.
 * Conversion uses two independently maintained fixed-rate tables: one for
 * converting a supported source currency into USD and one for converting USD
 * back out. The tables are deliberately kept exactly as the product ships
 * them even though they are not algebraic inverses of each other (EUR is
 * 1.08 to-USD but 0.93 from-USD, not 1/1.08).
 *
 * @notes
 * - An unrecognized currency code multiplies by 1, i.e. it is silently
 *   treated as USD. Callers must not rely on this being flagged.
 * - No I/O; every function here is deterministic.
 */

package currency

import "math"

// BaseFeeUSD is the flat transfer fee, denominated in USD.
const BaseFeeUSD = 2.99

var toUSD = map[string]float64{
	"USD": 1,
	"EUR": 1.08,
	"SEK": 0.091,
	"NOK": 0.094,
	"DKK": 0.14,
	"GBP": 1.27,
}

var fromUSD = map[string]float64{
	"USD": 1,
	"EUR": 0.93,
	"SEK": 10.98,
	"NOK": 10.64,
	"DKK": 7.14,
	"GBP": 0.79,
}

// ToUSD converts an amount in the given source currency into USD.
func ToUSD(amount float64, code string) float64 {
	rate, ok := toUSD[code]
	if !ok {
		rate = 1
	}
	return amount * rate
}

// FromUSD converts a USD amount into the given currency.
func FromUSD(amount float64, code string) float64 {
	rate, ok := fromUSD[code]
	if !ok {
		rate = 1
	}
	return amount * rate
}

// Fee returns the flat transfer fee expressed in the source currency.
func Fee(code string) float64 {
	return FromUSD(BaseFeeUSD, code)
}

// TotalToPay is the amount the sender is charged: amount plus fee, both in
// the source currency.
func TotalToPay(amount float64, code string) float64 {
	return amount + Fee(code)
}

// ReceivingAmount converts a source-currency amount through USD into the
// destination currency using the destination's USD-denominated rate.
func ReceivingAmount(amount float64, code string, destRate float64) float64 {
	return ToUSD(amount, code) * destRate
}

// Round2 rounds to two decimals for display and persistence.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Supported reports whether the code appears in the conversion tables.
func Supported(code string) bool {
	_, ok := toUSD[code]
	return ok
}

// SourceCurrencies lists the supported source currencies in display order.
func SourceCurrencies() []string {
	return []string{"USD", "EUR", "SEK", "NOK", "DKK", "GBP"}
}

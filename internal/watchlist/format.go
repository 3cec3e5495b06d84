package watchlist

import "github.com/shopspring/decimal"

// FormatPrice renders a price as US dollars with exactly two decimal digits
func FormatPrice(price float64) string {
	return "$" + decimal.NewFromFloat(price).StringFixed(2)
}

// FormatChange renders a percent change with two decimal digits and an
// explicit sign. Non-negative values get a leading "+" so flat movers read
// as such; negative values keep their own minus sign.
func FormatChange(changePercent float64) string {
	s := decimal.NewFromFloat(changePercent).StringFixed(2)
	if changePercent >= 0 {
		s = "+" + s
	}
	return s + "%"
}

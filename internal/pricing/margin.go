package pricing

import "github.com/shopspring/decimal"

// Margin brackets keyed by net supplier cost, exclusive upper bound.
// Costs below the first bracket fall through to its margin.
var (
	bracket5   = decimal.NewFromInt(5)
	bracket15  = decimal.NewFromInt(15)
	bracket25  = decimal.NewFromInt(25)
	bracket40  = decimal.NewFromInt(40)
	bracket65  = decimal.NewFromInt(65)
	bracket90  = decimal.NewFromInt(90)
	bracket120 = decimal.NewFromInt(120)
)

// MarginFor returns the target margin fraction for a net supplier cost.
// The table is a non-increasing step function; it never errors.
func MarginFor(cost decimal.Decimal) decimal.Decimal {
	switch {
	case cost.LessThan(bracket5):
		return decimal.NewFromFloat(0.16)
	case cost.LessThan(bracket15):
		return decimal.NewFromFloat(0.15)
	case cost.LessThan(bracket25):
		return decimal.NewFromFloat(0.13)
	case cost.LessThan(bracket40):
		return decimal.NewFromFloat(0.11)
	case cost.LessThan(bracket65):
		return decimal.NewFromFloat(0.09)
	case cost.LessThan(bracket90):
		return decimal.NewFromFloat(0.07)
	case cost.LessThan(bracket120):
		return decimal.NewFromFloat(0.06)
	default:
		return decimal.NewFromFloat(0.05)
	}
}

package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/wyzinc/marketsync/internal/model"
)

// Fee model constants. The published price is tax-inclusive at 21%;
// the referral fee is 15% of the portion up to 100 and 8% above, with
// a 2% surcharge on the fee itself. The 7.14 adjustment keeps the two
// branches continuous at the bracket transition and was fitted against
// the platform's fee simulator; do not re-derive it.
var (
	logisticsSurcharge = decimal.NewFromFloat(4.00)
	ivaFrac            = decimal.NewFromFloat(0.21).Div(decimal.NewFromFloat(1.21))
	effLow             = decimal.NewFromFloat(0.153)
	effHigh            = decimal.NewFromFloat(0.0816)
	bracketCeiling     = decimal.NewFromInt(100)
	bracketAdjustment  = decimal.NewFromFloat(7.14)
	undercut           = decimal.NewFromFloat(0.01)
	epsilon            = decimal.New(1, -9)
	one                = decimal.NewFromInt(1)
)

// SolveFloor returns the smallest tax-inclusive price that still
// yields the target margin on cost after tax, referral fees and the
// logistics surcharge. Total for any finite non-negative cost.
func SolveFloor(cost, margin decimal.Decimal) decimal.Decimal {
	base := cost.Add(logisticsSurcharge)

	low := base.Div(clampDenominator(one.Sub(ivaFrac).Sub(margin).Sub(effLow)))
	if low.LessThanOrEqual(bracketCeiling) {
		return low.Round(2)
	}

	high := base.Add(bracketAdjustment).
		Div(clampDenominator(one.Sub(ivaFrac).Sub(margin).Sub(effHigh)))
	return high.Round(2)
}

// Decide computes the floor for a cost and the price to publish given
// the lowest competing price, when one is known. The final price never
// drops below the floor.
func Decide(cost decimal.Decimal, competitor decimal.NullDecimal) model.PriceQuote {
	margin := MarginFor(cost)
	floor := SolveFloor(cost, margin)
	final := floor
	if competitor.Valid && competitor.Decimal.IsPositive() {
		under := competitor.Decimal.Sub(undercut).Round(2)
		if under.GreaterThan(floor) {
			final = under
		}
	}
	return model.PriceQuote{Floor: floor, Final: final, Margin: margin}
}

// clampDenominator keeps the solve total when margin plus fees would
// consume the whole price.
func clampDenominator(d decimal.Decimal) decimal.Decimal {
	if d.LessThanOrEqual(decimal.Zero) {
		return epsilon
	}
	return d
}

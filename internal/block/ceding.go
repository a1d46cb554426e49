package block

import "github.com/shopspring/decimal"

// CedingCommissionNPV discounts a configured ceding-commission cashflow
// stream — typically a percentage of first-year premium amortised over
// a schedule, or a flat monthly amount — at bbbRate+spread, monthly
// compounding. cashflows[i] is paid at the end of month i+1, so it is
// discounted by v^(i+1) — the end-of-period convention of
// reserves.PVAnnuityOrdinary.
func CedingCommissionNPV(cashflows []decimal.Decimal, bbbRate, spread decimal.Decimal) decimal.Decimal {
	monthlyRate := bbbRate.Add(spread).Div(decimal.NewFromInt(12))
	one := decimal.NewFromInt(1)
	v := one.Div(one.Add(monthlyRate))

	npv := decimal.Zero
	discountFactor := v
	for _, cf := range cashflows {
		npv = npv.Add(cf.Mul(discountFactor))
		discountFactor = discountFactor.Mul(v)
	}
	return npv
}

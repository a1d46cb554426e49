package reserves

import "math"

// BenefitPayment pairs a projection month with an elective benefit
// amount.
type BenefitPayment struct {
	Month  uint32
	Amount float64
}

// DeathBenefitPayment pairs a projection month with its survival
// probability and death-benefit amount.
type DeathBenefitPayment struct {
	Month       uint32
	Probability float64
	Amount      float64
}

// DiscountCurve is the valuation interest-rate basis for a reserve
// calculation: a primary elective-benefit rate, an optional separate
// death-benefit rate, and an optional month-indexed spot-rate curve for
// more precise elective discounting.
type DiscountCurve struct {
	ValuationRate    float64
	DeathBenefitRate *float64
	SpotRates        []float64
}

// SingleRate is a flat-rate discount curve: the standard CARVM basis.
func SingleRate(annualRate float64) DiscountCurve {
	return DiscountCurve{ValuationRate: annualRate}
}

// WithDeathBenefitRate is a discount curve with a separate, typically
// lower, rate for non-elective death benefits.
func WithDeathBenefitRate(valuationRate, deathBenefitRate float64) DiscountCurve {
	return DiscountCurve{ValuationRate: valuationRate, DeathBenefitRate: &deathBenefitRate}
}

// FromSpotCurve builds a discount curve from a month-indexed spot-rate
// curve, using its first entry as the flat valuation rate fallback.
func FromSpotCurve(spotRates []float64) DiscountCurve {
	valuationRate := 0.0
	if len(spotRates) > 0 {
		valuationRate = spotRates[0]
	}
	return DiscountCurve{ValuationRate: valuationRate, SpotRates: spotRates}
}

// DefaultDiscountCurve is the standard 4.75% flat valuation rate.
func DefaultDiscountCurve() DiscountCurve {
	return SingleRate(0.0475)
}

// ElectiveDiscountFactor is the monthly discount factor for elective
// (income, surrender) benefits.
func (d DiscountCurve) ElectiveDiscountFactor() float64 {
	return 1.0 / (1.0 + d.ValuationRate/12.0)
}

// DeathBenefitDiscountFactor is the monthly discount factor for death
// benefits, using DeathBenefitRate when set.
func (d DiscountCurve) DeathBenefitDiscountFactor() float64 {
	rate := d.ValuationRate
	if d.DeathBenefitRate != nil {
		rate = *d.DeathBenefitRate
	}
	return 1.0 / (1.0 + rate/12.0)
}

// DiscountToMonthElective is the discount factor from now to the given
// month for elective benefits, preferring the spot curve when a rate is
// tabulated for that month.
func (d DiscountCurve) DiscountToMonthElective(months uint32) float64 {
	if int(months) < len(d.SpotRates) {
		spot := d.SpotRates[months]
		return math.Pow(1.0+spot, -float64(months)/12.0)
	}
	return math.Pow(d.ElectiveDiscountFactor(), float64(months))
}

// DiscountToMonthDeath is the discount factor from now to the given month
// for death benefits.
func (d DiscountCurve) DiscountToMonthDeath(months uint32) float64 {
	return math.Pow(d.DeathBenefitDiscountFactor(), float64(months))
}

// PVElectiveStream is the present value of a stream of elective-benefit
// payments.
func (d DiscountCurve) PVElectiveStream(benefits []BenefitPayment) float64 {
	pv := 0.0
	for _, b := range benefits {
		pv += b.Amount * d.DiscountToMonthElective(b.Month)
	}
	return pv
}

// PVDeathBenefitStream is the present value of a stream of
// survival-probability-weighted death-benefit payments.
func (d DiscountCurve) PVDeathBenefitStream(benefits []DeathBenefitPayment) float64 {
	pv := 0.0
	for _, b := range benefits {
		pv += b.Probability * b.Amount * d.DiscountToMonthDeath(b.Month)
	}
	return pv
}

// PVAnnuityDue is the present value of a level annuity of amount for
// nMonths at monthlyRate, first payment immediate.
func PVAnnuityDue(amount float64, nMonths uint32, monthlyRate float64) float64 {
	if math.Abs(monthlyRate) < 1e-10 {
		return amount * float64(nMonths)
	}
	v := 1.0 / (1.0 + monthlyRate)
	return amount * (1.0 - math.Pow(v, float64(nMonths))) / (1.0 - v)
}

// PVAnnuityOrdinary is the present value of a level annuity with payments
// at the end of each period.
func PVAnnuityOrdinary(amount float64, nMonths uint32, monthlyRate float64) float64 {
	return PVAnnuityDue(amount, nMonths, monthlyRate) / (1.0 + monthlyRate)
}

// LifeAnnuityPayment pairs a projection month with its survival
// probability and payment amount.
type LifeAnnuityPayment struct {
	Month         uint32
	SurvivalProb  float64
	Payment       float64
}

// PVLifeAnnuity is the present value of a mortality-weighted payment
// stream under the given discount curve.
func PVLifeAnnuity(payments []LifeAnnuityPayment, curve DiscountCurve) float64 {
	pv := 0.0
	for _, p := range payments {
		pv += p.SurvivalProb * p.Payment * curve.DiscountToMonthElective(p.Month)
	}
	return pv
}

package assumptions

import (
	"math"

	"github.com/shopspring/decimal"
)

// SurrenderChargeSchedule is the surrender-charge rate by 1-indexed policy
// year; years beyond the table's length carry no charge.
type SurrenderChargeSchedule struct {
	charges []float64
}

// DefaultSurrenderChargeSchedule10Year is the standard 9/9/8/7/6/5/4/3/2/1%
// ten-year schedule.
func DefaultSurrenderChargeSchedule10Year() SurrenderChargeSchedule {
	return SurrenderChargeSchedule{charges: []float64{
		0.09, 0.09, 0.08, 0.07, 0.06, 0.05, 0.04, 0.03, 0.02, 0.01,
	}}
}

// GetRate returns the surrender-charge rate for the given policy year.
func (s SurrenderChargeSchedule) GetRate(policyYear uint32) float64 {
	if policyYear == 0 {
		if len(s.charges) == 0 {
			return 0.0
		}
		return s.charges[0]
	}
	idx := int(policyYear) - 1
	if idx >= len(s.charges) {
		return 0.0
	}
	return s.charges[idx]
}

// InSCPeriod reports whether the policy year still carries a nonzero
// surrender charge.
func (s SurrenderChargeSchedule) InSCPeriod(policyYear uint32) bool {
	return s.GetRate(policyYear) > 0.0
}

// SCPeriodYears is the length of the surrender-charge schedule in years.
func (s SurrenderChargeSchedule) SCPeriodYears() uint32 {
	return uint32(len(s.charges))
}

type ageBandRate struct {
	minAge, maxAge uint8
	rate           float64
}

// PayoutFactors is the GLWB single-life payout rate by attained-age band.
type PayoutFactors struct {
	singleLife []ageBandRate
}

// DefaultPayoutFactors reproduces the Product features sheet's age bands.
func DefaultPayoutFactors() PayoutFactors {
	return PayoutFactors{singleLife: []ageBandRate{
		{50, 55, 0.046}, {56, 60, 0.050}, {61, 65, 0.055}, {66, 70, 0.060},
		{71, 75, 0.065}, {76, 80, 0.070}, {81, 85, 0.080}, {86, 120, 0.090},
	}}
}

// GetSingleLife returns the single-life payout factor for the given
// attained age, falling back to the top age band beyond the table.
func (p PayoutFactors) GetSingleLife(attainedAge uint8) float64 {
	for _, band := range p.singleLife {
		if attainedAge >= band.minAge && attainedAge <= band.maxAge {
			return band.rate
		}
	}
	return 0.090
}

// GLWBFeatures are the rider's economic terms: activation eligibility,
// benefit-base bonus and rollup, and rider charges.
type GLWBFeatures struct {
	MinActivationAge     uint8
	BonusRate            float64
	RollupRate           float64
	RollupYears          uint8
	SimpleRollup         bool
	PreActivationCharge  float64
	PostActivationCharge float64
	PayoutFactors        PayoutFactors
}

// DefaultGLWBFeatures is the standard rider configuration: activation at
// 50, 30% bonus, 10% simple rollup for 10 years, 0.5%/1.5% pre/post
// activation charges.
func DefaultGLWBFeatures() GLWBFeatures {
	return GLWBFeatures{
		MinActivationAge:     50,
		BonusRate:            0.30,
		RollupRate:           0.10,
		RollupYears:          10,
		SimpleRollup:         true,
		PreActivationCharge:  0.005,
		PostActivationCharge: 0.015,
		PayoutFactors:        DefaultPayoutFactors(),
	}
}

// MonthlyRiderCharge is the annual rider-charge rate (pre- or
// post-activation), divided by 12.
func (g GLWBFeatures) MonthlyRiderCharge(incomeActivated bool) decimal.Decimal {
	annualRate := g.PreActivationCharge
	if incomeActivated {
		annualRate = g.PostActivationCharge
	}
	return decimal.NewFromFloat(annualRate / 12.0)
}

// MonthlyRollupFactor is the multiplicative (simple) or compounding
// (compound) monthly benefit-base rollup factor; 1.0 once income is
// activated or the rollup period has elapsed.
func (g GLWBFeatures) MonthlyRollupFactor(policyYear uint32, incomeActivated bool) decimal.Decimal {
	if incomeActivated || policyYear > uint32(g.RollupYears) {
		return decimal.NewFromInt(1)
	}
	if g.SimpleRollup {
		return decimal.NewFromFloat(1.0 + g.RollupRate/12.0)
	}
	return decimal.NewFromFloat(math.Pow(1.0+g.RollupRate, 1.0/12.0))
}

// MaxAnnualWithdrawal is the benefit base times the age-banded single-life
// payout rate.
func (g GLWBFeatures) MaxAnnualWithdrawal(benefitBase decimal.Decimal, attainedAge uint8) decimal.Decimal {
	rate := g.PayoutFactors.GetSingleLife(attainedAge)
	return benefitBase.Mul(decimal.NewFromFloat(rate))
}

// BaseProductFeatures are the non-rider product terms.
type BaseProductFeatures struct {
	SurrenderCharges  SurrenderChargeSchedule
	FreeWithdrawalPct float64
	MinPremium        decimal.Decimal
	MaxPremium        decimal.Decimal
	MinIssueAge       uint8
	MaxIssueAge       uint8
	ExpenseRateOfAV   float64
}

// DefaultBaseProductFeatures is the standard product: 5% free withdrawal,
// $25k-$1M premium band, issue ages 40-80, 0.25% annual expense charge on
// EOP AV.
func DefaultBaseProductFeatures() BaseProductFeatures {
	return BaseProductFeatures{
		SurrenderCharges:  DefaultSurrenderChargeSchedule10Year(),
		FreeWithdrawalPct: 0.05,
		MinPremium:        decimal.NewFromInt(25_000),
		MaxPremium:        decimal.NewFromInt(1_000_000),
		MinIssueAge:       40,
		MaxIssueAge:       80,
		ExpenseRateOfAV:   0.0025,
	}
}

// commissionBand is one issue-age-banded commission rate set.
type commissionBand struct {
	minAge, maxAge                                      uint8
	agentRate, imoOverrideRate, wholesalerOverrideRate  float64
	imoConversionRate, wholesalerConversionRate         float64
	bonusCompRate                                        float64
}

// CommissionSchedule is the issue-age-banded first-year commission rate
// table applied to initial premium. The historical rates behind this
// table were not retained; the banded-lookup shape mirrors
// SurrenderChargeSchedule/PayoutFactors and the component breakdown
// mirrors the five-part commission tuple the projection kernel consumes.
type CommissionSchedule struct {
	bands []commissionBand
}

// DefaultCommissionSchedule is a single flat age band covering the
// product's full 40-80 issue-age range.
func DefaultCommissionSchedule() CommissionSchedule {
	return CommissionSchedule{bands: []commissionBand{
		{40, 80, 0.07, 0.02, 0.01, 0.02, 0.01, 0.01},
	}}
}

// BonusRate returns the month-13 bonus compensation rate, applied to BOP
// account value, for the given issue age.
func (c CommissionSchedule) BonusRate(issueAge uint8) float64 {
	return c.bandFor(issueAge).bonusCompRate
}

// ChargebackFactor returns the commission chargeback factor for early
// termination: full in the first six months of policy year 1, half for
// the remainder of year 1, zero from policy year 2 onward.
func (c CommissionSchedule) ChargebackFactor(projectionMonth, policyYear uint32) float64 {
	if policyYear > 1 {
		return 0.0
	}
	if projectionMonth > 6 {
		return 0.5
	}
	return 1.0
}

// CommissionComponents is the five-part first-year commission breakdown.
type CommissionComponents struct {
	Agent                   decimal.Decimal
	IMOOverride             decimal.Decimal
	IMOConversionOwed       decimal.Decimal
	WholesalerOverride      decimal.Decimal
	WholesalerConversionOwed decimal.Decimal
}

// Total sums the five commission components.
func (c CommissionComponents) Total() decimal.Decimal {
	return c.Agent.Add(c.IMOOverride).Add(c.IMOConversionOwed).
		Add(c.WholesalerOverride).Add(c.WholesalerConversionOwed)
}

// Calculate returns the five-part commission breakdown for the given
// initial premium and issue age, falling back to the schedule's last band
// beyond its configured age range.
func (c CommissionSchedule) Calculate(initialPremium decimal.Decimal, issueAge uint8) CommissionComponents {
	band := c.bandFor(issueAge)
	return CommissionComponents{
		Agent:                    initialPremium.Mul(decimal.NewFromFloat(band.agentRate)),
		IMOOverride:              initialPremium.Mul(decimal.NewFromFloat(band.imoOverrideRate)),
		IMOConversionOwed:        initialPremium.Mul(decimal.NewFromFloat(band.imoConversionRate)),
		WholesalerOverride:       initialPremium.Mul(decimal.NewFromFloat(band.wholesalerOverrideRate)),
		WholesalerConversionOwed: initialPremium.Mul(decimal.NewFromFloat(band.wholesalerConversionRate)),
	}
}

func (c CommissionSchedule) bandFor(issueAge uint8) commissionBand {
	for _, band := range c.bands {
		if issueAge >= band.minAge && issueAge <= band.maxAge {
			return band
		}
	}
	return c.bands[len(c.bands)-1]
}

// ProductFeatures combines the base (non-rider) and GLWB rider terms.
type ProductFeatures struct {
	Base        BaseProductFeatures
	GLWB        GLWBFeatures
	Commissions CommissionSchedule
}

// DefaultProductFeatures is the standard FIA/GLWB product configuration.
func DefaultProductFeatures() ProductFeatures {
	return ProductFeatures{
		Base:        DefaultBaseProductFeatures(),
		GLWB:        DefaultGLWBFeatures(),
		Commissions: DefaultCommissionSchedule(),
	}
}

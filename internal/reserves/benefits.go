package reserves

import (
	"math"

	"github.com/rpgo/fia-glwb-engine/internal/assumptions"
	"github.com/rpgo/fia-glwb-engine/internal/policy"
)

// BenefitCalculator computes present values of the death-benefit,
// income-benefit, and surrender-value streams a CARVM path evaluation
// needs, using a simplified forward projection (mortality, rollup, rider
// charges and systematic withdrawals; no credited interest) rather than
// the full monthly kernel — conservative, and fast
// enough to run once per candidate activation path.
type BenefitCalculator struct {
	assumptions          assumptions.Set
	discountCurve        DiscountCurve
	maxProjectionMonths  uint32
}

// NewBenefitCalculator builds a calculator against an explicit discount
// curve and projection horizon.
func NewBenefitCalculator(set assumptions.Set, curve DiscountCurve, maxProjectionMonths uint32) *BenefitCalculator {
	return &BenefitCalculator{assumptions: set, discountCurve: curve, maxProjectionMonths: maxProjectionMonths}
}

// BenefitCalculatorFromPolicy builds a calculator using the policy's own
// valuation rate as a flat discount curve and the standard 768-month
// horizon.
func BenefitCalculatorFromPolicy(set assumptions.Set, p policy.Policy) *BenefitCalculator {
	valRate, _ := p.ValRate.Float64()
	return NewBenefitCalculator(set, SingleRate(valRate), 768)
}

// DeathBenefitPV is the present value of death benefits along one
// candidate path: non-elective, so discounted at the mortality-weighted
// death-benefit rate.
func (c *BenefitCalculator) DeathBenefitPV(p policy.Policy, valuationMonth uint32, activationMonth *uint32, startingAV, startingBB float64) float64 {
	deathPV := 0.0
	survivalProb := 1.0

	projectedAV := startingAV
	projectedBB := startingBB

	vDeath := c.discountCurve.DeathBenefitDiscountFactor()

	for t := valuationMonth; t < c.maxProjectionMonths; t++ {
		monthsFromVal := t - valuationMonth

		state := StateAccumulation
		if activationMonth != nil && t >= *activationMonth {
			state = StateIncomeActive
		}

		attainedAge := p.AttainedAge(t)
		q, _ := c.assumptions.Mortality.MonthlyRate(attainedAge, p.Gender, t).Float64()

		db := c.deathBenefitAmount(state, projectedAV)

		deathPV += survivalProb * q * db * math.Pow(vDeath, float64(monthsFromVal))

		survivalProb *= 1.0 - q

		if survivalProb < 1e-10 {
			break
		}

		c.projectStateForward(p, t, state, &projectedAV, &projectedBB)
	}

	return deathPV
}

// deathBenefitAmount is the account value with no surrender charge —
// the benefit base only matters for the GLWB income stream, not the
// death benefit.
func (c *BenefitCalculator) deathBenefitAmount(state PolicyState, accountValue float64) float64 {
	switch state {
	case StateAccumulation, StateIncomeActive:
		return accountValue
	default:
		return 0.0
	}
}

// IncomeBenefitPV is the present value of GLWB income payments under a
// candidate path that activates at activationMonth. The monthly payment is
// startingBB times the payout rate at the activation age; startingBB is
// used as passed in and is not rolled forward to the activation month.
func (c *BenefitCalculator) IncomeBenefitPV(p policy.Policy, valuationMonth, activationMonth uint32, startingBB float64) float64 {
	if activationMonth < valuationMonth {
		return 0.0
	}

	incomePV := 0.0
	survivalProb := 1.0

	activationAge := p.AttainedAge(activationMonth)
	payoutRate := c.assumptions.Product.GLWB.PayoutFactors.GetSingleLife(activationAge)
	monthlyIncome := startingBB * payoutRate / 12.0

	vElective := c.discountCurve.ElectiveDiscountFactor()

	for t := valuationMonth; t < c.maxProjectionMonths; t++ {
		monthsFromVal := t - valuationMonth

		attainedAge := p.AttainedAge(t)
		q, _ := c.assumptions.Mortality.MonthlyRate(attainedAge, p.Gender, t).Float64()

		if t >= activationMonth {
			incomePV += survivalProb * monthlyIncome * math.Pow(vElective, float64(monthsFromVal))
		}

		survivalProb *= 1.0 - q

		if survivalProb < 1e-10 {
			break
		}
	}

	return incomePV
}

// RemainingIncomePV is the present value of the GLWB income stream for a
// cell already in income phase, at its locked payout rate.
func (c *BenefitCalculator) RemainingIncomePV(p policy.Policy, valuationMonth uint32, currentBB, lockedPayoutRate float64) float64 {
	incomePV := 0.0
	survivalProb := 1.0

	monthlyIncome := currentBB * lockedPayoutRate / 12.0
	vElective := c.discountCurve.ElectiveDiscountFactor()

	for t := valuationMonth; t < c.maxProjectionMonths; t++ {
		monthsFromVal := t - valuationMonth

		attainedAge := p.AttainedAge(t)
		q, _ := c.assumptions.Mortality.MonthlyRate(attainedAge, p.Gender, t).Float64()

		incomePV += survivalProb * monthlyIncome * math.Pow(vElective, float64(monthsFromVal))

		survivalProb *= 1.0 - q

		if survivalProb < 1e-10 {
			break
		}
	}

	return incomePV
}

// CashSurrenderValue is the account value net of the policy year's
// surrender charge.
func (c *BenefitCalculator) CashSurrenderValue(p policy.Policy, month uint32, accountValue float64) float64 {
	policyYear := p.PolicyYear(month)
	scRate := c.assumptions.Product.Base.SurrenderCharges.GetRate(policyYear)
	return accountValue * (1.0 - scRate)
}

// projectStateForward is a simplified one-month roll of AV/BB (mortality,
// rollup, year-end rider charge, and systematic withdrawal when income is
// active; crediting ignored) — conservative, and cheap
// enough to evaluate every candidate activation path.
func (c *BenefitCalculator) projectStateForward(p policy.Policy, month uint32, state PolicyState, av, bb *float64) {
	attainedAge := p.AttainedAge(month)
	policyYear := p.PolicyYear(month)
	monthInPY := p.MonthInPolicyYear(month)

	q, _ := c.assumptions.Mortality.MonthlyRate(attainedAge, p.Gender, month).Float64()

	riderCharge := 0.0
	if month%12 == 0 {
		rate := c.assumptions.Product.GLWB.PreActivationCharge
		if state == StateIncomeActive {
			rate = c.assumptions.Product.GLWB.PostActivationCharge
		}
		riderCharge = *bb * rate
	}

	systematicWD := 0.0
	if state == StateIncomeActive {
		payoutRate := c.assumptions.Product.GLWB.PayoutFactors.GetSingleLife(attainedAge)
		systematicWD = *bb * payoutRate / 12.0
	}

	*av = math.Max(0.0, *av-systematicWD-riderCharge)

	if state == StateAccumulation {
		if monthInPY == 12 && policyYear <= uint32(p.SCPeriod) {
			bbBonus := c.assumptions.Product.GLWB.BonusRate
			rollupRate := c.assumptions.Product.GLWB.RollupRate
			py := math.Min(float64(policyYear), 10.0)
			pyPrev := math.Min(float64(policyYear-1), 10.0)
			rollupFactor := (1.0 + bbBonus + rollupRate*py) / (1.0 + bbBonus + rollupRate*pyPrev)
			*bb *= rollupFactor
		}
	}

	*av *= 1.0 - q
	*bb *= 1.0 - q
}

// TotalReserveForPath combines death-benefit PV and elective-benefit PV
// for one candidate activation path (nil = never activate, in which case
// only the death-benefit PV is counted).
func (c *BenefitCalculator) TotalReserveForPath(p policy.Policy, valuationMonth uint32, activationMonth *uint32, startingAV, startingBB float64) float64 {
	deathPV := c.DeathBenefitPV(p, valuationMonth, activationMonth, startingAV, startingBB)

	electivePV := 0.0
	if activationMonth != nil {
		electivePV = c.IncomeBenefitPV(p, valuationMonth, *activationMonth, startingBB)
	}

	return deathPV + electivePV
}

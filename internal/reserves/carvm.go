package reserves

import (
	"math"

	"github.com/rpgo/fia-glwb-engine/internal/assumptions"
	"github.com/rpgo/fia-glwb-engine/internal/policy"
)

// CARVMMethod selects how the optimal activation path is searched.
type CARVMMethod int

const (
	// MethodBruteForce tests every possible activation month: O(T×N),
	// guaranteed correct.
	MethodBruteForce CARVMMethod = iota
	// MethodDynamicProgramming is the O(N) solver; not yet implemented,
	// falls back to brute force.
	MethodDynamicProgramming
	// MethodHybrid runs dynamic programming with brute-force
	// validation on a subset; not yet implemented, falls back to
	// brute force.
	MethodHybrid
)

// CARVMConfig parameterizes a CARVM calculator.
type CARVMConfig struct {
	Method                CARVMMethod
	MaxProjectionMonths   uint32
	UseCaching            bool
	RevalidationFrequency uint32
	RevalidationCriteria  RevalidationCriteria
	MaxDeferralYears      uint32
}

// DefaultCARVMConfig is the hybrid method (currently brute force), 64-year
// horizon, caching enabled, 30-year max deferral search.
func DefaultCARVMConfig() CARVMConfig {
	return CARVMConfig{
		Method:                MethodHybrid,
		MaxProjectionMonths:   768,
		UseCaching:            true,
		RevalidationFrequency: 12,
		RevalidationCriteria:  DefaultRevalidationCriteria(),
		MaxDeferralYears:      30,
	}
}

// CARVMCalculator finds the greatest-present-value policyholder-behavior
// path — for a GLWB contract, the optimal income activation month — and
// reports the resulting statutory reserve, floored at CSV.
type CARVMCalculator struct {
	assumptions assumptions.Set
	config      CARVMConfig
	cache       *Cache
}

// NewCARVMCalculator builds a calculator with explicit config.
func NewCARVMCalculator(set assumptions.Set, config CARVMConfig) *CARVMCalculator {
	return &CARVMCalculator{
		assumptions: set,
		config:      config,
		cache:       NewCacheWithCriteria(config.RevalidationCriteria),
	}
}

// NewCARVMCalculatorWithDefaults builds a calculator with DefaultCARVMConfig.
func NewCARVMCalculatorWithDefaults(set assumptions.Set) *CARVMCalculator {
	return NewCARVMCalculator(set, DefaultCARVMConfig())
}

// CacheStats returns (hits, misses, hit rate).
func (c *CARVMCalculator) CacheStats() (uint64, uint64, float64) {
	return c.cache.cacheHits, c.cache.cacheMisses, c.cache.HitRate()
}

// ClearCache empties the roll-forward cache.
func (c *CARVMCalculator) ClearCache() {
	c.cache.Clear()
}

// CalculateReserve is the calculator's single entry point: it tries the
// roll-forward cache first, falling back to a full CARVM solve.
func (c *CARVMCalculator) CalculateReserve(p policy.Policy, valuationMonth uint32) Result {
	policyID := p.PolicyID

	currentAV := c.avAtMonth(p, valuationMonth)
	currentBB := c.bbAtMonth(p, valuationMonth)

	if c.config.UseCaching {
		cached, ok := c.cache.Get(policyID)
		if ok {
			reason := c.config.RevalidationCriteria.NeedsRevalidation(cached, valuationMonth, currentAV, currentBB)
			if reason == "" {
				if reserve, rolled := c.tryRollForward(p, valuationMonth, cached); rolled {
					c.cache.RecordHit()

					csv := c.cashSurrenderValue(p, valuationMonth, currentAV)
					finalReserve := math.Max(reserve, csv)

					electivePV := reserve - cached.DeathBenefitPVRemaining
					surrenderPV := 0.0
					if math.Abs(finalReserve-csv) < 0.01 {
						surrenderPV = csv
					}

					return Result{
						PolicyID:               p.PolicyID,
						ValuationMonth:         valuationMonth,
						GrossReserve:           decimalOf(finalReserve),
						NetReserve:             decimalOf(finalReserve),
						OptimalActivationMonth: cached.OptimalActivationMonth,
						Components: ReserveComponents{
							DeathBenefitPV:    decimalOf(cached.DeathBenefitPVRemaining),
							IncomeBenefitPV:   decimalOf(electivePV),
							SurrenderValuePV:  decimalOf(surrenderPV),
							ElectiveBenefitPV: decimalOf(electivePV),
						},
						Method:         MethodCARVM,
						FromCache:      true,
						CSVAtValuation: decimalOf(csv),
					}
				}
				c.cache.RecordMiss()
			} else {
				c.cache.RecordRevalidation()
			}
		} else {
			c.cache.RecordMiss()
		}
	}

	return c.fullSolveAndCache(p, valuationMonth, currentAV, currentBB)
}

func (c *CARVMCalculator) fullSolveAndCache(p policy.Policy, valuationMonth uint32, currentAV, currentBB float64) Result {
	optimalMonth, reserve, components := c.solve(p, valuationMonth, currentAV, currentBB)

	csv := c.cashSurrenderValue(p, valuationMonth, currentAV)
	finalReserve := math.Max(reserve, csv)

	if c.config.UseCaching {
		monthlyIncome := 0.0
		if optimalMonth != NeverActivates {
			activationAge := p.AttainedAge(optimalMonth)
			payoutRate := c.assumptions.Product.GLWB.PayoutFactors.GetSingleLife(activationAge)
			monthlyIncome = currentBB * payoutRate / 12.0
		}

		scRate := c.assumptions.Product.Base.SurrenderCharges.GetRate(p.PolicyYear(valuationMonth))

		deathPV, _ := components.DeathBenefitPV.Float64()
		cached := NewCachedPath(p.PolicyID, valuationMonth, optimalMonth, reserve, currentAV, currentBB, monthlyIncome, deathPV, scRate)
		c.cache.Insert(cached)
	}

	isCSVBinding := math.Abs(finalReserve-csv) < 0.01

	activation := optimalMonth
	if isCSVBinding {
		activation = NeverActivates
		components.SurrenderValuePV = decimalOf(csv)
	}

	return Result{
		PolicyID:               p.PolicyID,
		ValuationMonth:         valuationMonth,
		GrossReserve:           decimalOf(finalReserve),
		NetReserve:             decimalOf(finalReserve),
		OptimalActivationMonth: activation,
		Components:             components,
		Method:                 MethodCARVM,
		FromCache:              false,
		CSVAtValuation:         decimalOf(csv),
	}
}

func (c *CARVMCalculator) solve(p policy.Policy, valuationMonth uint32, currentAV, currentBB float64) (uint32, float64, ReserveComponents) {
	switch c.config.Method {
	case MethodBruteForce:
		return c.bruteForceSolve(p, valuationMonth, currentAV, currentBB)
	default:
		// Dynamic programming and hybrid solvers are not yet
		// implemented; brute force is exact, just slower.
		return c.bruteForceSolve(p, valuationMonth, currentAV, currentBB)
	}
}

// bruteForceSolve tests every candidate activation month in
// [valuationMonth, valuationMonth+maxDeferralYears*12] plus the
// never-activate path, keeping the greatest total present value.
func (c *CARVMCalculator) bruteForceSolve(p policy.Policy, valuationMonth uint32, currentAV, currentBB float64) (uint32, float64, ReserveComponents) {
	valRate, _ := p.ValRate.Float64()
	curve := SingleRate(valRate)
	benefitCalc := NewBenefitCalculator(c.assumptions, curve, c.config.MaxProjectionMonths)

	bestReserve := 0.0
	bestActivation := NeverActivates
	var bestComponents ReserveComponents

	maxDeferral := valuationMonth + c.config.MaxDeferralYears*12
	if maxDeferral > c.config.MaxProjectionMonths {
		maxDeferral = c.config.MaxProjectionMonths
	}

	for activationMonth := valuationMonth; activationMonth <= maxDeferral; activationMonth++ {
		am := activationMonth
		deathPV := benefitCalc.DeathBenefitPV(p, valuationMonth, &am, currentAV, currentBB)
		incomePV := benefitCalc.IncomeBenefitPV(p, valuationMonth, activationMonth, currentBB)

		total := deathPV + incomePV
		if total > bestReserve {
			bestReserve = total
			bestActivation = activationMonth
			bestComponents = ReserveComponents{
				DeathBenefitPV:    decimalOf(deathPV),
				IncomeBenefitPV:   decimalOf(incomePV),
				ElectiveBenefitPV: decimalOf(incomePV),
			}
		}
	}

	neverDeathPV := benefitCalc.DeathBenefitPV(p, valuationMonth, nil, currentAV, currentBB)
	if neverDeathPV > bestReserve {
		bestReserve = neverDeathPV
		bestActivation = NeverActivates
		bestComponents = ReserveComponents{DeathBenefitPV: decimalOf(neverDeathPV)}
	}

	return bestActivation, bestReserve, bestComponents
}

// tryRollForward attempts the cheap roll-forward path instead of a full
// re-solve: before the cached optimal activation month, scale the cached
// reserve for mortality and time value; at or after it, take the simple
// PV of the remaining (locked-in) income and death benefit streams.
func (c *CARVMCalculator) tryRollForward(p policy.Policy, valuationMonth uint32, cached CachedPath) (float64, bool) {
	tStar := cached.OptimalActivationMonth

	currentAV := c.avAtMonth(p, valuationMonth)
	currentBB := c.bbAtMonth(p, valuationMonth)

	if valuationMonth < tStar {
		rolled := c.rollAccumulationReserve(cached.ReserveAtSolve, p, cached.SolveMonth, valuationMonth)

		currentITM := math.MaxFloat64
		if currentAV > 0.0 {
			currentITM = currentBB / currentAV
		}
		_ = math.Abs(currentITM-cached.ITMAtSolve) / math.Max(cached.ITMAtSolve, 0.01)

		return rolled, true
	}

	if valuationMonth >= tStar && tStar != NeverActivates {
		valRate, _ := p.ValRate.Float64()
		curve := SingleRate(valRate)
		benefitCalc := NewBenefitCalculator(c.assumptions, curve, c.config.MaxProjectionMonths)

		activationAge := p.AttainedAge(tStar)
		payoutRate := c.assumptions.Product.GLWB.PayoutFactors.GetSingleLife(activationAge)

		incomePV := benefitCalc.RemainingIncomePV(p, valuationMonth, currentBB, payoutRate)
		deathPV := benefitCalc.DeathBenefitPV(p, valuationMonth, &tStar, currentAV, currentBB)

		return incomePV + deathPV, true
	}

	return 0.0, false
}

// rollAccumulationReserve scales a cached reserve forward through
// accumulation months by time value and mortality, ignoring the cost of
// interim death benefit claims — a simplification acceptable over the
// cache's short revalidation window.
func (c *CARVMCalculator) rollAccumulationReserve(rPrev float64, p policy.Policy, tPrev, tNow uint32) float64 {
	valRate, _ := p.ValRate.Float64()
	v := 1.0 / (1.0 + valRate/12.0)
	reserve := rPrev

	for t := tPrev; t < tNow; t++ {
		attainedAge := p.AttainedAge(t)
		q, _ := c.assumptions.Mortality.MonthlyRate(attainedAge, p.Gender, t).Float64()
		surviving := 1.0 - q
		reserve = reserve / (surviving * v)
	}

	return reserve
}

// avAtMonth and bbAtMonth are simplified lookups the solver uses to avoid
// running a full projection per candidate path: at the valuation date they
// return the policy's starting values; a caller that already has an actual
// projected AV/BB for a later valuation month should call CalculateReserve
// on a WithGLWBStart-seasoned copy of the policy instead.
func (c *CARVMCalculator) avAtMonth(p policy.Policy, month uint32) float64 {
	av, _ := p.StartingAV().Float64()
	return av
}

func (c *CARVMCalculator) bbAtMonth(p policy.Policy, month uint32) float64 {
	bb, _ := p.StartingBenefitBase().Float64()
	return bb
}

func (c *CARVMCalculator) cashSurrenderValue(p policy.Policy, month uint32, av float64) float64 {
	policyYear := p.PolicyYear(month)
	scRate := c.assumptions.Product.Base.SurrenderCharges.GetRate(policyYear)
	return av * (1.0 - scRate)
}

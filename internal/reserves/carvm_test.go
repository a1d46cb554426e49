package reserves

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/rpgo/fia-glwb-engine/internal/assumptions"
	"github.com/rpgo/fia-glwb-engine/internal/policy"
)

func testCARVMPolicy() policy.Policy {
	return policy.New(
		2800,
		policy.QualStatusQualified,
		65,
		policy.GenderMale,
		decimal.NewFromInt(130_000),
		decimal.NewFromInt(1),
		decimal.NewFromInt(100_000),
		policy.CreditingIndexed,
		10,
		decimal.NewFromFloat(0.0475),
		decimal.NewFromFloat(0.01),
		decimal.NewFromFloat(0.3),
		policy.RollupSimple,
	)
}

func fastCARVMConfig() CARVMConfig {
	cfg := DefaultCARVMConfig()
	cfg.Method = MethodBruteForce
	cfg.MaxProjectionMonths = 120
	cfg.MaxDeferralYears = 10
	return cfg
}

func TestCARVMCalculatorCreation(t *testing.T) {
	set := assumptions.LoadDefault()
	calc := NewCARVMCalculator(set, DefaultCARVMConfig())
	assert.True(t, calc.config.UseCaching)
}

func TestCARVMReserveCalculation(t *testing.T) {
	set := assumptions.LoadDefault()
	config := fastCARVMConfig()
	calc := NewCARVMCalculator(set, config)
	p := testCARVMPolicy()

	result := calc.CalculateReserve(p, 0)

	assert.True(t, result.GrossReserve.GreaterThan(decimal.Zero))

	startingAV, _ := p.StartingAV().Float64()
	csv, _ := result.CSVAtValuation.Float64()
	assert.Less(t, csv, startingAV)
}

func TestCARVMCacheBehavior(t *testing.T) {
	set := assumptions.LoadDefault()
	config := fastCARVMConfig()
	config.MaxProjectionMonths = 60
	config.MaxDeferralYears = 5
	config.UseCaching = true
	calc := NewCARVMCalculator(set, config)
	p := testCARVMPolicy()

	calc.CalculateReserve(p, 0)
	hits, misses, _ := calc.CacheStats()
	assert.Equal(t, uint64(0), hits)
	assert.Equal(t, uint64(1), misses)

	calc.CalculateReserve(p, 0)
}

func TestCARVMCSVIsFloor(t *testing.T) {
	set := assumptions.LoadDefault()
	config := fastCARVMConfig()
	config.UseCaching = false
	calc := NewCARVMCalculator(set, config)
	p := testCARVMPolicy()

	result := calc.CalculateReserve(p, 0)

	gross, _ := result.GrossReserve.Float64()
	csv, _ := result.CSVAtValuation.Float64()
	assert.GreaterOrEqual(t, gross, csv-0.01)
}

func TestCARVMReserveComponentsSum(t *testing.T) {
	set := assumptions.LoadDefault()
	config := fastCARVMConfig()
	config.UseCaching = false
	calc := NewCARVMCalculator(set, config)
	p := testCARVMPolicy()

	result := calc.CalculateReserve(p, 0)

	if !result.IsCSVBinding() {
		sum := result.Components.DeathBenefitPV.Add(result.Components.ElectiveBenefitPV)
		diff := sum.Sub(result.GrossReserve).Abs()
		assert.True(t, diff.LessThan(decimal.NewFromInt(1)),
			"components sum %s should equal gross reserve %s", sum, result.GrossReserve)
	}
}

func TestCARVMDifferentAges(t *testing.T) {
	set := assumptions.LoadDefault()
	config := fastCARVMConfig()
	config.UseCaching = false
	calc := NewCARVMCalculator(set, config)

	policyYoung := policy.New(1, policy.QualStatusQualified, 55, policy.GenderMale,
		decimal.NewFromInt(130_000), decimal.NewFromInt(1), decimal.NewFromInt(100_000),
		policy.CreditingIndexed, 10, decimal.NewFromFloat(0.0475), decimal.NewFromFloat(0.01),
		decimal.NewFromFloat(0.3), policy.RollupSimple)

	policyOld := policy.New(2, policy.QualStatusQualified, 70, policy.GenderMale,
		decimal.NewFromInt(130_000), decimal.NewFromInt(1), decimal.NewFromInt(100_000),
		policy.CreditingIndexed, 10, decimal.NewFromFloat(0.0475), decimal.NewFromFloat(0.01),
		decimal.NewFromFloat(0.3), policy.RollupSimple)

	resultYoung := calc.CalculateReserve(policyYoung, 0)
	resultOld := calc.CalculateReserve(policyOld, 0)

	assert.True(t, resultYoung.GrossReserve.GreaterThan(decimal.Zero))
	assert.True(t, resultOld.GrossReserve.GreaterThan(decimal.Zero))

	if !resultYoung.IsCSVBinding() && !resultOld.IsCSVBinding() {
		assert.LessOrEqual(t, resultOld.OptimalActivationMonth, resultYoung.OptimalActivationMonth)
	}
}

func TestCARVMHighITMVsLowITM(t *testing.T) {
	set := assumptions.LoadDefault()
	config := fastCARVMConfig()
	config.UseCaching = false
	calc := NewCARVMCalculator(set, config)

	policyLowITM := policy.New(1, policy.QualStatusQualified, 65, policy.GenderMale,
		decimal.NewFromInt(100_000), decimal.NewFromInt(1), decimal.NewFromInt(100_000),
		policy.CreditingIndexed, 10, decimal.NewFromFloat(0.0475), decimal.NewFromFloat(0.01),
		decimal.NewFromFloat(0.3), policy.RollupSimple)

	policyHighITM := policy.New(2, policy.QualStatusQualified, 65, policy.GenderMale,
		decimal.NewFromInt(150_000), decimal.NewFromInt(1), decimal.NewFromInt(100_000),
		policy.CreditingIndexed, 10, decimal.NewFromFloat(0.0475), decimal.NewFromFloat(0.01),
		decimal.NewFromFloat(0.3), policy.RollupSimple)

	resultLow := calc.CalculateReserve(policyLowITM, 0)
	resultHigh := calc.CalculateReserve(policyHighITM, 0)

	assert.True(t, resultLow.GrossReserve.GreaterThan(decimal.Zero))
	assert.True(t, resultHigh.GrossReserve.GreaterThan(decimal.Zero))
	assert.True(t, resultHigh.GrossReserve.GreaterThanOrEqual(resultLow.GrossReserve))
}

func TestCARVMOptimalActivationWithinBounds(t *testing.T) {
	set := assumptions.LoadDefault()
	config := fastCARVMConfig()
	config.UseCaching = false
	calc := NewCARVMCalculator(set, config)
	p := testCARVMPolicy()

	result := calc.CalculateReserve(p, 0)

	if result.OptimalActivationMonth != NeverActivates {
		assert.LessOrEqual(t, result.OptimalActivationMonth, uint32(10*12))
	}
}

func TestCARVMReserveAtLaterMonths(t *testing.T) {
	set := assumptions.LoadDefault()
	config := fastCARVMConfig()
	config.UseCaching = true
	calc := NewCARVMCalculator(set, config)
	p := testCARVMPolicy()

	result0 := calc.CalculateReserve(p, 0)
	result12 := calc.CalculateReserve(p, 12)

	assert.True(t, result0.GrossReserve.GreaterThan(decimal.Zero))
	assert.True(t, result12.GrossReserve.GreaterThan(decimal.Zero))
}

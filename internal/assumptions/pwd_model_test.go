package assumptions

import (
	"math"
	"testing"

	"github.com/rpgo/fia-glwb-engine/internal/policy"
	"github.com/stretchr/testify/assert"
)

func TestRMDRates(t *testing.T) {
	rmd := DefaultRMDTable()

	assert.Zero(t, rmd.GetRate(70))
	assert.InDelta(t, 0.0377, rmd.GetRate(73), 0.001)
	assert.InDelta(t, 0.0437, rmd.GetRate(77), 0.001)
	assert.InDelta(t, 0.0625, rmd.GetRate(85), 0.001)
}

func TestFreeWithdrawalUtilization(t *testing.T) {
	util := DefaultFreeWithdrawalUtilization()

	assert.InDelta(t, 0.1, util.GetRate(1), 1e-9)
	assert.InDelta(t, 0.2, util.GetRate(2), 1e-9)
	assert.InDelta(t, 0.3, util.GetRate(3), 1e-9)
	assert.InDelta(t, 0.4, util.GetRate(4), 1e-9)
	assert.InDelta(t, 0.4, util.GetRate(10), 1e-9)
}

func TestPWDAnnualRate(t *testing.T) {
	pwd := DefaultPWDAssumptions()

	rate := pwd.AnnualRate(1, 60, policy.QualStatusNonQualified, false)
	assert.InDelta(t, 0.0, rate, 0.001)

	rateQ := pwd.AnnualRate(4, 77, policy.QualStatusQualified, false)
	assert.InDelta(t, 0.02, rateQ, 0.001)

	rateRMD := pwd.AnnualRate(4, 85, policy.QualStatusQualified, false)
	assert.InDelta(t, 0.025, rateRMD, 0.001)

	rateActivated := pwd.AnnualRate(4, 77, policy.QualStatusQualified, true)
	assert.Zero(t, rateActivated)
}

func TestPWDMonthlyRateAdjusted(t *testing.T) {
	pwd := DefaultPWDAssumptions()

	monthly := pwd.MonthlyRateAdjusted(4, 77, policy.QualStatusQualified, false)
	monthlyF, _ := monthly.Float64()
	expected := 1.0 - math.Pow(1.0-0.02, 1.0/12.0)
	assert.InDelta(t, expected, monthlyF, 0.0001)

	firstYear := pwd.MonthlyRateAdjusted(1, 77, policy.QualStatusQualified, false)
	assert.True(t, firstYear.IsZero())
}

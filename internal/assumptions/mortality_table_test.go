package assumptions

import (
	"testing"

	"github.com/rpgo/fia-glwb-engine/internal/policy"
	"github.com/stretchr/testify/assert"
)

func TestBaselineAnnualRateAge77Male(t *testing.T) {
	table := NewIAM2012WithImprovement()
	rate := table.BaselineAnnualRate(77, policy.GenderMale)
	assert.InDelta(t, 0.0216, rate, 1e-3)
}

func TestAgeFactorBoundaries(t *testing.T) {
	factors := DefaultAgeFactors()
	assert.InDelta(t, 0.6, factors[50], 1e-9)
	assert.InDelta(t, 0.6, factors[60], 1e-9)
	assert.InDelta(t, 0.8, factors[75], 1e-2)
	assert.InDelta(t, 1.0, factors[90], 1e-9)
	assert.InDelta(t, 1.0, factors[100], 1e-9)
}

func TestScaleAgeFactors(t *testing.T) {
	table := NewIAM2012WithImprovement()
	table.ScaleAgeFactors(1.1)
	assert.InDelta(t, 0.66, table.GetAgeFactor(60), 1e-9)
}

func TestMonthlyRateAge77Male(t *testing.T) {
	table := NewIAM2012WithImprovement()

	month1 := table.MonthlyRate(77, policy.GenderMale, 1)
	month1f, _ := month1.Float64()
	assert.InDelta(t, 0.0014907, month1f, 1e-5)

	month2 := table.MonthlyRate(77, policy.GenderMale, 2)
	month2f, _ := month2.Float64()
	assert.InDelta(t, 0.0014888, month2f, 1e-5)
}

func TestMonthlyRateImprovesOverTime(t *testing.T) {
	table := NewIAM2012WithImprovement()

	month1, _ := table.MonthlyRate(77, policy.GenderMale, 1).Float64()
	month13, _ := table.MonthlyRate(77, policy.GenderMale, 13).Float64()

	assert.Less(t, month13, month1)
	ratio := month13 / month1
	assert.InDelta(t, 0.985, ratio, 0.01)
}

func TestMonthlyRateBeyondTableEnd(t *testing.T) {
	table := NewIAM2012WithImprovement()
	rate, _ := table.MonthlyRate(121, policy.GenderFemale, 1).Float64()
	assert.InDelta(t, 1.0/12.0, rate, 1e-9)
}

func TestRawBaseRateMatchesTable(t *testing.T) {
	table := NewIAM2012WithImprovement()
	assert.InDelta(t, 0.0195, table.RawBaseRate(77, policy.GenderFemale), 1e-9)
	assert.InDelta(t, 0.026155, table.RawBaseRate(77, policy.GenderMale), 1e-9)
}

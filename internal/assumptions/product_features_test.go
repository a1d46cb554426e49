package assumptions

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSurrenderCharges(t *testing.T) {
	sc := DefaultSurrenderChargeSchedule10Year()

	assert.InDelta(t, 0.09, sc.GetRate(1), 1e-9)
	assert.InDelta(t, 0.06, sc.GetRate(5), 1e-9)
	assert.InDelta(t, 0.01, sc.GetRate(10), 1e-9)
	assert.Zero(t, sc.GetRate(11))
	assert.Zero(t, sc.GetRate(20))
}

func TestPayoutFactors(t *testing.T) {
	pf := DefaultPayoutFactors()

	assert.InDelta(t, 0.046, pf.GetSingleLife(52), 1e-9)
	assert.InDelta(t, 0.055, pf.GetSingleLife(65), 1e-9)
	assert.InDelta(t, 0.070, pf.GetSingleLife(77), 1e-9)
	assert.InDelta(t, 0.090, pf.GetSingleLife(90), 1e-9)
}

func TestGLWBRollup(t *testing.T) {
	glwb := DefaultGLWBFeatures()

	factor := glwb.MonthlyRollupFactor(1, false)
	factorF, _ := factor.Float64()
	assert.InDelta(t, 1.0+0.10/12.0, factorF, 1e-10)

	assert.True(t, glwb.MonthlyRollupFactor(1, true).Equal(decimal.NewFromInt(1)))
	assert.True(t, glwb.MonthlyRollupFactor(11, false).Equal(decimal.NewFromInt(1)))
}

func TestCommissionScheduleTotalsComponents(t *testing.T) {
	schedule := DefaultCommissionSchedule()
	components := schedule.Calculate(decimal.NewFromInt(100_000), 60)

	expectedTotal := components.Agent.Add(components.IMOOverride).
		Add(components.IMOConversionOwed).Add(components.WholesalerOverride).
		Add(components.WholesalerConversionOwed)
	assert.True(t, components.Total().Equal(expectedTotal))
	assert.True(t, components.Agent.GreaterThan(decimal.Zero))
}

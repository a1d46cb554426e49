package assumptions

import (
	"testing"

	"github.com/rpgo/fia-glwb-engine/internal/policy"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMonth1ZeroLapse(t *testing.T) {
	model := NewDefaultLapseModel()
	rate := model.MonthlyLapseRate(1, 1, false, 1.3)
	assert.True(t, rate.IsZero())
}

func TestLapseMonth2(t *testing.T) {
	model := NewDefaultLapseModel()

	itm := 27178.16 / 20906.28
	rate := model.MonthlyLapseRate(2, 1, false, itm)
	ratef, _ := rate.Float64()

	assert.InDelta(t, 0.000189, ratef, 0.00005)
}

func TestLapseBaseComponent(t *testing.T) {
	model := NewDefaultLapseModel()
	base := model.BaseComponent(1, false)
	assert.InDelta(t, -5.7448, base, 0.01)
}

func TestLapseDynamicComponent(t *testing.T) {
	model := NewDefaultLapseModel()
	dynamic := model.DynamicComponent(1.30, false)
	assert.InDelta(t, -0.347, dynamic, 0.01)
}

func TestShockYearHasHigherLapse(t *testing.T) {
	model := NewDefaultLapseModel()

	rate10 := model.MonthlyLapseRate(120, 10, false, 1.3)
	rate11 := model.MonthlyLapseRate(132, 11, false, 1.3)

	assert.True(t, rate11.GreaterThan(rate10))
}

func TestCalculateITMNess(t *testing.T) {
	bb := decimal.NewFromFloat(120_000.0)
	av := decimal.NewFromFloat(100_000.0)
	assert.InDelta(t, 1.2, CalculateITMNess(bb, av), 1e-9)

	bb2 := decimal.NewFromFloat(80_000.0)
	assert.InDelta(t, 0.8, CalculateITMNess(bb2, av), 1e-9)
}

func TestMonthlyLapseRateWithSkewFrontLoadsShockYear(t *testing.T) {
	model := NewDefaultLapseModel()

	month1 := model.MonthlyLapseRateWithSkew(121, 11, 1, false, 1.3, 10, policy.BucketUnder50k)
	month4 := model.MonthlyLapseRateWithSkew(124, 11, 4, false, 1.3, 10, policy.BucketUnder50k)

	assert.True(t, month1.GreaterThan(month4))
}

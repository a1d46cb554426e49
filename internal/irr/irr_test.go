package irr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimpleIRR(t *testing.T) {
	cashflows := make([]float64, 12)
	cashflows[0] = -1000.0
	cashflows[11] = 1100.0

	rate, ok := Calculate(cashflows, 12)
	require.True(t, ok)
	assert.InDelta(t, 0.1096, rate, 0.001)
}

func TestLevelCashflows(t *testing.T) {
	cashflows := make([]float64, 13)
	cashflows[0] = 10000.0
	for i := 1; i <= 12; i++ {
		cashflows[i] = -900.0
	}

	_, ok := Calculate(cashflows, 12)
	assert.True(t, ok)
}

func TestEmptySeriesHasNoIRR(t *testing.T) {
	_, ok := Calculate(nil, 12)
	assert.False(t, ok)
}

func TestAllZeroSeriesIsZeroRate(t *testing.T) {
	rate, ok := Calculate(make([]float64, 5), 12)
	require.True(t, ok)
	assert.Equal(t, 0.0, rate)
}

func TestNoSignChangeHasNoIRR(t *testing.T) {
	cashflows := []float64{100.0, 200.0, 300.0}
	_, ok := Calculate(cashflows, 12)
	assert.False(t, ok)
}

func TestCostOfFundsUsesMonthlyPeriods(t *testing.T) {
	cashflows := make([]float64, 12)
	cashflows[0] = -1000.0
	cashflows[11] = 1100.0

	rate, ok := CostOfFunds(cashflows)
	require.True(t, ok)
	assert.InDelta(t, 0.1096, rate, 0.001)
}

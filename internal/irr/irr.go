// Package irr computes the internal rate of return of a monthly cashflow
// series — used to derive the Cost of Funds, the effective annual cost of
// a block's net liability cashflows to the company.
package irr

import "math"

const (
	tolerance     = 1e-10
	maxIterations = 1000
	minRate       = -0.99
	maxRate       = 10.0
)

// Calculate returns the annualized internal rate of return of cashflows
// (index 0 is period 0, positive = inflow, negative = outflow), assuming
// periodsPerYear periods between compounding. It returns false if no rate
// could be found: an empty series, or a series with no sign change.
func Calculate(cashflows []float64, periodsPerYear uint32) (float64, bool) {
	if len(cashflows) == 0 {
		return 0.0, false
	}

	allZero := true
	hasPositive := false
	hasNegative := false
	for _, cf := range cashflows {
		if math.Abs(cf) >= 1e-10 {
			allZero = false
		}
		if cf > 1e-10 {
			hasPositive = true
		}
		if cf < -1e-10 {
			hasNegative = true
		}
	}
	if allZero {
		return 0.0, true
	}
	if !hasPositive || !hasNegative {
		return 0.0, false
	}

	rate := 0.05 / float64(periodsPerYear)

	for i := 0; i < maxIterations; i++ {
		npv, dnpv := npvAndDerivative(cashflows, rate)

		if math.Abs(dnpv) < 1e-20 {
			return bisection(cashflows, periodsPerYear)
		}

		newRate := rate - npv/dnpv
		newRate = math.Max(minRate, math.Min(maxRate, newRate))

		if math.Abs(newRate-rate) < tolerance {
			annualRate := math.Pow(1.0+newRate, float64(periodsPerYear)) - 1.0
			return annualRate, true
		}

		rate = newRate
	}

	return bisection(cashflows, periodsPerYear)
}

// CostOfFunds is Calculate against monthly net cashflows — the IRR of the
// liability cashflows, expressed as an annual rate.
func CostOfFunds(netCashflows []float64) (float64, bool) {
	return Calculate(netCashflows, 12)
}

func npvAndDerivative(cashflows []float64, rate float64) (float64, float64) {
	npv, dnpv := 0.0, 0.0
	for t, cf := range cashflows {
		discount := math.Pow(1.0+rate, float64(t))
		npv += cf / discount
		if t > 0 {
			dnpv -= float64(t) * cf / math.Pow(1.0+rate, float64(t+1))
		}
	}
	return npv, dnpv
}

func npvAtRate(cashflows []float64, rate float64) float64 {
	npv := 0.0
	for t, cf := range cashflows {
		npv += cf / math.Pow(1.0+rate, float64(t))
	}
	return npv
}

// bisection is the Newton-Raphson fallback when the derivative vanishes or
// the iteration fails to converge.
func bisection(cashflows []float64, periodsPerYear uint32) (float64, bool) {
	low, high := minRate, maxRate

	npvLow := npvAtRate(cashflows, low)
	npvHigh := npvAtRate(cashflows, high)
	if npvLow*npvHigh > 0.0 {
		return 0.0, false
	}

	for i := 0; i < maxIterations; i++ {
		mid := (low + high) / 2.0
		npvMid := npvAtRate(cashflows, mid)

		if math.Abs(npvMid) < tolerance || (high-low)/2.0 < tolerance {
			annualRate := math.Pow(1.0+mid, float64(periodsPerYear)) - 1.0
			return annualRate, true
		}

		if npvMid*npvAtRate(cashflows, low) < 0.0 {
			high = mid
		} else {
			low = mid
		}
	}

	return 0.0, false
}

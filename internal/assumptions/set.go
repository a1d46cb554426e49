// Package assumptions holds the decrement and product-feature tables the
// projection kernel consults each month: mortality with improvement, the
// predictive lapse model, the partial-withdrawal/RMD model, and the
// product's surrender-charge, payout, rollup, and commission schedules.
package assumptions

// Set aggregates every assumption table the projection kernel needs for a
// single run. It is immutable once built: callers load or construct one
// Set and share it, read-only, across every policy cell in a block.
type Set struct {
	Mortality *MortalityTable
	Lapse     *LapseModel
	PWD       PWDAssumptions
	Product   ProductFeatures
}

// LoadDefault builds the Set from the calibrated Excel-parity defaults:
// IAM 2012 Basic mortality with improvement, the default predictive lapse
// model, the default PWD/RMD assumptions, and the default product
// features.
func LoadDefault() Set {
	return Set{
		Mortality: NewIAM2012WithImprovement(),
		Lapse:     NewDefaultLapseModel(),
		PWD:       DefaultPWDAssumptions(),
		Product:   DefaultProductFeatures(),
	}
}

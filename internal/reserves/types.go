// Package reserves implements the statutory CARVM reserve calculation: the
// greatest-present-value benefit-stream optimizer, its roll-forward cache,
// and the present-value discounting and benefit-stream building blocks it
// depends on.
package reserves

import (
	"math"

	"github.com/shopspring/decimal"
)

// PolicyState is the contract's reserve-relevant lifecycle stage.
type PolicyState int

const (
	// StateAccumulation is pre-income: the policyholder can elect income
	// activation or surrender.
	StateAccumulation PolicyState = iota
	// StateIncomeActive is in GLWB withdrawal phase.
	StateIncomeActive
	// StateSurrendered is terminated via surrender.
	StateSurrendered
	// StateMatured is terminated via death or contractual maturity.
	StateMatured
)

// ProjectionState tracks the values the reserve benefit-stream builder
// needs at one projection month — a reserve-specific sibling of
// projection.State, carrying survival probability instead of lives.
type ProjectionState struct {
	Month                uint32
	PolicyState          PolicyState
	AccountValue         float64
	BenefitBase          float64
	CumulativeWithdrawals float64
	RemainingFreeAmount  float64
	SurvivalProbability  float64
	AttainedAge          uint8
	PolicyYear           uint32
}

// InitialReserveState builds the reserve projection state at the valuation
// date, defaulting the remaining free-withdrawal amount to 10% of account
// value.
func InitialReserveState(accountValue, benefitBase float64, attainedAge uint8, policyYear uint32, incomeActivated bool) ProjectionState {
	state := ProjectionState{
		Month:               0,
		AccountValue:        accountValue,
		BenefitBase:         benefitBase,
		RemainingFreeAmount: accountValue * 0.10,
		SurvivalProbability: 1.0,
		AttainedAge:         attainedAge,
		PolicyYear:          policyYear,
	}
	if incomeActivated {
		state.PolicyState = StateIncomeActive
	} else {
		state.PolicyState = StateAccumulation
	}
	return state
}

// ITMNess is benefit base / account value, or math.MaxFloat64 once account
// value is exhausted (every remaining benefit is maximally in-the-money).
func (s ProjectionState) ITMNess() float64 {
	if s.AccountValue <= 0.0 {
		return math.MaxFloat64
	}
	return s.BenefitBase / s.AccountValue
}

// ReserveMethod is the statutory reserve basis used for a calculation.
type ReserveMethod int

const (
	// MethodCARVM is the basic Commissioners Annuity Reserve Valuation
	// Method.
	MethodCARVM ReserveMethod = iota
	// MethodAG33 is CARVM generalized for contracts with elective
	// benefits (AG33).
	MethodAG33
	// MethodAG35Type1 is the basic AG35 computational method.
	MethodAG35Type1
	// MethodAG35Type2 requires "Hedged as Required" certification.
	MethodAG35Type2
	// MethodVM22 is the VM-22 principles-based reserve; ScenarioID
	// selects which scenario this calculation used.
	MethodVM22
)

// ReserveComponents breaks a reserve down by benefit type.
type ReserveComponents struct {
	DeathBenefitPV     decimal.Decimal
	IncomeBenefitPV    decimal.Decimal
	SurrenderValuePV   decimal.Decimal
	ElectiveBenefitPV  decimal.Decimal
	FreePWDPV          decimal.Decimal
}

// Total is the non-elective death benefit PV plus the elective benefit PV
// — the reserve components that are actually summed, matching the
// reference CARVM result (surrender/free-PWD PVs are diagnostic, not
// additive, since they're already reflected inside ElectiveBenefitPV when
// one of those paths is the greatest-PV path).
func (c ReserveComponents) Total() decimal.Decimal {
	return c.DeathBenefitPV.Add(c.ElectiveBenefitPV)
}

// Result is one policy's reserve calculation output at a valuation date.
type Result struct {
	PolicyID              uint32
	ValuationMonth        uint32
	GrossReserve          decimal.Decimal
	NetReserve            decimal.Decimal
	OptimalActivationMonth uint32
	Components            ReserveComponents
	Method                ReserveMethod
	FromCache             bool
	CSVAtValuation        decimal.Decimal
	ScenarioID            uint32
}

// NeverActivates is the OptimalActivationMonth sentinel meaning "never
// activate income" is the greatest-PV path.
const NeverActivates uint32 = 1<<32 - 1

// IsCSVBinding reports whether the gross reserve equals the cash surrender
// value, within a cent.
func (r Result) IsCSVBinding() bool {
	diff := r.GrossReserve.Sub(r.CSVAtValuation).Abs()
	return diff.LessThan(decimal.NewFromFloat(0.01))
}

// Config parameterizes a reserve calculation run.
type Config struct {
	MaxProjectionMonths    uint32
	ValuationMonth         uint32
	ForcedActivationMonth  *uint32
	DetailedOutput         bool
}

// DefaultConfig is a 768-month (64-year) run from issue with the
// optimizer free to choose the activation month.
func DefaultConfig() Config {
	return Config{
		MaxProjectionMonths: 768,
		ValuationMonth:      0,
		DetailedOutput:      false,
	}
}

// decimalOf converts an internal float64 result to the package's decimal
// boundary type.
func decimalOf(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

// Package projection implements the monthly liability-cashflow kernel: the
// per-cell account value, benefit base, decrement, and cashflow recursion
// driven by the assumption tables in internal/assumptions.
package projection

import (
	"github.com/rpgo/fia-glwb-engine/internal/policy"
)

// State carries one policy cell's running projection values between
// months. Internal arithmetic is float64, matching the precision-
// sensitive proportional decrement allocation; Policy/CashflowRow carry
// decimal.Decimal at the package boundary.
type State struct {
	ProjectionMonth    uint32
	PolicyYear         uint32
	MonthInPolicyYear  uint32
	AttainedAge        uint8

	BOPAV            float64
	BOPBenefitBase   float64
	EOPAV            float64
	Lives            float64
	InitialLives     float64

	AVPersistency    float64
	BBPersistency    float64
	LivesPersistency float64

	IncomeActivated bool
	LockedPayoutRate *float64

	YTDSystematicWD    float64
	YTDNonSystematicWD float64
	InitialBenefitBase float64

	// PriorBOPAV/PriorBOPBB support the lapse model's lagged ITM-ness
	// lookup, matching the reference spreadsheet's row-N-uses-row-(N-1)
	// behavior.
	PriorBOPAV float64
	PriorBOPBB float64

	FirstMonthTotalCommission float64
}

// FromPolicy initializes projection state at month 0, immediately before
// the first advance.
func FromPolicy(p policy.Policy) *State {
	startingAV, _ := p.StartingAV().Float64()
	startingBB, _ := p.StartingBenefitBase().Float64()
	lives, _ := p.InitialPols.Float64()

	return &State{
		ProjectionMonth:    0,
		PolicyYear:         1,
		MonthInPolicyYear:  0,
		AttainedAge:        p.IssueAge,
		BOPAV:              startingAV,
		BOPBenefitBase:     startingBB,
		EOPAV:              startingAV,
		Lives:              lives,
		InitialLives:       lives,
		AVPersistency:      1.0,
		BBPersistency:      1.0,
		LivesPersistency:   1.0,
		IncomeActivated:    p.IncomeActivated,
		InitialBenefitBase: startingBB,
		PriorBOPAV:         startingAV,
		PriorBOPBB:         startingBB,
	}
}

// AdvanceMonth moves the state forward one projection month: timing,
// income activation, year-to-date resets, and BOP AV carry-forward. The
// caller saves PriorBOPAV/PriorBOPBB before calling Engine.updateBenefitBase for
// this month, and calls AdvanceMonth again before the next.
func (s *State) AdvanceMonth(p policy.Policy) {
	s.ProjectionMonth++

	s.PolicyYear = p.PolicyYear(s.ProjectionMonth)
	s.MonthInPolicyYear = p.MonthInPolicyYear(s.ProjectionMonth)
	s.AttainedAge = p.AttainedAge(s.ProjectionMonth)

	if !s.IncomeActivated && p.ShouldActivateIncome(s.ProjectionMonth) {
		s.IncomeActivated = true
	}

	if s.MonthInPolicyYear == 1 {
		s.YTDSystematicWD = 0.0
		s.YTDNonSystematicWD = 0.0
	}

	s.BOPAV = s.EOPAV
}

// PreDecrementAV is the account value before this month's decrements are
// applied.
func (s *State) PreDecrementAV() float64 {
	return s.BOPAV
}

// ITMNess is benefit base / account value at BOP, floored to 1.0 when AV
// is non-positive.
func (s *State) ITMNess() float64 {
	if s.BOPAV <= 0.0 {
		return 1.0
	}
	return s.BOPBenefitBase / s.BOPAV
}

// PriorITM is the prior month's ITM-ness, used by the lapse model's
// dynamic component to match the reference spreadsheet's one-row lag.
func (s *State) PriorITM() float64 {
	if s.PriorBOPAV <= 0.0 {
		return 1.0
	}
	return s.PriorBOPBB / s.PriorBOPAV
}

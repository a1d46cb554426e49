package projection

import (
	"math"

	"github.com/rpgo/fia-glwb-engine/internal/policy"
)

// CreditingApproach computes the monthly credited rate for one cell,
// given the current projection state. Concrete implementations are the
// tagged variants of the product's crediting method.
type CreditingApproach interface {
	MonthlyRate(p policy.Policy, s *State) float64
}

// OptionBudgetCrediting credits a fixed spread over risk-free plus an
// optional equity kicker, evenly every month.
type OptionBudgetCrediting struct {
	BudgetRate   float64
	EquityKicker float64
}

func (c OptionBudgetCrediting) MonthlyRate(_ policy.Policy, _ *State) float64 {
	return (c.BudgetRate + c.EquityKicker) / 12.0
}

// ScenarioBasedCrediting credits a floored/capped participation of a
// supplied index return, evenly every month.
type ScenarioBasedCrediting struct {
	Floor         float64
	Cap           float64
	Participation float64
	IndexReturn   float64
}

func (c ScenarioBasedCrediting) MonthlyRate(_ policy.Policy, _ *State) float64 {
	raw := c.IndexReturn * c.Participation
	return math.Max(c.Floor, math.Min(c.Cap, raw)) / 12.0
}

// FixedCrediting credits a flat annual rate, evenly every month.
type FixedCrediting struct {
	AnnualRate float64
}

func (c FixedCrediting) MonthlyRate(_ policy.Policy, _ *State) float64 {
	return c.AnnualRate / 12.0
}

// IndexedAnnualCrediting credits the full annual rate once per policy
// year, at month 1 of the following year, at half rate after year 10.
type IndexedAnnualCrediting struct {
	AnnualRate float64
}

func (c IndexedAnnualCrediting) MonthlyRate(_ policy.Policy, s *State) float64 {
	if s.MonthInPolicyYear != 1 || s.PolicyYear <= 1 {
		return 0.0
	}
	creditingForYear := s.PolicyYear - 1
	multiplier := 1.0
	if creditingForYear > 10 {
		multiplier = 0.5
	}
	return c.AnnualRate * multiplier
}

// PolicyBasedCrediting uses each cell's own CreditingStrategy to choose
// between monthly-compounded fixed crediting and annual indexed
// crediting, both halved after policy year 10.
type PolicyBasedCrediting struct {
	FixedAnnualRate   float64
	IndexedAnnualRate float64
}

func (c PolicyBasedCrediting) MonthlyRate(p policy.Policy, s *State) float64 {
	multiplier := 1.0
	if s.PolicyYear > 10 {
		multiplier = 0.5
	}

	switch p.CreditingStrategy {
	case policy.CreditingFixed:
		annual := c.FixedAnnualRate * multiplier
		return math.Pow(1.0+annual, 1.0/12.0) - 1.0
	default: // policy.CreditingIndexed
		if s.MonthInPolicyYear != 1 || s.PolicyYear <= 1 {
			return 0.0
		}
		creditingForYear := s.PolicyYear - 1
		mult := 1.0
		if creditingForYear > 10 {
			mult = 0.5
		}
		return c.IndexedAnnualRate * mult
	}
}

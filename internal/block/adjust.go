package block

import (
	"github.com/shopspring/decimal"

	"github.com/rpgo/fia-glwb-engine/internal/policy"
)

// InforceAdjustment scales a block's loaded inforce before projection —
// e.g. to model a reinsurance quota share, a block acquisition haircut,
// or a what-if re-pricing — without touching the original load.
type InforceAdjustment struct {
	// FixedPct scales every cell's lives count (InitialPols), e.g. 0.5
	// to model a 50% quota-share cession. Zero value (decimal.Zero)
	// means "no fixed-pct adjustment applied" — use NoAdjustment to get
	// an identity adjustment.
	FixedPct decimal.Decimal

	// GenderMultiplier and QualMultiplier further scale lives by the
	// cell's gender/qualification status, applied multiplicatively
	// after FixedPct. A missing key leaves that gender/qual unscaled.
	GenderMultiplier map[policy.Gender]decimal.Decimal
	QualMultiplier   map[policy.QualStatus]decimal.Decimal

	// BBBonus is an additional one-time percentage added to every
	// cell's benefit base (e.g. a re-pricing bonus bump), applied as
	// InitialBenefitBase *= (1 + BBBonus).
	BBBonus decimal.Decimal

	// TargetPremium, if set, overrides every cell's InitialPremium —
	// used to re-run a block at a different assumed average premium.
	TargetPremium *decimal.Decimal
}

// NoAdjustment is the identity InforceAdjustment: lives and benefit base
// pass through unchanged.
func NoAdjustment() InforceAdjustment {
	return InforceAdjustment{FixedPct: decimal.NewFromInt(1)}
}

// AdjustInforce returns a new slice of cells with adj applied; the input
// slice and its policies are never mutated.
func AdjustInforce(cells []policy.Policy, adj InforceAdjustment) []policy.Policy {
	out := make([]policy.Policy, len(cells))

	fixedPct := adj.FixedPct
	if fixedPct.IsZero() {
		fixedPct = decimal.NewFromInt(1)
	}

	for i, cell := range cells {
		adjusted := cell

		livesFactor := fixedPct
		if mult, ok := adj.GenderMultiplier[cell.Gender]; ok {
			livesFactor = livesFactor.Mul(mult)
		}
		if mult, ok := adj.QualMultiplier[cell.QualStatus]; ok {
			livesFactor = livesFactor.Mul(mult)
		}
		adjusted.InitialPols = cell.InitialPols.Mul(livesFactor)

		if !adj.BBBonus.IsZero() {
			one := decimal.NewFromInt(1)
			adjusted.InitialBenefitBase = cell.InitialBenefitBase.Mul(one.Add(adj.BBBonus))
		}

		if adj.TargetPremium != nil {
			adjusted.InitialPremium = *adj.TargetPremium
		}

		out[i] = adjusted
	}

	return out
}

// InforceFilter selects a subset of cells by the named predicates; a nil
// pointer/slice field means "no constraint on this dimension".
type InforceFilter struct {
	Genders     []policy.Gender
	QualStatus  []policy.QualStatus
	Crediting   []policy.CreditingStrategy
	Buckets     []policy.BenefitBaseBucket
	MinIssueAge *uint8
	MaxIssueAge *uint8

	// GLWBStartYear, if set, keeps only cells activating income in
	// exactly that policy year (policy.NeverActivates to select cells
	// that never activate).
	GLWBStartYear *uint32
}

// Filter returns the subset of cells matching every non-nil/non-empty
// predicate in f.
func Filter(cells []policy.Policy, f InforceFilter) []policy.Policy {
	out := make([]policy.Policy, 0, len(cells))

	for _, cell := range cells {
		if len(f.Genders) > 0 && !containsGender(f.Genders, cell.Gender) {
			continue
		}
		if len(f.QualStatus) > 0 && !containsQual(f.QualStatus, cell.QualStatus) {
			continue
		}
		if len(f.Crediting) > 0 && !containsCrediting(f.Crediting, cell.CreditingStrategy) {
			continue
		}
		if len(f.Buckets) > 0 && !containsBucket(f.Buckets, cell.BenefitBaseBucket) {
			continue
		}
		if f.MinIssueAge != nil && cell.IssueAge < *f.MinIssueAge {
			continue
		}
		if f.MaxIssueAge != nil && cell.IssueAge > *f.MaxIssueAge {
			continue
		}
		if f.GLWBStartYear != nil && cell.GLWBStartYear != *f.GLWBStartYear {
			continue
		}
		out = append(out, cell)
	}

	return out
}

func containsGender(list []policy.Gender, v policy.Gender) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func containsQual(list []policy.QualStatus, v policy.QualStatus) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func containsCrediting(list []policy.CreditingStrategy, v policy.CreditingStrategy) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func containsBucket(list []policy.BenefitBaseBucket, v policy.BenefitBaseBucket) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

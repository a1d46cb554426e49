// Package policy defines the FIA/GLWB seriatim policy cell and the
// duration/age arithmetic the rest of the engine depends on.
package policy

import "github.com/shopspring/decimal"

// QualStatus marks whether a contract's premium is qualified (pre-tax,
// RMD-subject) or non-qualified money.
type QualStatus string

const (
	QualStatusQualified    QualStatus = "Q"
	QualStatusNonQualified QualStatus = "N"
)

// Gender selects which column of the mortality table applies.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

// CreditingStrategy selects which family of crediting approach a cell uses.
type CreditingStrategy string

const (
	CreditingIndexed CreditingStrategy = "Indexed"
	CreditingFixed   CreditingStrategy = "Fixed"
)

// RollupType selects simple vs compound benefit-base rollup.
type RollupType string

const (
	RollupSimple   RollupType = "Simple"
	RollupCompound RollupType = "Compound"
)

// BenefitBaseBucket is one of five per-life benefit-base ranges used to key
// the lapse model's bucket coefficients. The top two buckets share lapse
// coefficients per the spec's data model.
type BenefitBaseBucket string

const (
	BucketUnder50k      BenefitBaseBucket = "[0, 50000)"
	Bucket50kTo100k     BenefitBaseBucket = "[50000, 100000)"
	Bucket100kTo200k    BenefitBaseBucket = "[100000, 200000)"
	Bucket200kTo500k    BenefitBaseBucket = "[200000, 500000)"
	BucketOver500k      BenefitBaseBucket = "[500000, Inf)"
)

// BucketFromAmount classifies a per-life benefit base into its bucket.
func BucketFromAmount(amount decimal.Decimal) BenefitBaseBucket {
	switch {
	case amount.LessThan(decimal.NewFromInt(50_000)):
		return BucketUnder50k
	case amount.LessThan(decimal.NewFromInt(100_000)):
		return Bucket50kTo100k
	case amount.LessThan(decimal.NewFromInt(200_000)):
		return Bucket100kTo200k
	case amount.LessThan(decimal.NewFromInt(500_000)):
		return Bucket200kTo500k
	default:
		return BucketOver500k
	}
}

// NeverActivates is the sentinel policy_year value meaning the GLWB income
// rider never activates (inforce CSV encodes this as GLWBStartYear = 99).
const NeverActivates uint32 = 99

// Policy is a single seriatim inforce cell: a group of contracts sharing
// every rate and demographic assumption, distinguished only by a
// (possibly fractional) lives count.
type Policy struct {
	PolicyID          uint32
	QualStatus        QualStatus
	IssueAge          uint8
	Gender            Gender
	InitialBenefitBase decimal.Decimal
	InitialPols       decimal.Decimal
	InitialPremium    decimal.Decimal
	BenefitBaseBucket BenefitBaseBucket
	Percentage        decimal.Decimal
	CreditingStrategy CreditingStrategy
	SCPeriod          uint8
	ValRate           decimal.Decimal
	MGIR              decimal.Decimal
	Bonus             decimal.Decimal
	RollupType        RollupType

	// Pre-seasoning for mid-projection starts. DurationMonths defaults to
	// 0 (a brand-new issue). CurrentAV/CurrentBB, when set, override
	// InitialPremium/InitialBenefitBase as the projection's starting point.
	DurationMonths uint32
	CurrentAV      *decimal.Decimal
	CurrentBB      *decimal.Decimal

	// GLWBStartYear is the policy year in which income activation occurs;
	// NeverActivates (99) means the rider never activates.
	GLWBStartYear uint32

	// IncomeActivated is true when the cell enters the projection already
	// in income phase (a pre-seasoned mid-projection start).
	IncomeActivated bool
}

// New builds a Policy with GLWBStartYear defaulting to NeverActivates, the
// bucket computed from per-life benefit base, and no pre-seasoning — the
// shape of a brand-new issue.
func New(
	policyID uint32,
	qual QualStatus,
	issueAge uint8,
	gender Gender,
	initialBB decimal.Decimal,
	initialPols decimal.Decimal,
	initialPremium decimal.Decimal,
	crediting CreditingStrategy,
	scPeriod uint8,
	valRate decimal.Decimal,
	mgir decimal.Decimal,
	bonus decimal.Decimal,
	rollup RollupType,
) Policy {
	return Policy{
		PolicyID:           policyID,
		QualStatus:         qual,
		IssueAge:           issueAge,
		Gender:             gender,
		InitialBenefitBase: initialBB,
		InitialPols:        initialPols,
		InitialPremium:     initialPremium,
		BenefitBaseBucket:  bucketFromTotals(initialBB, initialPols),
		Percentage:         decimal.NewFromInt(1),
		CreditingStrategy:  crediting,
		SCPeriod:           scPeriod,
		ValRate:            valRate,
		MGIR:               mgir,
		Bonus:              bonus,
		RollupType:         rollup,
		GLWBStartYear:      NeverActivates,
	}
}

// WithGLWBStart returns a copy of p pre-seasoned with the given duration,
// current AV/BB, and activation state — e.g. for a mid-projection start.
// The benefit-base bucket is recomputed from per-life BB at the new state.
func (p Policy) WithGLWBStart(
	glwbStartYear uint32,
	durationMonths uint32,
	currentAV, currentBB decimal.Decimal,
	incomeActivated bool,
) Policy {
	out := p
	out.GLWBStartYear = glwbStartYear
	out.DurationMonths = durationMonths
	out.CurrentAV = &currentAV
	out.CurrentBB = &currentBB
	out.IncomeActivated = incomeActivated
	out.BenefitBaseBucket = bucketFromTotals(currentBB, p.InitialPols)
	return out
}

func bucketFromTotals(bb, pols decimal.Decimal) BenefitBaseBucket {
	if pols.IsZero() {
		return BucketFromAmount(bb)
	}
	return BucketFromAmount(bb.Div(pols))
}

// StartingAV returns the account value the projection should begin from.
func (p Policy) StartingAV() decimal.Decimal {
	if p.CurrentAV != nil {
		return *p.CurrentAV
	}
	return p.InitialPremium
}

// StartingBenefitBase returns the benefit base the projection should begin from.
func (p Policy) StartingBenefitBase() decimal.Decimal {
	if p.CurrentBB != nil {
		return *p.CurrentBB
	}
	return p.InitialBenefitBase
}

// PolicyYear returns the 1-indexed policy year containing the given
// projection month, accounting for any pre-seasoning duration.
func (p Policy) PolicyYear(projectionMonth uint32) uint32 {
	n := saturatingSub(p.DurationMonths+projectionMonth, 1)
	return n/12 + 1
}

// MonthInPolicyYear returns the 1-indexed month within the policy year
// containing the given projection month.
func (p Policy) MonthInPolicyYear(projectionMonth uint32) uint32 {
	n := saturatingSub(p.DurationMonths+projectionMonth, 1)
	return n%12 + 1
}

// AttainedAge returns the policyholder's age at the given projection month.
func (p Policy) AttainedAge(projectionMonth uint32) uint8 {
	py := p.PolicyYear(projectionMonth)
	return p.IssueAge + uint8(py-1)
}

// InSCPeriod reports whether the policy year at the given month still
// falls within the surrender-charge period.
func (p Policy) InSCPeriod(projectionMonth uint32) bool {
	return p.PolicyYear(projectionMonth) <= uint32(p.SCPeriod)
}

// ShouldActivateIncome reports whether GLWB income is (or should become)
// active at the given projection month: true once already activated, or
// once the policy year reaches GLWBStartYear.
func (p Policy) ShouldActivateIncome(projectionMonth uint32) bool {
	if p.IncomeActivated {
		return true
	}
	return p.PolicyYear(projectionMonth) >= p.GLWBStartYear
}

func saturatingSub(a, b uint32) uint32 {
	if b >= a {
		return 0
	}
	return a - b
}

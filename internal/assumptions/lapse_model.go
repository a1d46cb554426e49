package assumptions

import (
	"math"

	"github.com/rpgo/fia-glwb-engine/internal/policy"
	"github.com/shopspring/decimal"
)

// LapseCoefficients are the model's ITM and income-activation coefficients
// on the log-link (not logit) linear predictor.
type LapseCoefficients struct {
	ITMLow        float64
	ITMHigh       float64
	IncomeMain    float64
	IncomeITMLow  float64
}

// DefaultLapseCoefficients reproduces the calibrated Excel predictive model.
func DefaultLapseCoefficients() LapseCoefficients {
	return LapseCoefficients{
		ITMLow:       -3.16184447006944,
		ITMHigh:      -1.15717209704794,
		IncomeMain:   -2.41891458766257,
		IncomeITMLow: 1.53610221716995,
	}
}

// BucketCoefficients hold the four-bucket ([0,50k) [50k,100k) [100k,200k)
// [200k,Inf)) duration/shock/income interaction terms. The top two buckets
// of policy.BenefitBaseBucket both map onto index 3.
type BucketCoefficients struct {
	Main            [4]float64
	Poly1           [4]float64
	Poly2           [4]float64
	Income          [4]float64
	ShockYear       [4]float64
	PostShockPoly1  [4]float64
	PostShockPoly2  [4]float64
}

// DefaultBucketCoefficients reproduces surrender_predictive_model.csv.
func DefaultBucketCoefficients() BucketCoefficients {
	return BucketCoefficients{
		Main:           [4]float64{0.0, -0.157400822647813, -0.249985676390188, -0.338729473320792},
		Poly1:          [4]float64{0.0, 0.0682532283448409, 0.0763149050501966, 0.0577584207560845},
		Poly2:          [4]float64{0.0, 0.00291547472994642, 0.00234424354188925, 0.00156198120112268},
		Income:         [4]float64{0.0, -0.0925723455729023, -0.134728779396966, -0.0656576115761846},
		ShockYear:      [4]float64{0.0, 0.577678462673537, 0.469928825868869, 0.472851885434387},
		PostShockPoly1: [4]float64{0.0, 0.544650716473373, 0.705070763116629, 0.75719904977134},
		PostShockPoly2: [4]float64{0.0, -0.908776562309262, -0.826641853779992, -0.839435686720885},
	}
}

func bucketIndex(bucket policy.BenefitBaseBucket) int {
	switch bucket {
	case policy.BucketUnder50k:
		return 0
	case policy.Bucket50kTo100k:
		return 1
	case policy.Bucket100kTo200k:
		return 2
	default:
		return 3
	}
}

func (b BucketCoefficients) rawBucketTerms(idx int, poly1, poly2, shockInd, postShockPoly1, postShockPoly2, incomeInd float64) float64 {
	return b.Main[idx] +
		b.Poly1[idx]*poly1 +
		b.Poly2[idx]*poly2 +
		b.Income[idx]*incomeInd +
		b.ShockYear[idx]*shockInd +
		b.PostShockPoly1[idx]*postShockPoly1 +
		b.PostShockPoly2[idx]*postShockPoly2
}

// Adjustment returns the bucket-specific adjustment to the precalculated
// reference-bucket linear predictor, for the given policy year, SC period,
// and income-activation state.
func (b BucketCoefficients) Adjustment(bucket policy.BenefitBaseBucket, policyYear, scPeriod uint32, incomeActivated bool) float64 {
	targetIdx := bucketIndex(bucket)

	durationMinusSCP := math.Min(0, float64(int(policyYear)-int(scPeriod)))
	poly1 := durationMinusSCP
	poly2 := durationMinusSCP * durationMinusSCP

	isShockYear := policyYear == scPeriod+1
	shockInd := 0.0
	if isShockYear {
		shockInd = 1.0
	}

	postShockTerm := 0.0
	if policyYear > scPeriod {
		denom := math.Max(1.0, math.Min(3.0, float64(policyYear-scPeriod)))
		postShockTerm = 1.0 / denom
	}
	postShockPoly1 := postShockTerm
	postShockPoly2 := postShockTerm * postShockTerm

	if incomeActivated {
		baseUnchangedTerms := b.Poly1[3]*poly1 +
			b.Poly2[3]*poly2 +
			b.ShockYear[3]*shockInd +
			b.PostShockPoly1[3]*postShockPoly1 +
			b.PostShockPoly2[3]*postShockPoly2

		targetTerms := b.Main[targetIdx] + b.Income[targetIdx]
		baseMain := b.Main[3]

		return (targetTerms - baseMain) - baseUnchangedTerms
	}

	baseBucketTerms := b.rawBucketTerms(3, poly1, poly2, shockInd, postShockPoly1, postShockPoly2, 0.0)
	targetBucketTerms := b.rawBucketTerms(targetIdx, poly1, poly2, shockInd, postShockPoly1, postShockPoly2, 0.0)
	return targetBucketTerms - baseBucketTerms
}

// LapseModel is the predictive surrender model: a log-link GLM on ITM-ness,
// income activation, duration polynomial, and shock-year terms, calibrated
// against the reference [200000,Inf) bucket and adjusted per-bucket.
type LapseModel struct {
	Coefficients       LapseCoefficients
	BucketCoefficients BucketCoefficients
	precalcByYear      []float64
}

// NewDefaultLapseModel builds the default predictive model matching the
// Excel calibration.
func NewDefaultLapseModel() *LapseModel {
	return &LapseModel{
		Coefficients:       DefaultLapseCoefficients(),
		BucketCoefficients: DefaultBucketCoefficients(),
		precalcByYear: []float64{
			-1.4257937264401424,
			-0.9061294780969887,
			-0.3805864186366955,
			0.15083545194073789,
			0.329461260874028,
			0.513965880924458,
			0.704349312092028,
			0.9006115543767378,
			1.1027526077785876,
			1.310772472297577,
			2.9366733874333395,
			2.083416198115829,
			2.1066423172719184,
		},
	}
}

func (m *LapseModel) precalcForYear(policyYear uint32) float64 {
	idx := int(policyYear) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(m.precalcByYear) {
		return m.precalcByYear[len(m.precalcByYear)-1]
	}
	return m.precalcByYear[idx]
}

// BaseComponentWithBucket is the linear predictor's duration/income/bucket
// portion, excluding the dynamic ITM-ness adjustment.
func (m *LapseModel) BaseComponentWithBucket(policyYear uint32, incomeActivated bool, bucket policy.BenefitBaseBucket, scPeriod uint32) float64 {
	c := m.Coefficients
	precalc := m.precalcForYear(policyYear)

	incomeInd := 0.0
	if incomeActivated {
		incomeInd = 1.0
	}

	bucketAdj := m.BucketCoefficients.Adjustment(bucket, policyYear, scPeriod, incomeActivated)

	return precalc + c.ITMLow + c.ITMHigh + c.IncomeMain*incomeInd + c.IncomeITMLow*incomeInd + bucketAdj
}

// BaseComponent is BaseComponentWithBucket for the reference bucket and a
// 10-year SC period.
func (m *LapseModel) BaseComponent(policyYear uint32, incomeActivated bool) float64 {
	return m.BaseComponentWithBucket(policyYear, incomeActivated, policy.Bucket200kTo500k, 10)
}

// DynamicComponent is the linear predictor's adjustment from the model's
// assumed base ITM-ness of 1.0 to the actual observed ITM-ness.
func (m *LapseModel) DynamicComponent(itmNess float64, incomeActivated bool) float64 {
	c := m.Coefficients

	itmLowClamped := math.Max(0.5, math.Min(1.0, itmNess))
	itmHighClamped := math.Max(1.0, math.Min(2.0, itmNess))

	incomeInd := 0.0
	if incomeActivated {
		incomeInd = 1.0
	}

	return c.ITMHigh*(itmHighClamped-1.0) +
		c.ITMLow*(itmLowClamped-1.0) +
		c.IncomeITMLow*incomeInd*(itmLowClamped-1.0)
}

// AnnualLapseProbWithBucket returns p = exp(min(linearPredictor, 0)), capped
// at 1.0.
func (m *LapseModel) AnnualLapseProbWithBucket(policyYear uint32, incomeActivated bool, itmNess float64, bucket policy.BenefitBaseBucket, scPeriod uint32) float64 {
	base := m.BaseComponentWithBucket(policyYear, incomeActivated, bucket, scPeriod)
	dynamic := m.DynamicComponent(itmNess, incomeActivated)
	linearPredictor := base + dynamic
	return math.Min(math.Exp(math.Min(linearPredictor, 0.0)), 1.0)
}

// AnnualLapseProb is AnnualLapseProbWithBucket for the reference bucket and
// a 10-year SC period.
func (m *LapseModel) AnnualLapseProb(policyYear uint32, incomeActivated bool, itmNess float64) float64 {
	return m.AnnualLapseProbWithBucket(policyYear, incomeActivated, itmNess, policy.Bucket200kTo500k, 10)
}

// MonthlyLapseRate converts the annual probability to a uniform (1/12 skew)
// monthly rate. Projection month 1 and non-positive ITM-ness are hardcoded
// to zero.
func (m *LapseModel) MonthlyLapseRate(projectionMonth, policyYear uint32, incomeActivated bool, itmNess float64) decimal.Decimal {
	if projectionMonth == 1 || itmNess <= 0.0 {
		return decimal.Zero
	}

	annualProb := m.AnnualLapseProb(policyYear, incomeActivated, itmNess)
	skew := 1.0 / 12.0
	monthly := 1.0 - math.Pow(1.0-annualProb, skew)
	return decimal.NewFromFloat(monthly)
}

// GetSkew returns the monthly skew weight applied to the annual probability:
// front-loaded in the shock year (the first year without surrender
// charges), uniform otherwise.
func (m *LapseModel) GetSkew(policyYear, monthInPolicyYear, scPeriod uint32) float64 {
	shockYear := scPeriod + 1
	if policyYear == shockYear {
		switch monthInPolicyYear {
		case 1:
			return 0.4
		case 2:
			return 0.3
		case 3:
			return 0.2
		default:
			return 0.1 / 9.0
		}
	}
	return 1.0 / 12.0
}

// MonthlyLapseRateWithSkew is MonthlyLapseRate generalized with bucket
// adjustment and shock-year front-loaded skew.
func (m *LapseModel) MonthlyLapseRateWithSkew(
	projectionMonth, policyYear, monthInPolicyYear uint32,
	incomeActivated bool,
	itmNess float64,
	scPeriod uint32,
	bucket policy.BenefitBaseBucket,
) decimal.Decimal {
	if projectionMonth == 1 || itmNess <= 0.0 {
		return decimal.Zero
	}

	annualProb := m.AnnualLapseProbWithBucket(policyYear, incomeActivated, itmNess, bucket, scPeriod)
	skew := m.GetSkew(policyYear, monthInPolicyYear, scPeriod)
	monthly := 1.0 - math.Pow(1.0-annualProb, skew)
	return decimal.NewFromFloat(monthly)
}

// CalculateITMNess returns benefit base / account value, or 1.0 if the
// account value is non-positive (avoids division by zero, matching the
// accumulation-phase convention of a fresh contract).
func CalculateITMNess(benefitBase, accountValue decimal.Decimal) float64 {
	avf, _ := accountValue.Float64()
	if avf <= 0.0 {
		return 1.0
	}
	bbf, _ := benefitBase.Float64()
	return bbf / avf
}

package assumptions

import (
	"math"

	"github.com/rpgo/fia-glwb-engine/internal/policy"
	"github.com/shopspring/decimal"
)

// mortalityRate holds the paired female/male annual base rate at one age.
type mortalityRate struct {
	female float64
	male   float64
}

// MonthlyConversion selects how an improved annual mortality rate is turned
// into a monthly rate.
type MonthlyConversion int

const (
	// ConversionStandard is the actuarial rule q_monthly = 1-(1-q_annual)^(1/12).
	ConversionStandard MonthlyConversion = iota
	// ConversionSimpleDivision divides the annual rate by 12.
	ConversionSimpleDivision
)

// MortalityTable is an immutable (after construction) lookup of monthly
// mortality rates by attained age and gender, combining the IAM-2012-Basic
// base table, an age-graded factor, and age/gender mortality improvement.
type MortalityTable struct {
	baseRates        []mortalityRate
	ageFactors       []float64
	improvementRates []mortalityRate
	conversionMethod MonthlyConversion
	tableBaseYear    int
	projectionYear   int
}

// NewIAM2012WithImprovement builds the default mortality table: the IAM
// 2012 Basic base rates, the default age-factor schedule, and the default
// age/gender improvement schedule, using the Standard monthly conversion.
func NewIAM2012WithImprovement() *MortalityTable {
	return &MortalityTable{
		baseRates:        iam2012BaseRates(),
		ageFactors:       DefaultAgeFactors(),
		improvementRates: DefaultImprovementRates(),
		conversionMethod: ConversionStandard,
		tableBaseYear:    2012,
		projectionYear:   2026,
	}
}

// SetImprovementYears overrides the table's base/projection year pair used
// for the mortality-improvement exponent.
func (t *MortalityTable) SetImprovementYears(tableBaseYear, projectionYear int) {
	t.tableBaseYear = tableBaseYear
	t.projectionYear = projectionYear
}

// ScaleAgeFactors multiplies every age factor by a scalar — a deliberate
// calibration operation, never called from the per-month hot path.
func (t *MortalityTable) ScaleAgeFactors(multiplier float64) {
	for i := range t.ageFactors {
		t.ageFactors[i] *= multiplier
	}
}

// GetAgeFactor returns the multiplicative age factor at the given age.
func (t *MortalityTable) GetAgeFactor(attainedAge uint8) float64 {
	idx := int(attainedAge)
	if idx >= len(t.ageFactors) {
		return 1.0
	}
	return t.ageFactors[idx]
}

// ImprovementRate returns the annual mortality-improvement rate at the
// given age and gender, used directly by the projection kernel to
// populate the cashflow row's improvement column.
func (t *MortalityTable) ImprovementRate(attainedAge uint8, gender policy.Gender) float64 {
	idx := int(attainedAge)
	if idx >= len(t.improvementRates) {
		return 0.0
	}
	r := t.improvementRates[idx]
	if gender == policy.GenderFemale {
		return r.female
	}
	return r.male
}

// RawBaseRate returns the unadjusted annual base rate for the given age
// and gender, or 1.0 past the end of the table.
func (t *MortalityTable) RawBaseRate(attainedAge uint8, gender policy.Gender) float64 {
	idx := int(attainedAge)
	if idx >= len(t.baseRates) {
		return 1.0
	}
	r := t.baseRates[idx]
	if gender == policy.GenderFemale {
		return r.female
	}
	return r.male
}

// BaselineAnnualRate returns the base rate with the age factor applied,
// before mortality improvement.
func (t *MortalityTable) BaselineAnnualRate(attainedAge uint8, gender policy.Gender) float64 {
	idx := int(attainedAge)
	if idx >= len(t.baseRates) {
		return 1.0
	}
	r := t.baseRates[idx]
	base := r.male
	if gender == policy.GenderFemale {
		base = r.female
	}
	return base * t.GetAgeFactor(attainedAge)
}

// MonthlyRate returns the monthly mortality rate for the given attained
// age, gender, and 1-indexed projection month. Past the end of the table
// it returns 1/12, matching the reference implementation's extreme-age
// handling.
func (t *MortalityTable) MonthlyRate(attainedAge uint8, gender policy.Gender, projectionMonth uint32) decimal.Decimal {
	if int(attainedAge) >= len(t.baseRates) {
		return decimal.NewFromFloat(1.0 / 12.0)
	}

	bestEstimateAnnual := t.BaselineAnnualRate(attainedAge, gender)

	yearsImprovement := float64(t.projectionYear-t.tableBaseYear-1) + float64(projectionMonth)/12.0
	improvementRate := t.ImprovementRate(attainedAge, gender)
	improvementFactor := math.Pow(1.0-improvementRate, yearsImprovement)
	improvedAnnual := bestEstimateAnnual * improvementFactor

	var monthly float64
	switch t.conversionMethod {
	case ConversionSimpleDivision:
		monthly = improvedAnnual / 12.0
	default:
		monthly = 1.0 - math.Pow(1.0-improvedAnnual, 1.0/12.0)
	}
	return decimal.NewFromFloat(monthly)
}

// DefaultAgeFactors returns the default age-graded mortality factor
// schedule: 0.6 flat through age 60, linear grade to 1.0 at age 90, then
// flat at 1.0.
func DefaultAgeFactors() []float64 {
	factors := make([]float64, 121)
	for age := 0; age <= 60; age++ {
		factors[age] = 0.6
	}
	for age := 61; age <= 89; age++ {
		yearsFrom60 := float64(age - 60)
		factors[age] = 0.6 + (0.4 * yearsFrom60 / 30.0)
	}
	for age := 90; age <= 120; age++ {
		factors[age] = 1.0
	}
	return factors
}

// DefaultImprovementRates returns the default age/gender mortality
// improvement schedule used absent a loaded override.
func DefaultImprovementRates() []mortalityRate {
	rates := make([]mortalityRate, 121)
	for i := range rates {
		rates[i] = mortalityRate{female: 0.01, male: 0.01}
	}

	for age := 51; age <= 80; age++ {
		female := 0.013
		switch {
		case age <= 52:
			female = 0.01
		case age <= 58:
			female = 0.012
		}
		male := 0.015
		switch {
		case age <= 50:
			male = 0.01
		case age <= 52:
			male = 0.011
		case age <= 54:
			male = 0.012
		case age <= 56:
			male = 0.013
		case age <= 58:
			male = 0.014
		}
		rates[age] = mortalityRate{female: female, male: male}
	}

	declining := map[int]mortalityRate{
		81: {0.012, 0.014}, 82: {0.012, 0.013}, 83: {0.011, 0.013},
		84: {0.010, 0.012}, 85: {0.010, 0.011}, 86: {0.009, 0.010},
		87: {0.008, 0.009}, 88: {0.007, 0.009}, 89: {0.007, 0.008},
		90: {0.006, 0.007}, 91: {0.006, 0.007}, 92: {0.005, 0.006},
		93: {0.005, 0.005}, 94: {0.004, 0.005}, 95: {0.004, 0.004},
		96: {0.004, 0.004}, 97: {0.003, 0.003}, 98: {0.003, 0.003},
		99: {0.002, 0.002}, 100: {0.002, 0.002}, 101: {0.002, 0.002},
		102: {0.001, 0.001}, 103: {0.001, 0.001},
	}
	for age, r := range declining {
		rates[age] = r
	}

	for age := 104; age <= 120; age++ {
		rates[age] = mortalityRate{0.0, 0.0}
	}

	return rates
}

// iam2012BaseRates is the IAM 2012 Basic base mortality table, ages 0-120,
// stored as paired (female, male) annual rates.
func iam2012BaseRates() []mortalityRate {
	raw := [][2]float64{
		// Age 0-9
		{0.001801, 0.001783}, {0.00045, 0.000446}, {0.000287, 0.000306},
		{0.000199, 0.000254}, {0.000152, 0.000193}, {0.000139, 0.000186},
		{0.00013, 0.000184}, {0.000122, 0.000177}, {0.000105, 0.000159},
		{0.000098, 0.000143},
		// Age 10-19
		{0.000094, 0.000126}, {0.000096, 0.000123}, {0.000105, 0.000147},
		{0.00012, 0.000188}, {0.000146, 0.000236}, {0.000174, 0.000282},
		{0.000199, 0.000325}, {0.00022, 0.000364}, {0.000234, 0.000399},
		{0.000245, 0.00043},
		// Age 20-29
		{0.000253, 0.000459}, {0.00026, 0.000492}, {0.000266, 0.000526},
		{0.000272, 0.000569}, {0.000275, 0.000616}, {0.000277, 0.000669},
		{0.000284, 0.000728}, {0.00029, 0.000764}, {0.0003, 0.000789},
		{0.000313, 0.000808},
		// Age 30-39
		{0.000333, 0.000824}, {0.000357, 0.000834}, {0.000375, 0.000838},
		{0.00039, 0.000828}, {0.000405, 0.000808}, {0.000424, 0.000789},
		{0.000447, 0.000783}, {0.000476, 0.0008}, {0.000514, 0.000837},
		{0.00056, 0.000889},
		// Age 40-49
		{0.000613, 0.000955}, {0.000667, 0.001029}, {0.000723, 0.00111},
		{0.000774, 0.001188}, {0.000823, 0.001268}, {0.000866, 0.001355},
		{0.000917, 0.001464}, {0.000983, 0.001615}, {0.001072, 0.001808},
		{0.001168, 0.002032},
		// Age 50-59
		{0.00129, 0.002285}, {0.001453, 0.002557}, {0.001622, 0.002828},
		{0.001792, 0.003088}, {0.001972, 0.003345}, {0.002166, 0.003616},
		{0.002393, 0.003922}, {0.002666, 0.004272}, {0.003, 0.004681},
		{0.003393, 0.005146},
		// Age 60-69
		{0.003844, 0.005662}, {0.004352, 0.006237}, {0.004899, 0.006854},
		{0.005482, 0.00751}, {0.006118, 0.00822}, {0.006829, 0.009007},
		{0.007279, 0.009497}, {0.007821, 0.010085}, {0.008475, 0.010787},
		{0.009234, 0.011625},
		// Age 70-79
		{0.010083, 0.012619}, {0.011011, 0.013798}, {0.01203, 0.015195},
		{0.013154, 0.016834}, {0.014415, 0.018733}, {0.015869, 0.020905},
		{0.017555, 0.023367}, {0.0195, 0.026155}, {0.021758, 0.029306},
		{0.024412, 0.032858},
		// Age 80-89
		{0.027579, 0.036927}, {0.031501, 0.041703}, {0.036122, 0.046957},
		{0.041477, 0.052713}, {0.047589, 0.059148}, {0.054441, 0.066505},
		{0.061972, 0.075015}, {0.070155, 0.084823}, {0.078963, 0.095987},
		{0.088336, 0.108482},
		// Age 90-99
		{0.098197, 0.122214}, {0.108323, 0.136799}, {0.119188, 0.152409},
		{0.131334, 0.169078}, {0.145521, 0.186882}, {0.162722, 0.205844},
		{0.18212, 0.219247}, {0.199661, 0.238612}, {0.217946, 0.258341},
		{0.236834, 0.278219},
		// Age 100-109
		{0.256357, 0.298452}, {0.283802, 0.32361}, {0.304716, 0.344191},
		{0.325819, 0.364633}, {0.346936, 0.384783}, {0.367898, 0.4},
		{0.387607, 0.4}, {0.4, 0.4}, {0.4, 0.4}, {0.4, 0.4},
		// Age 110-120
		{0.4, 0.4}, {0.4, 0.4}, {0.4, 0.4}, {0.4, 0.4}, {0.4, 0.4},
		{0.4, 0.4}, {0.4, 0.4}, {0.4, 0.4}, {0.4, 0.4}, {0.4, 0.4},
		{0.4, 0.4},
	}
	rates := make([]mortalityRate, len(raw))
	for i, r := range raw {
		rates[i] = mortalityRate{female: r[0], male: r[1]}
	}
	return rates
}

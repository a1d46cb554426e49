package policy

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPolicy() Policy {
	return New(
		2800,
		QualStatusQualified,
		77,
		GenderMale,
		decimal.NewFromInt(130_000),
		decimal.NewFromInt(1),
		decimal.NewFromInt(100_000),
		CreditingIndexed,
		10,
		decimal.NewFromFloat(0.0475),
		decimal.NewFromFloat(0.01),
		decimal.NewFromFloat(0.3),
		RollupSimple,
	)
}

func TestPolicyYearAndMonthBoundaries(t *testing.T) {
	p := testPolicy()

	py, mpy, age := p.PolicyYear(1), p.MonthInPolicyYear(1), p.AttainedAge(1)
	assert.EqualValues(t, 1, py)
	assert.EqualValues(t, 1, mpy)
	assert.EqualValues(t, 77, age)

	py, mpy, age = p.PolicyYear(12), p.MonthInPolicyYear(12), p.AttainedAge(12)
	assert.EqualValues(t, 1, py)
	assert.EqualValues(t, 12, mpy)
	assert.EqualValues(t, 77, age)

	py, mpy, age = p.PolicyYear(13), p.MonthInPolicyYear(13), p.AttainedAge(13)
	assert.EqualValues(t, 2, py)
	assert.EqualValues(t, 1, mpy)
	assert.EqualValues(t, 78, age)
}

func TestBucketFromAmount(t *testing.T) {
	assert.Equal(t, BucketUnder50k, BucketFromAmount(decimal.NewFromInt(10_000)))
	assert.Equal(t, Bucket50kTo100k, BucketFromAmount(decimal.NewFromInt(75_000)))
	assert.Equal(t, Bucket100kTo200k, BucketFromAmount(decimal.NewFromInt(150_000)))
	assert.Equal(t, Bucket200kTo500k, BucketFromAmount(decimal.NewFromInt(300_000)))
	assert.Equal(t, BucketOver500k, BucketFromAmount(decimal.NewFromInt(600_000)))
}

func TestNewDefaultsNeverActivates(t *testing.T) {
	p := testPolicy()
	require.EqualValues(t, NeverActivates, p.GLWBStartYear)
	assert.False(t, p.ShouldActivateIncome(1))
	assert.False(t, p.ShouldActivateIncome(600))
}

func TestWithGLWBStartActivatesAtConfiguredYear(t *testing.T) {
	p := testPolicy().WithGLWBStart(5, 0, decimal.NewFromInt(100_000), decimal.NewFromInt(130_000), false)

	assert.False(t, p.ShouldActivateIncome(48)) // policy year 4
	assert.True(t, p.ShouldActivateIncome(49))  // policy year 5
}

func TestIncomeActivatedFlagIsSticky(t *testing.T) {
	p := testPolicy().WithGLWBStart(NeverActivates, 0, decimal.NewFromInt(100_000), decimal.NewFromInt(130_000), true)
	assert.True(t, p.ShouldActivateIncome(1))
}

func TestStartingAVAndBBFallBackToInitial(t *testing.T) {
	p := testPolicy()
	assert.True(t, p.StartingAV().Equal(decimal.NewFromInt(100_000)))
	assert.True(t, p.StartingBenefitBase().Equal(decimal.NewFromInt(130_000)))
}

func TestInSCPeriod(t *testing.T) {
	p := testPolicy()
	assert.True(t, p.InSCPeriod(1))
	assert.True(t, p.InSCPeriod(120)) // policy year 10
	assert.False(t, p.InSCPeriod(121))
}

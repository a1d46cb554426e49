package block

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/rpgo/fia-glwb-engine/internal/policy"
	"github.com/rpgo/fia-glwb-engine/internal/reserves"
)

func testReserveConfig() reserves.CARVMConfig {
	config := reserves.DefaultCARVMConfig()
	config.Method = reserves.MethodBruteForce
	config.MaxProjectionMonths = 60
	config.MaxDeferralYears = 3
	config.UseCaching = false
	return config
}

func TestAdjustInforceFixedPct(t *testing.T) {
	cells := testCells(2)
	adj := InforceAdjustment{FixedPct: decimal.NewFromFloat(0.5)}

	adjusted := AdjustInforce(cells, adj)

	for i, c := range adjusted {
		expected := cells[i].InitialPols.Mul(decimal.NewFromFloat(0.5))
		assert.True(t, c.InitialPols.Equal(expected))
	}
	// original untouched
	assert.True(t, cells[0].InitialPols.Equal(decimal.NewFromInt(1)))
}

func TestAdjustInforceGenderMultiplier(t *testing.T) {
	cells := testCells(1)
	adj := InforceAdjustment{
		FixedPct:         decimal.NewFromInt(1),
		GenderMultiplier: map[policy.Gender]decimal.Decimal{policy.GenderMale: decimal.NewFromFloat(0.8)},
	}

	adjusted := AdjustInforce(cells, adj)
	assert.True(t, adjusted[0].InitialPols.Equal(decimal.NewFromFloat(0.8)))
}

func TestAdjustInforceBBBonus(t *testing.T) {
	cells := testCells(1)
	adj := InforceAdjustment{FixedPct: decimal.NewFromInt(1), BBBonus: decimal.NewFromFloat(0.1)}

	adjusted := AdjustInforce(cells, adj)
	expected := cells[0].InitialBenefitBase.Mul(decimal.NewFromFloat(1.1))
	assert.True(t, adjusted[0].InitialBenefitBase.Equal(expected))
}

func TestAdjustInforceTargetPremium(t *testing.T) {
	cells := testCells(1)
	target := decimal.NewFromInt(250_000)
	adj := InforceAdjustment{FixedPct: decimal.NewFromInt(1), TargetPremium: &target}

	adjusted := AdjustInforce(cells, adj)
	assert.True(t, adjusted[0].InitialPremium.Equal(target))
}

func TestFilterByGender(t *testing.T) {
	cells := testCells(3)
	filtered := Filter(cells, InforceFilter{Genders: []policy.Gender{policy.GenderMale}})
	assert.Len(t, filtered, 3)

	filtered = Filter(cells, InforceFilter{Genders: []policy.Gender{policy.GenderFemale}})
	assert.Len(t, filtered, 0)
}

func TestFilterByIssueAgeRange(t *testing.T) {
	cells := testCells(3)
	minAge := uint8(65)
	maxAge := uint8(75)
	filtered := Filter(cells, InforceFilter{MinIssueAge: &minAge, MaxIssueAge: &maxAge})
	assert.Len(t, filtered, 3)

	tooOld := uint8(80)
	filtered = Filter(cells, InforceFilter{MinIssueAge: &tooOld})
	assert.Len(t, filtered, 0)
}

func TestCedingCommissionNPV(t *testing.T) {
	cashflows := []decimal.Decimal{
		decimal.NewFromInt(1000),
		decimal.NewFromInt(1000),
		decimal.NewFromInt(1000),
	}
	npv := CedingCommissionNPV(cashflows, decimal.NewFromFloat(0.04), decimal.NewFromFloat(0.01))

	assert.True(t, npv.GreaterThan(decimal.Zero))
	assert.True(t, npv.LessThan(decimal.NewFromInt(3000)))
}

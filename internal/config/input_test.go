package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "block.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadBlockRunConfigMinimal(t *testing.T) {
	path := writeConfigFile(t, `
max_workers: 4
with_reserves: false
`)

	parser := NewParser()
	config, err := parser.LoadBlockRunConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 4, config.MaxWorkers)
	assert.False(t, config.WithReserves)
}

func TestLoadBlockRunConfigWithReserves(t *testing.T) {
	path := writeConfigFile(t, `
max_workers: 8
with_reserves: true
reserve:
  valuation_month: 0
  max_projection_months: 768
  max_deferral_years: 30
  use_caching: true
`)

	parser := NewParser()
	config, err := parser.LoadBlockRunConfig(path)
	require.NoError(t, err)
	assert.True(t, config.WithReserves)
	assert.Equal(t, uint32(768), config.Reserve.MaxProjectionMonths)
	assert.True(t, config.Reserve.UseCaching)
}

func TestLoadBlockRunConfigWithCedingCommission(t *testing.T) {
	path := writeConfigFile(t, `
max_workers: 2
with_reserves: false
ceding_commission:
  bbb_rate: "0.04"
  spread: "0.0125"
`)

	parser := NewParser()
	config, err := parser.LoadBlockRunConfig(path)
	require.NoError(t, err)
	require.NotNil(t, config.CedingCommission)
	assert.True(t, config.CedingCommission.BBBRate.Equal(decimal.NewFromFloat(0.04)))
	assert.True(t, config.CedingCommission.Spread.Equal(decimal.NewFromFloat(0.0125)))
}

func TestLoadBlockRunConfigWithInforceAdjustment(t *testing.T) {
	path := writeConfigFile(t, `
max_workers: 2
with_reserves: false
inforce_adjustment:
  fixed_pct: "0.5"
  bb_bonus: "0.1"
  target_premium: "150000"
`)

	parser := NewParser()
	config, err := parser.LoadBlockRunConfig(path)
	require.NoError(t, err)
	require.NotNil(t, config.InforceAdjustment)
	assert.True(t, config.InforceAdjustment.FixedPct.Equal(decimal.NewFromFloat(0.5)))
	require.NotNil(t, config.InforceAdjustment.TargetPremium)
	assert.True(t, config.InforceAdjustment.TargetPremium.Equal(decimal.NewFromInt(150_000)))
}

func TestLoadBlockRunConfigMissingFile(t *testing.T) {
	parser := NewParser()
	_, err := parser.LoadBlockRunConfig("/nonexistent/path.yaml")
	assert.Error(t, err)
}

func TestLoadBlockRunConfigInvalidDecimal(t *testing.T) {
	path := writeConfigFile(t, `
max_workers: 2
with_reserves: false
ceding_commission:
  bbb_rate: "not-a-number"
  spread: "0.01"
`)

	parser := NewParser()
	_, err := parser.LoadBlockRunConfig(path)
	assert.Error(t, err)
}

func TestValidateBlockRunConfigNegativeWorkers(t *testing.T) {
	parser := NewParser()
	config := &BlockRunConfig{MaxWorkers: -1}
	err := parser.ValidateBlockRunConfig(config)
	assert.Error(t, err)
}

func TestValidateBlockRunConfigReserveRequiresHorizon(t *testing.T) {
	parser := NewParser()
	config := &BlockRunConfig{
		MaxWorkers:   1,
		WithReserves: true,
		Reserve:      ReserveRunConfig{MaxProjectionMonths: 0, MaxDeferralYears: 10},
	}
	err := parser.ValidateBlockRunConfig(config)
	assert.Error(t, err)
}

func TestValidateCedingCommissionNegativeRate(t *testing.T) {
	parser := NewParser()
	config := &BlockRunConfig{
		MaxWorkers:       1,
		CedingCommission: &CedingCommissionConfig{BBBRate: decimal.NewFromFloat(-0.01), Spread: decimal.Zero},
	}
	err := parser.ValidateBlockRunConfig(config)
	assert.Error(t, err)
}

func TestValidateInforceAdjustmentNonPositiveTargetPremium(t *testing.T) {
	zero := decimal.Zero
	parser := NewParser()
	config := &BlockRunConfig{
		MaxWorkers:        1,
		InforceAdjustment: &InforceAdjustmentConfig{FixedPct: decimal.NewFromInt(1), TargetPremium: &zero},
	}
	err := parser.ValidateBlockRunConfig(config)
	assert.Error(t, err)
}

func TestExampleBlockRunConfigIsValid(t *testing.T) {
	parser := NewParser()
	config := parser.ExampleBlockRunConfig()
	assert.NoError(t, parser.ValidateBlockRunConfig(config))
}

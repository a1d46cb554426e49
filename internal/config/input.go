// Package config loads and validates the YAML run envelope that
// parameterizes a block CLI invocation. It never
// touches inforce or assumption CSVs — ingestion is out of scope for the
// core — only the run-parameter envelope itself.
package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// CedingCommissionConfig parameterizes a block-level ceding-commission
// NPV calculation (internal/block.CedingCommissionNPV).
type CedingCommissionConfig struct {
	BBBRate decimal.Decimal
	Spread  decimal.Decimal
}

// UnmarshalYAML decodes CedingCommissionConfig's decimal fields from
// YAML strings via a string-typed Alias struct.
func (c *CedingCommissionConfig) UnmarshalYAML(value *yaml.Node) error {
	type Alias struct {
		BBBRate string `yaml:"bbb_rate"`
		Spread  string `yaml:"spread"`
	}

	var aux Alias
	if err := value.Decode(&aux); err != nil {
		return err
	}

	bbbRate, err := decimal.NewFromString(aux.BBBRate)
	if err != nil {
		return fmt.Errorf("invalid bbb_rate %q: %w", aux.BBBRate, err)
	}
	spread, err := decimal.NewFromString(aux.Spread)
	if err != nil {
		return fmt.Errorf("invalid spread %q: %w", aux.Spread, err)
	}

	c.BBBRate = bbbRate
	c.Spread = spread
	return nil
}

// InforceAdjustmentConfig parameterizes internal/block.AdjustInforce.
type InforceAdjustmentConfig struct {
	FixedPct      decimal.Decimal
	BBBonus       decimal.Decimal
	TargetPremium *decimal.Decimal
}

// UnmarshalYAML decodes InforceAdjustmentConfig's decimal fields from
// YAML strings.
func (a *InforceAdjustmentConfig) UnmarshalYAML(value *yaml.Node) error {
	type Alias struct {
		FixedPct      string  `yaml:"fixed_pct"`
		BBBonus       string  `yaml:"bb_bonus"`
		TargetPremium *string `yaml:"target_premium,omitempty"`
	}

	var aux Alias
	if err := value.Decode(&aux); err != nil {
		return err
	}

	fixedPct, err := decimal.NewFromString(aux.FixedPct)
	if err != nil {
		return fmt.Errorf("invalid fixed_pct %q: %w", aux.FixedPct, err)
	}
	bbBonus, err := decimal.NewFromString(aux.BBBonus)
	if err != nil {
		return fmt.Errorf("invalid bb_bonus %q: %w", aux.BBBonus, err)
	}

	a.FixedPct = fixedPct
	a.BBBonus = bbBonus

	if aux.TargetPremium != nil {
		val, err := decimal.NewFromString(*aux.TargetPremium)
		if err != nil {
			return fmt.Errorf("invalid target_premium %q: %w", *aux.TargetPremium, err)
		}
		a.TargetPremium = &val
	}

	return nil
}

// ReserveRunConfig parameterizes a CARVM reserve calculation.
type ReserveRunConfig struct {
	ValuationMonth      uint32
	MaxProjectionMonths uint32
	MaxDeferralYears    uint32
	UseCaching          bool
}

// BlockRunConfig is the full YAML envelope for a block run: worker
// count, whether to also compute reserves, and the optional
// ceding-commission and inforce-adjustment sub-blocks.
type BlockRunConfig struct {
	MaxWorkers        int                       `yaml:"max_workers"`
	WithReserves      bool                      `yaml:"with_reserves"`
	Reserve           ReserveRunConfig          `yaml:"reserve"`
	CedingCommission  *CedingCommissionConfig   `yaml:"ceding_commission,omitempty"`
	InforceAdjustment *InforceAdjustmentConfig  `yaml:"inforce_adjustment,omitempty"`
}

// blockRunConfigYAML mirrors BlockRunConfig's non-custom fields for
// top-level decoding; ReserveRunConfig has no decimal fields so it
// decodes directly.
type blockRunConfigYAML struct {
	MaxWorkers int `yaml:"max_workers"`
	Reserve    struct {
		ValuationMonth      uint32 `yaml:"valuation_month"`
		MaxProjectionMonths uint32 `yaml:"max_projection_months"`
		MaxDeferralYears    uint32 `yaml:"max_deferral_years"`
		UseCaching          bool   `yaml:"use_caching"`
	} `yaml:"reserve"`
	WithReserves      bool                     `yaml:"with_reserves"`
	CedingCommission  *CedingCommissionConfig  `yaml:"ceding_commission,omitempty"`
	InforceAdjustment *InforceAdjustmentConfig `yaml:"inforce_adjustment,omitempty"`
}

// Parser loads and validates run configuration envelopes.
type Parser struct{}

// NewParser creates a new configuration parser.
func NewParser() *Parser {
	return &Parser{}
}

// LoadBlockRunConfig loads a block-run configuration from a YAML file.
func (p *Parser) LoadBlockRunConfig(filename string) (*BlockRunConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var aux blockRunConfigYAML
	if err := yaml.Unmarshal(data, &aux); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	config := &BlockRunConfig{
		MaxWorkers:   aux.MaxWorkers,
		WithReserves: aux.WithReserves,
		Reserve: ReserveRunConfig{
			ValuationMonth:      aux.Reserve.ValuationMonth,
			MaxProjectionMonths: aux.Reserve.MaxProjectionMonths,
			MaxDeferralYears:    aux.Reserve.MaxDeferralYears,
			UseCaching:          aux.Reserve.UseCaching,
		},
		CedingCommission:  aux.CedingCommission,
		InforceAdjustment: aux.InforceAdjustment,
	}

	if err := p.ValidateBlockRunConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// ValidateBlockRunConfig validates a loaded block-run configuration.
func (p *Parser) ValidateBlockRunConfig(config *BlockRunConfig) error {
	if config.MaxWorkers < 0 {
		return fmt.Errorf("max_workers cannot be negative")
	}

	if config.WithReserves {
		if err := p.validateReserveRunConfig(&config.Reserve); err != nil {
			return fmt.Errorf("reserve config validation failed: %w", err)
		}
	}

	if config.CedingCommission != nil {
		if err := p.validateCedingCommission(config.CedingCommission); err != nil {
			return fmt.Errorf("ceding_commission validation failed: %w", err)
		}
	}

	if config.InforceAdjustment != nil {
		if err := p.validateInforceAdjustment(config.InforceAdjustment); err != nil {
			return fmt.Errorf("inforce_adjustment validation failed: %w", err)
		}
	}

	return nil
}

func (p *Parser) validateReserveRunConfig(r *ReserveRunConfig) error {
	if r.MaxProjectionMonths == 0 {
		return fmt.Errorf("max_projection_months must be positive")
	}
	if r.MaxDeferralYears == 0 {
		return fmt.Errorf("max_deferral_years must be positive")
	}
	return nil
}

func (p *Parser) validateCedingCommission(c *CedingCommissionConfig) error {
	if c.BBBRate.LessThan(decimal.Zero) {
		return fmt.Errorf("bbb_rate cannot be negative")
	}
	if c.Spread.LessThan(decimal.Zero) {
		return fmt.Errorf("spread cannot be negative")
	}
	return nil
}

func (p *Parser) validateInforceAdjustment(a *InforceAdjustmentConfig) error {
	if a.FixedPct.LessThan(decimal.Zero) {
		return fmt.Errorf("fixed_pct cannot be negative")
	}
	if a.TargetPremium != nil && a.TargetPremium.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("target_premium must be positive")
	}
	return nil
}

// ExampleBlockRunConfig returns a representative, hand-built
// configuration, useful as a starting point for a new YAML file.
func (p *Parser) ExampleBlockRunConfig() *BlockRunConfig {
	return &BlockRunConfig{
		MaxWorkers:   8,
		WithReserves: true,
		Reserve: ReserveRunConfig{
			ValuationMonth:      0,
			MaxProjectionMonths: 768,
			MaxDeferralYears:    30,
			UseCaching:          true,
		},
		CedingCommission: &CedingCommissionConfig{
			BBBRate: decimal.NewFromFloat(0.04),
			Spread:  decimal.NewFromFloat(0.0125),
		},
	}
}

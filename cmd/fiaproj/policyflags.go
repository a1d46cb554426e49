package main

import (
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rpgo/fia-glwb-engine/internal/policy"
)

// policyFlags holds the flag values shared by project, block, and reserve
// for describing a single representative policy cell — inforce CSV
// ingestion is out of scope, so every subcommand builds its cell(s)
// straight from these flags.
type policyFlags struct {
	issueAge      uint8
	gender        string
	qual          string
	benefitBase   float64
	pols          float64
	premium       float64
	crediting     string
	scPeriod      uint8
	valRate       float64
	mgir          float64
	bonus         float64
	rollup        string
}

func addPolicyFlags(cmd *cobra.Command, f *policyFlags) {
	cmd.Flags().Uint8Var(&f.issueAge, "issue-age", 65, "issue age")
	cmd.Flags().StringVar(&f.gender, "gender", "Male", "Male or Female")
	cmd.Flags().StringVar(&f.qual, "qual", "Q", "Q (qualified) or N (non-qualified)")
	cmd.Flags().Float64Var(&f.benefitBase, "benefit-base", 100_000, "initial benefit base")
	cmd.Flags().Float64Var(&f.pols, "pols", 1, "lives in the cell")
	cmd.Flags().Float64Var(&f.premium, "premium", 100_000, "initial premium")
	cmd.Flags().StringVar(&f.crediting, "crediting", "Indexed", "Indexed or Fixed")
	cmd.Flags().Uint8Var(&f.scPeriod, "sc-period", 10, "surrender charge period, years")
	cmd.Flags().Float64Var(&f.valRate, "val-rate", 0.0475, "valuation interest rate")
	cmd.Flags().Float64Var(&f.mgir, "mgir", 0.01, "minimum guaranteed interest rate")
	cmd.Flags().Float64Var(&f.bonus, "bonus", 0.0, "premium bonus rate")
	cmd.Flags().StringVar(&f.rollup, "rollup", "Simple", "Simple or Compound benefit-base rollup")
}

// buildPolicy turns the flag set into a single Policy cell, id 1.
func (f *policyFlags) buildPolicy() policy.Policy {
	return policy.New(
		1,
		policy.QualStatus(f.qual),
		f.issueAge,
		policy.Gender(f.gender),
		decimal.NewFromFloat(f.benefitBase),
		decimal.NewFromFloat(f.pols),
		decimal.NewFromFloat(f.premium),
		policy.CreditingStrategy(f.crediting),
		f.scPeriod,
		decimal.NewFromFloat(f.valRate),
		decimal.NewFromFloat(f.mgir),
		decimal.NewFromFloat(f.bonus),
		policy.RollupType(f.rollup),
	)
}

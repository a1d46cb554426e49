package main

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rpgo/fia-glwb-engine/internal/assumptions"
	"github.com/rpgo/fia-glwb-engine/internal/block"
	"github.com/rpgo/fia-glwb-engine/internal/config"
	"github.com/rpgo/fia-glwb-engine/internal/policy"
	"github.com/rpgo/fia-glwb-engine/internal/projection"
	"github.com/rpgo/fia-glwb-engine/internal/reserves"
)

func newBlockCmd() *cobra.Command {
	var flags policyFlags
	var configPath string
	var cellCount int
	var months uint32

	cmd := &cobra.Command{
		Use:   "block",
		Short: "Run a synthetic block of identical cells through projection and, optionally, CARVM reserving",
		RunE: func(cmd *cobra.Command, args []string) error {
			runConfig := config.NewParser().ExampleBlockRunConfig()
			if configPath != "" {
				loaded, err := config.NewParser().LoadBlockRunConfig(configPath)
				if err != nil {
					return fmt.Errorf("loading block config: %w", err)
				}
				runConfig = loaded
			}

			cells := make([]policy.Policy, cellCount)
			base := flags.buildPolicy()
			for i := range cells {
				cell := base
				cell.PolicyID = uint32(i + 1)
				cells[i] = cell
			}

			if runConfig.InforceAdjustment != nil {
				cells = block.AdjustInforce(cells, block.InforceAdjustment{
					FixedPct:      runConfig.InforceAdjustment.FixedPct,
					BBBonus:       runConfig.InforceAdjustment.BBBonus,
					TargetPremium: runConfig.InforceAdjustment.TargetPremium,
				})
			}

			set := assumptions.LoadDefault()
			projConfig := projection.DefaultConfig()
			projConfig.ProjectionMonths = months
			eng := projection.New(set, projConfig)

			blockConfig := block.DefaultConfig()
			blockConfig.MaxWorkers = runConfig.MaxWorkers
			blockConfig.WithReserves = runConfig.WithReserves
			if runConfig.WithReserves {
				blockConfig.ValuationMonth = runConfig.Reserve.ValuationMonth
				reserveConfig := reserves.DefaultCARVMConfig()
				reserveConfig.MaxProjectionMonths = runConfig.Reserve.MaxProjectionMonths
				reserveConfig.MaxDeferralYears = runConfig.Reserve.MaxDeferralYears
				reserveConfig.UseCaching = runConfig.Reserve.UseCaching
				blockConfig.ReserveConfig = reserveConfig
			}

			results := block.Run(cells, eng, blockConfig)

			totalNetCF := decimal.Zero
			totalReserve := decimal.Zero
			for _, r := range results {
				totalNetCF = totalNetCF.Add(r.Result.Summary().TotalNetCF)
				if r.Reserve != nil {
					totalReserve = totalReserve.Add(r.Reserve.GrossReserve)
				}
			}

			fmt.Printf("cells_run:          %d\n", len(results))
			fmt.Printf("total_net_cashflow: %s\n", totalNetCF.StringFixed(2))
			if runConfig.WithReserves {
				fmt.Printf("total_gross_reserve: %s\n", totalReserve.StringFixed(2))
			}

			if runConfig.CedingCommission != nil {
				cashflows := make([]decimal.Decimal, 0, months)
				for _, row := range results[0].Result.Cashflows {
					cashflows = append(cashflows, row.TotalNetCashflow)
				}
				npv := block.CedingCommissionNPV(cashflows, runConfig.CedingCommission.BBBRate, runConfig.CedingCommission.Spread)
				fmt.Printf("ceding_commission_npv (cell 1): %s\n", npv.StringFixed(2))
			}

			return nil
		},
	}

	addPolicyFlags(cmd, &flags)
	cmd.Flags().StringVar(&configPath, "config", "", "path to a block-run YAML config; omit to use built-in defaults")
	cmd.Flags().IntVar(&cellCount, "cells", 10, "number of synthetic cells to generate from the policy flags")
	cmd.Flags().Uint32Var(&months, "months", 768, "number of months to project per cell")
	return cmd
}

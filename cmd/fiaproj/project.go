package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rpgo/fia-glwb-engine/internal/assumptions"
	"github.com/rpgo/fia-glwb-engine/internal/projection"
)

func newProjectCmd() *cobra.Command {
	var flags policyFlags
	var months uint32

	cmd := &cobra.Command{
		Use:   "project",
		Short: "Run one policy cell through the monthly projection kernel and print a summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			set := assumptions.LoadDefault()
			config := projection.DefaultConfig()
			config.ProjectionMonths = months

			eng := projection.New(set, config)
			result := eng.ProjectPolicy(flags.buildPolicy())
			summary := result.Summary()

			fmt.Printf("policy_id:            %d\n", result.PolicyID)
			fmt.Printf("months_projected:      %d\n", summary.TotalMonths)
			fmt.Printf("total_premium:         %s\n", summary.TotalPremium.StringFixed(2))
			fmt.Printf("total_mortality_cf:    %s\n", summary.TotalMortality.StringFixed(2))
			fmt.Printf("total_lapse_cf:        %s\n", summary.TotalLapse.StringFixed(2))
			fmt.Printf("total_pwd_cf:          %s\n", summary.TotalPWD.StringFixed(2))
			fmt.Printf("total_rider_charges:   %s\n", summary.TotalRiderCharges.StringFixed(2))
			fmt.Printf("total_net_cashflow:    %s\n", summary.TotalNetCF.StringFixed(2))
			fmt.Printf("final_av:              %s\n", summary.FinalAV.StringFixed(2))
			fmt.Printf("final_lives:           %s\n", summary.FinalLives.StringFixed(6))
			return nil
		},
	}

	addPolicyFlags(cmd, &flags)
	cmd.Flags().Uint32Var(&months, "months", 768, "number of months to project")
	return cmd
}

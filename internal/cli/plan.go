package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// PlanOptions holds flags for the plan command.
type PlanOptions struct {
	*RootOptions
	Region string
}

// NewPlanCommand creates the plan command.
func NewPlanCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlanOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the tax rates a sync would create",
		Long: `Show the tax rates a sync would create, without contacting Stripe.

No credentials are needed. Every country yields an exclusive and an inclusive
rate; Greece appears as GR even though the EU lists it as EL.

Example:
  vatsync plan
  vatsync plan --region eu --format json
  vatsync plan --rules ./rules.yaml --item ebook`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Region, "region", RegionAll, "region to plan (uk|eu|all)")

	return cmd
}

func runPlan(opts *PlanOptions, cmd *cobra.Command) error {
	if !isValidRegion(opts.Region) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid region %q: must be one of %v", opts.Region, ValidRegions))
	}
	descriptors, err := opts.planFor(opts.Region)
	if err != nil {
		return err
	}
	return opts.formatter(cmd).Success(descriptorTable(descriptors))
}

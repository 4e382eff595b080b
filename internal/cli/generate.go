package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	*RootOptions
	Region string
	DryRun bool
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Create UK and/or EU tax rates without deactivating old ones",
		Long: `Create inclusive and exclusive VAT tax rates.

The UK rate is fixed at 20%. EU rates come from the VAT rules table; a
country missing from the table fails the command before any rate is created,
UK rates included.

Example:
  vatsync generate --region uk
  vatsync generate --region eu --dry-run`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Region, "region", RegionAll, "region to generate (uk|eu|all)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "log creates instead of sending them")

	return cmd
}

func runGenerate(opts *GenerateOptions, cmd *cobra.Command) error {
	if !isValidRegion(opts.Region) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid region %q: must be one of %v", opts.Region, ValidRegions))
	}
	s, err := opts.openSession(cmd, opts.DryRun)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	var rows rateTable
	for _, account := range s.cfg.Accounts {
		uk := opts.Region == RegionUK || opts.Region == RegionAll
		eu := opts.Region == RegionEU || opts.Region == RegionAll
		created, err := s.service.Generate(ctx, account, uk, eu)
		if err != nil {
			return accountError("generate", account, err)
		}
		rows = append(rows, rowsFor(account, created)...)
	}
	return opts.formatter(cmd).Success(rows)
}

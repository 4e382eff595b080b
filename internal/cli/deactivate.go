package cli

import "github.com/spf13/cobra"

// DeactivateOptions holds flags for the deactivate command.
type DeactivateOptions struct {
	*RootOptions
	DryRun bool
}

// NewDeactivateCommand creates the deactivate command.
func NewDeactivateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DeactivateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "deactivate",
		Short: "Deactivate machine-managed tax rates",
		Long: `Mark every active tax rate with metadata update-me=True inactive.

Rates without the flag are left alone. There is no rollback: if an update
fails, rates already deactivated stay inactive.

Example:
  vatsync deactivate --dry-run
  vatsync deactivate --account acct_123`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeactivate(opts, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "log updates instead of sending them")

	return cmd
}

func runDeactivate(opts *DeactivateOptions, cmd *cobra.Command) error {
	s, err := opts.openSession(cmd, opts.DryRun)
	if err != nil {
		return err
	}

	var rows rateTable
	for _, account := range s.cfg.Accounts {
		done, err := s.service.Deactivate(cmd.Context(), account)
		if err != nil {
			return accountError("deactivate", account, err)
		}
		rows = append(rows, rowsFor(account, done)...)
	}
	return opts.formatter(cmd).Success(rows)
}

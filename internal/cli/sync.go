package cli

import "github.com/spf13/cobra"

// SyncOptions holds flags for the sync command.
type SyncOptions struct {
	*RootOptions
	DryRun bool
}

// NewSyncCommand creates the sync command.
func NewSyncCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SyncOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Deactivate managed tax rates and recreate them from the rules table",
		Long: `Deactivate every managed tax rate and recreate the UK and EU rates.

The full set of rates is built first, so a missing VAT rule aborts the run
before anything on the account changes. Accounts are processed one after
another; the first failure stops the run.

While a sync is running the account briefly has no active managed rate.
Avoid editing its tax rates by hand at the same time.

Example:
  vatsync sync --dry-run
  vatsync sync --account acct_1 --account acct_2`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(opts, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "log mutations instead of sending them")

	return cmd
}

func runSync(opts *SyncOptions, cmd *cobra.Command) error {
	s, err := opts.openSession(cmd, opts.DryRun)
	if err != nil {
		return err
	}

	var report syncReport
	for _, account := range s.cfg.Accounts {
		result, err := s.service.Sync(cmd.Context(), account)
		if err != nil {
			return accountError("sync", account, err)
		}
		report = append(report, result)
	}
	return opts.formatter(cmd).Success(report)
}

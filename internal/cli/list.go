package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/vatsync/internal/taxrates"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	All bool
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List active machine-managed tax rates",
		Long: `List the active tax rates vatsync manages on each account.

With --all, hand-made rates are listed too. Listing pages through the
account until every active rate has been seen.

Example:
  vatsync list
  vatsync list --all --account acct_123 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.All, "all", false, "include rates not managed by vatsync")

	return cmd
}

func runList(opts *ListOptions, cmd *cobra.Command) error {
	s, err := opts.openSession(cmd, false)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	var rows rateTable
	for _, account := range s.cfg.Accounts {
		var rates []taxrates.Rate
		if opts.All {
			for rate, err := range s.service.ListActive(ctx, account) {
				if err != nil {
					return accountError("list", account, err)
				}
				rates = append(rates, rate)
			}
		} else {
			rates, err = s.service.ListManaged(ctx, account)
			if err != nil {
				return accountError("list", account, err)
			}
		}
		s.logger.Info("listed tax rates", "account", account, "count", len(rates), "all", opts.All)
		rows = append(rows, rowsFor(account, rates)...)
	}
	return opts.formatter(cmd).Success(rows)
}

package cli

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/vatsync/internal/config"
	"github.com/roach88/vatsync/internal/taxrates"
	"github.com/roach88/vatsync/internal/vat"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose   bool
	Format    string   // "json" | "text"
	Accounts  []string // overrides STRIPE_ACC_ID
	RulesPath string   // alternative VAT rules YAML
	Item      string   // VAT item type used for EU rates

	// LoadConfig reads configuration. Defaults to config.Load.
	LoadConfig func(config.Overrides) (*config.Config, error)

	// NewAPI builds the billing client. Defaults to a stripe-backed client.
	NewAPI func(cfg *config.Config, logger *slog.Logger) taxrates.API
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the vatsync CLI.
func NewRootCommand() *cobra.Command {
	return NewRootCommandWithOptions(&RootOptions{})
}

// NewRootCommandWithOptions creates the root command around existing options,
// so callers can substitute config loading and the billing client.
func NewRootCommandWithOptions(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vatsync",
		Short: "vatsync - keep Stripe VAT tax rates in step with the UK/EU rules table",
		Long: `Synchronise Stripe tax rates with a static VAT rules table.

vatsync deactivates the tax rates it generated on a previous run (those with
metadata update-me=True) and recreates inclusive and exclusive rates for the
United Kingdom and every EU member state. Rates created by hand are never
modified.

Environment:
  STRIPE_SECRET_KEY           secret API key (required)
  STRIPE_API_VERSION          Stripe API version (required)
  STRIPE_ACC_ID               connected account(s), comma separated (required unless --account)
  STRIPE_API_BASE             API base URL override (optional)
  STRIPE_MAX_NETWORK_RETRIES  client retries (default 2)`,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			if !isValidItem(opts.Item) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid item %q: must be one of %v", opts.Item, vat.ItemTypes))
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringArrayVar(&opts.Accounts, "account", nil, "connected account ID (repeatable, overrides STRIPE_ACC_ID)")
	cmd.PersistentFlags().StringVar(&opts.RulesPath, "rules", "", "path to a VAT rules YAML file (default: built-in table)")
	cmd.PersistentFlags().StringVar(&opts.Item, "item", "", "VAT item type for EU rates (default: generic_electronic_service)")

	cmd.AddCommand(NewPlanCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewDeactivateCommand(opts))
	cmd.AddCommand(NewGenerateCommand(opts))
	cmd.AddCommand(NewSyncCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// isValidItem accepts an empty item, which selects the default.
func isValidItem(item string) bool {
	return item == "" || vat.ItemType(item).Valid()
}

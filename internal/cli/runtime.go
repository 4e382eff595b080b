package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/vatsync/internal/billing"
	"github.com/roach88/vatsync/internal/config"
	"github.com/roach88/vatsync/internal/taxrates"
	"github.com/roach88/vatsync/internal/vat"
)

// Regions accepted by --region.
const (
	RegionUK  = "uk"
	RegionEU  = "eu"
	RegionAll = "all"
)

// ValidRegions defines the allowed --region values.
var ValidRegions = []string{RegionUK, RegionEU, RegionAll}

func isValidRegion(region string) bool {
	return slices.Contains(ValidRegions, region)
}

// session is what a remote command needs: validated config, a logger and
// a service bound to the billing API.
type session struct {
	cfg     *config.Config
	logger  *slog.Logger
	service *taxrates.Service
}

// newLogger writes progress to stderr so stdout stays parseable.
func (o *RootOptions) newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if o.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{Format: o.Format, Writer: cmd.OutOrStdout()}
}

func (o *RootOptions) itemType() vat.ItemType {
	if o.Item == "" {
		return vat.GenericElectronicService
	}
	return vat.ItemType(o.Item)
}

func (o *RootOptions) table() (*vat.Table, error) {
	if o.RulesPath == "" {
		return vat.Default(), nil
	}
	table, err := vat.Load(o.RulesPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load VAT rules", err)
	}
	return table, nil
}

// planFor builds the descriptors for a region without touching the API.
func (o *RootOptions) planFor(region string) ([]taxrates.Descriptor, error) {
	table, err := o.table()
	if err != nil {
		return nil, err
	}
	var out []taxrates.Descriptor
	if region == RegionUK || region == RegionAll {
		out = append(out, taxrates.UKDescriptors()...)
	}
	if region == RegionEU || region == RegionAll {
		eu, err := taxrates.EUDescriptors(table, o.itemType())
		if err != nil {
			return nil, WrapExitError(ExitFailure, "failed to build EU tax rates", err)
		}
		out = append(out, eu...)
	}
	return out, nil
}

// openSession loads configuration and wires the service.
func (o *RootOptions) openSession(cmd *cobra.Command, dryRun bool) (*session, error) {
	logger := o.newLogger(cmd.ErrOrStderr())

	load := o.LoadConfig
	if load == nil {
		load = config.Load
	}
	cfg, err := load(config.Overrides{Accounts: o.Accounts})
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	table, err := o.table()
	if err != nil {
		return nil, err
	}

	newAPI := o.NewAPI
	if newAPI == nil {
		newAPI = newStripeAPI
	}

	service := taxrates.NewService(newAPI(cfg, logger), table, taxrates.Options{
		Item:   o.itemType(),
		DryRun: dryRun,
		Logger: logger,
	})
	logger.Debug("session ready", "accounts", cfg.Accounts, "dry_run", dryRun, "item", o.itemType())
	return &session{cfg: cfg, logger: logger, service: service}, nil
}

func newStripeAPI(cfg *config.Config, logger *slog.Logger) taxrates.API {
	return billing.New(billing.Config{
		SecretKey:         cfg.SecretKey,
		APIVersion:        cfg.APIVersion,
		BaseURL:           cfg.APIBase,
		MaxNetworkRetries: cfg.MaxNetworkRetries,
		Logger:            logger,
	})
}

func accountError(action, account string, err error) error {
	return WrapExitError(ExitFailure, fmt.Sprintf("%s failed for account %s", action, account), err)
}

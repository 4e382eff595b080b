package taxrates

import (
	"context"
	"fmt"
	"iter"
	"log/slog"

	"github.com/roach88/vatsync/internal/vat"
)

// API is the subset of the billing provider's tax-rate API that vatsync uses.
// Every call is scoped to a connected account.
type API interface {
	// List yields the account's active rates, fetching pages lazily until the
	// account is exhausted. Ranging over the result again restarts the listing.
	List(ctx context.Context, account string) iter.Seq2[Rate, error]

	// Create submits a descriptor and returns the stored rate.
	Create(ctx context.Context, account string, d Descriptor) (Rate, error)

	// Deactivate marks a rate inactive and returns the stored rate.
	Deactivate(ctx context.Context, account, id string) (Rate, error)
}

// Options configures a Service.
type Options struct {
	// Item is the category whose VAT rate is used for EU descriptors.
	// Defaults to vat.GenericElectronicService.
	Item vat.ItemType

	// DryRun logs create and deactivate calls instead of sending them.
	DryRun bool

	Logger *slog.Logger
}

// Service runs listing, deactivation and generation against one API.
type Service struct {
	api    API
	table  *vat.Table
	item   vat.ItemType
	dryRun bool
	logger *slog.Logger
}

// SyncResult summarises a Sync run for one account.
type SyncResult struct {
	Account     string `json:"account"`
	DryRun      bool   `json:"dry_run,omitempty"`
	Deactivated []Rate `json:"deactivated"`
	Created     []Rate `json:"created"`
}

// NewService creates a Service. A nil table selects vat.Default().
func NewService(api API, table *vat.Table, opts Options) *Service {
	if table == nil {
		table = vat.Default()
	}
	if opts.Item == "" {
		opts.Item = vat.GenericElectronicService
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Service{
		api:    api,
		table:  table,
		item:   opts.Item,
		dryRun: opts.DryRun,
		logger: opts.Logger,
	}
}

// ListActive returns the account's active rates as a lazy sequence.
func (s *Service) ListActive(ctx context.Context, account string) iter.Seq2[Rate, error] {
	return s.api.List(ctx, account)
}

// ListManaged drains the active listing and keeps the machine-managed rates.
func (s *Service) ListManaged(ctx context.Context, account string) ([]Rate, error) {
	var managed []Rate
	for rate, err := range s.api.List(ctx, account) {
		if err != nil {
			return nil, err
		}
		if rate.Active && IsManaged(rate) {
			managed = append(managed, rate)
		}
	}
	return managed, nil
}

// Deactivate marks every active machine-managed rate inactive.
//
// The listing is drained before the first update so pagination never runs
// against a set that is shrinking underneath it. The first failed update
// stops the run; rates already deactivated are returned with the error.
func (s *Service) Deactivate(ctx context.Context, account string) ([]Rate, error) {
	managed, err := s.ListManaged(ctx, account)
	if err != nil {
		return nil, err
	}
	s.logger.Info("managed tax rates", "account", account, "count", len(managed))

	done := make([]Rate, 0, len(managed))
	for _, rate := range managed {
		if s.dryRun {
			s.logger.Info("dry run: would deactivate tax rate", "account", account, "id", rate.ID, "country", rate.Country)
			done = append(done, rate)
			continue
		}
		updated, err := s.api.Deactivate(ctx, account, rate.ID)
		if err != nil {
			return done, fmt.Errorf("deactivate tax rate %s: %w", rate.ID, err)
		}
		s.logger.Debug("deactivated tax rate", "account", account, "id", rate.ID, "country", rate.Country)
		done = append(done, updated)
	}
	return done, nil
}

// Plan returns the UK descriptors followed by the EU descriptors.
func (s *Service) Plan() ([]Descriptor, error) {
	eu, err := EUDescriptors(s.table, s.item)
	if err != nil {
		return nil, err
	}
	return append(UKDescriptors(), eu...), nil
}

// GenerateUK creates the UK rates.
func (s *Service) GenerateUK(ctx context.Context, account string) ([]Rate, error) {
	return s.Generate(ctx, account, true, false)
}

// GenerateEU creates the EU rates.
func (s *Service) GenerateEU(ctx context.Context, account string) ([]Rate, error) {
	return s.Generate(ctx, account, false, true)
}

// Generate creates the UK and/or EU rates. All descriptors are built before
// the first create call, so a missing rule leaves the account untouched.
func (s *Service) Generate(ctx context.Context, account string, uk, eu bool) ([]Rate, error) {
	var descriptors []Descriptor
	if uk {
		descriptors = append(descriptors, UKDescriptors()...)
	}
	if eu {
		rates, err := EUDescriptors(s.table, s.item)
		if err != nil {
			return nil, err
		}
		descriptors = append(descriptors, rates...)
	}
	return s.create(ctx, account, descriptors)
}

// Sync deactivates the account's managed rates and recreates them from the
// plan. The plan is built first; a missing rule aborts before any mutation.
func (s *Service) Sync(ctx context.Context, account string) (SyncResult, error) {
	result := SyncResult{Account: account, DryRun: s.dryRun}

	plan, err := s.Plan()
	if err != nil {
		return result, err
	}

	result.Deactivated, err = s.Deactivate(ctx, account)
	if err != nil {
		return result, err
	}

	result.Created, err = s.create(ctx, account, plan)
	if err != nil {
		return result, err
	}

	s.logger.Info("tax rate sync complete", "account", account,
		"deactivated", len(result.Deactivated), "created", len(result.Created))
	return result, nil
}

func (s *Service) create(ctx context.Context, account string, descriptors []Descriptor) ([]Rate, error) {
	created := make([]Rate, 0, len(descriptors))
	for _, d := range descriptors {
		if s.dryRun {
			s.logger.Info("dry run: would create tax rate", "account", account, "country", d.Country, "kind", d.Kind(), "percentage", d.Percentage)
			created = append(created, Rate{Active: true, Descriptor: d})
			continue
		}
		rate, err := s.api.Create(ctx, account, d)
		if err != nil {
			return created, fmt.Errorf("create %s %s tax rate: %w", d.Kind(), d.Country, err)
		}
		s.logger.Info("created tax rate", "account", account, "country", d.Country, "kind", d.Kind(), "id", rate.ID)
		created = append(created, rate)
	}
	return created, nil
}

package billing

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/taxrate"

	"github.com/roach88/vatsync/internal/taxrates"
)

// PageSize is the number of rates requested per list page.
const PageSize = 100

const defaultTimeout = 80 * time.Second

// Config configures a Client.
type Config struct {
	SecretKey  string
	APIVersion string

	// BaseURL overrides the Stripe API host, e.g. for stripe-mock.
	BaseURL string

	MaxNetworkRetries int64

	// HTTPClient is optional. Its Transport is wrapped, not replaced.
	HTTPClient *http.Client

	// Keys generates idempotency keys for create calls. Defaults to UUIDv7Keys.
	Keys KeyGenerator

	Logger *slog.Logger
}

// Client talks to the Stripe tax rate endpoints.
type Client struct {
	rates taxrate.Client
	keys  KeyGenerator
}

var _ taxrates.API = (*Client)(nil)

// New creates a Client with its own stripe backend. It never touches the
// stripe package's global key or backends.
func New(cfg Config) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	keys := cfg.Keys
	if keys == nil {
		keys = UUIDv7Keys{}
	}

	httpClient := &http.Client{Timeout: defaultTimeout}
	if cfg.HTTPClient != nil {
		c := *cfg.HTTPClient
		httpClient = &c
	}
	httpClient.Transport = newVersionTransport(cfg.APIVersion, httpClient.Transport)

	backendConfig := &stripe.BackendConfig{
		HTTPClient:        httpClient,
		LeveledLogger:     NewLeveledLogger(logger),
		MaxNetworkRetries: stripe.Int64(cfg.MaxNetworkRetries),
		EnableTelemetry:   stripe.Bool(false),
	}
	if cfg.BaseURL != "" {
		backendConfig.URL = stripe.String(cfg.BaseURL)
	}
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, backendConfig)

	return &Client{
		rates: taxrate.Client{B: backend, Key: cfg.SecretKey},
		keys:  keys,
	}
}

// List implements taxrates.API. Pages are fetched as the sequence is
// consumed; stripe's iterator follows starting_after until has_more is false.
func (c *Client) List(ctx context.Context, account string) iter.Seq2[taxrates.Rate, error] {
	return func(yield func(taxrates.Rate, error) bool) {
		params := &stripe.TaxRateListParams{Active: stripe.Bool(true)}
		params.Limit = stripe.Int64(PageSize)
		params.Context = ctx
		params.SetStripeAccount(account)

		it := c.rates.List(params)
		for it.Next() {
			if !yield(fromStripe(it.TaxRate()), nil) {
				return
			}
		}
		if err := it.Err(); err != nil {
			yield(taxrates.Rate{}, fmt.Errorf("list tax rates: %w", err))
		}
	}
}

// Create implements taxrates.API.
func (c *Client) Create(ctx context.Context, account string, d taxrates.Descriptor) (taxrates.Rate, error) {
	params := createParams(d)
	params.Context = ctx
	params.SetStripeAccount(account)
	params.SetIdempotencyKey(c.keys.Generate())

	tr, err := c.rates.New(params)
	if err != nil {
		return taxrates.Rate{}, fmt.Errorf("create tax rate: %w", err)
	}
	return fromStripe(tr), nil
}

// Deactivate implements taxrates.API.
func (c *Client) Deactivate(ctx context.Context, account, id string) (taxrates.Rate, error) {
	params := &stripe.TaxRateParams{Active: stripe.Bool(false)}
	params.Context = ctx
	params.SetStripeAccount(account)

	tr, err := c.rates.Update(id, params)
	if err != nil {
		return taxrates.Rate{}, fmt.Errorf("update tax rate %s: %w", id, err)
	}
	return fromStripe(tr), nil
}

// createParams maps a descriptor onto create parameters. State is left unset:
// state-level jurisdictions are unsupported.
func createParams(d taxrates.Descriptor) *stripe.TaxRateParams {
	params := &stripe.TaxRateParams{
		DisplayName: stripe.String(d.DisplayName),
		Inclusive:   stripe.Bool(d.Inclusive),
		Percentage:  stripe.Float64(d.Percentage),
		Description: stripe.String(d.Description),
	}
	if d.Country != "" {
		params.Country = stripe.String(d.Country)
	}
	if d.Jurisdiction != "" {
		params.Jurisdiction = stripe.String(d.Jurisdiction)
	}
	for k, v := range d.Metadata {
		params.AddMetadata(k, v)
	}
	return params
}

func fromStripe(tr *stripe.TaxRate) taxrates.Rate {
	if tr == nil {
		return taxrates.Rate{}
	}
	return taxrates.Rate{
		ID:     tr.ID,
		Active: tr.Active,
		Descriptor: taxrates.Descriptor{
			DisplayName:  tr.DisplayName,
			Inclusive:    tr.Inclusive,
			Percentage:   tr.Percentage,
			Country:      tr.Country,
			State:        tr.State,
			Jurisdiction: tr.Jurisdiction,
			Description:  tr.Description,
			Metadata:     tr.Metadata,
		},
	}
}

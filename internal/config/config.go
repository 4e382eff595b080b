// Package config loads vatsync's runtime configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

// Config is passed explicitly to the billing client and, through Accounts,
// to every operation. Nothing downstream reads the environment.
type Config struct {
	SecretKey  string `envconfig:"STRIPE_SECRET_KEY" validate:"required"`
	APIVersion string `envconfig:"STRIPE_API_VERSION" validate:"required"`

	// Accounts are the connected accounts to operate on. STRIPE_ACC_ID may
	// hold a comma-separated list.
	Accounts []string `envconfig:"STRIPE_ACC_ID" validate:"min=1,dive,required,startswith=acct_"`

	// APIBase overrides the Stripe API host (stripe-mock, tests).
	APIBase string `envconfig:"STRIPE_API_BASE" validate:"omitempty,url"`

	MaxNetworkRetries int64 `envconfig:"STRIPE_MAX_NETWORK_RETRIES" default:"2" validate:"gte=0,lte=10"`
}

// Overrides are command-line values that take precedence over the environment.
type Overrides struct {
	Accounts []string
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads the environment, applies overrides and validates the result.
func Load(overrides Overrides) (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if len(overrides.Accounts) > 0 {
		cfg.Accounts = overrides.Accounts
	}
	cfg.Accounts = trimAll(cfg.Accounts)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that every required setting is present and well formed.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("config: %s", strings.Join(msgs, "; "))
}

var envNames = map[string]string{
	"SecretKey":         "STRIPE_SECRET_KEY",
	"APIVersion":        "STRIPE_API_VERSION",
	"Accounts":          "STRIPE_ACC_ID",
	"APIBase":           "STRIPE_API_BASE",
	"MaxNetworkRetries": "STRIPE_MAX_NETWORK_RETRIES",
}

func describe(fe validator.FieldError) string {
	name := fe.StructField()
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	env := envNames[name]
	switch fe.Tag() {
	case "required", "min":
		return fmt.Sprintf("%s is required", env)
	case "startswith":
		return fmt.Sprintf("%s: %q must start with %q", env, fe.Value(), fe.Param())
	default:
		return fmt.Sprintf("%s: invalid value (%s)", env, fe.Tag())
	}
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

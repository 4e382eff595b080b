package taxrates

import (
	"fmt"
	"strconv"
)

// ManagedKey and ManagedValue form the metadata flag that marks a rate as
// owned by vatsync.
const (
	ManagedKey   = "update-me"
	ManagedValue = "True"
)

// Descriptor describes a tax rate to be created remotely.
//
// Percentage, Country and Jurisdiction are immutable once created.
type Descriptor struct {
	// DisplayName is the short customer-visible label, e.g. "UK VAT".
	DisplayName string `json:"display_name"`

	// Inclusive is true when the percentage is already part of the price.
	Inclusive bool `json:"inclusive"`

	// Percentage has at most 4 fractional digits.
	Percentage float64 `json:"percentage"`

	// Country is an ISO 3166-1 alpha-2 code.
	Country string `json:"country,omitempty"`

	// State is never sent; state-level jurisdictions are unsupported.
	State string `json:"state,omitempty"`

	// Jurisdiction is shown as the region label in the Stripe dashboard.
	Jurisdiction string `json:"jurisdiction,omitempty"`

	// Description is internal and not shown to customers.
	Description string `json:"description"`

	Metadata map[string]string `json:"metadata,omitempty"`
}

// Kind returns "inclusive" or "exclusive".
func (d Descriptor) Kind() string {
	if d.Inclusive {
		return "inclusive"
	}
	return "exclusive"
}

func (d Descriptor) String() string {
	return fmt.Sprintf("%s %s %s%% jurisdiction=%s display=%q description=%q",
		d.Country, d.Kind(), FormatPercentage(d.Percentage), d.Jurisdiction, d.DisplayName, d.Description)
}

// Rate is a tax rate as stored remotely.
type Rate struct {
	ID     string `json:"id"`
	Active bool   `json:"active"`
	Descriptor
}

// IsManaged reports whether the rate carries the machine-managed flag.
func IsManaged(r Rate) bool {
	return r.Metadata[ManagedKey] == ManagedValue
}

// FormatPercentage renders a percentage without trailing zeros.
func FormatPercentage(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

func managedMetadata() map[string]string {
	return map[string]string{ManagedKey: ManagedValue}
}

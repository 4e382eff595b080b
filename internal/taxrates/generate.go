package taxrates

import (
	"fmt"
	"math"

	"github.com/roach88/vatsync/internal/vat"
)

// UK rate constants. The UK is not part of the EU table.
const (
	UKCode        = "GB"
	UKDisplayName = "UK VAT"
	UKPercentage  = 20.0 // https://www.gov.uk/vat-rates
)

// UKDescriptors returns the exclusive and inclusive UK descriptors.
func UKDescriptors() []Descriptor {
	return pair(UKCode, UKDisplayName, UKPercentage)
}

// EUDescriptors returns an exclusive and an inclusive descriptor for every EU
// member state, using the item type's rate from the table.
func EUDescriptors(table *vat.Table, item vat.ItemType) ([]Descriptor, error) {
	return CountryDescriptors(table, item, vat.EUCountryCodes...)
}

// CountryDescriptors builds descriptor pairs for the given EU-standard codes.
// The first code without a rule fails the whole call.
func CountryDescriptors(table *vat.Table, item vat.ItemType, codes ...string) ([]Descriptor, error) {
	out := make([]Descriptor, 0, 2*len(codes))
	for _, code := range codes {
		country := vat.Canonical(code)
		percentage, err := table.Rate(country, item)
		if err != nil {
			return nil, fmt.Errorf("build %s descriptors: %w", country, err)
		}
		out = append(out, pair(country, country+" VAT", percentage)...)
	}
	return out, nil
}

// pair builds the exclusive descriptor followed by the inclusive one.
func pair(country, displayName string, percentage float64) []Descriptor {
	percentage = math.Round(percentage*1e4) / 1e4

	build := func(inclusive bool) Descriptor {
		label := "Exclusive"
		if inclusive {
			label = "Inclusive"
		}
		return Descriptor{
			DisplayName:  displayName,
			Inclusive:    inclusive,
			Percentage:   percentage,
			Country:      country,
			Jurisdiction: country,
			Description:  fmt.Sprintf("%s VAT %s", country, label),
			Metadata:     managedMetadata(),
		}
	}
	return []Descriptor{build(false), build(true)}
}

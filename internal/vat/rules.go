package vat

import (
	_ "embed"
	"fmt"
	"os"
	"slices"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

// ItemType is the category of a supplied item. Reduced rates hang off it.
type ItemType string

const (
	GenericPhysicalGood              ItemType = "generic_physical_good"
	GenericElectronicService         ItemType = "generic_electronic_service"
	GenericTelecommunicationsService ItemType = "generic_telecommunications_service"
	GenericBroadcastingService       ItemType = "generic_broadcasting_service"
	PrepaidBroadcastingService       ItemType = "prepaid_broadcasting_service"
	Ebook                            ItemType = "ebook"
	Enewspaper                       ItemType = "enewspaper"
)

// ItemTypes lists every known item type.
var ItemTypes = []ItemType{
	GenericPhysicalGood,
	GenericElectronicService,
	GenericTelecommunicationsService,
	GenericBroadcastingService,
	PrepaidBroadcastingService,
	Ebook,
	Enewspaper,
}

// Valid reports whether t is one of ItemTypes. Rate does not check this, so
// an unknown type silently resolves to the standard rate.
func (t ItemType) Valid() bool {
	return slices.Contains(ItemTypes, t)
}

//go:embed rules.yaml
var rulesYAML []byte

// CountryRule is the VAT rule for one country.
type CountryRule struct {
	// Standard is the rate for any item type without an override.
	Standard float64 `yaml:"standard"`

	// Overrides replaces Standard for specific item types.
	Overrides map[ItemType]float64 `yaml:"overrides,omitempty"`
}

// Table maps ISO country codes to their rule.
type Table struct {
	Countries map[string]CountryRule `yaml:"countries"`
}

// MissingRuleError reports a lookup for a country the table does not cover.
type MissingRuleError struct {
	Country string
	Item    ItemType
}

func (e *MissingRuleError) Error() string {
	return fmt.Sprintf("vat: no rule for country %q (item %s)", e.Country, e.Item)
}

// NewTable builds a table from an in-memory rule set.
func NewTable(countries map[string]CountryRule) *Table {
	return &Table{Countries: countries}
}

// Parse decodes a YAML rules document.
func Parse(data []byte) (*Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("vat: parse rules: %w", err)
	}
	if t.Countries == nil {
		t.Countries = map[string]CountryRule{}
	}
	return &t, nil
}

// Load reads and decodes a YAML rules file.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("vat: read rules: %w", err)
	}
	return Parse(data)
}

// Default returns the embedded rules table.
//
// Panics if the embedded document does not decode, which is a build defect.
var Default = sync.OnceValue(func() *Table {
	t, err := Parse(rulesYAML)
	if err != nil {
		panic(err)
	}
	return t
})

// Rate returns the VAT percentage for an item type in a country.
func (t *Table) Rate(country string, item ItemType) (float64, error) {
	rule, ok := t.Countries[country]
	if !ok {
		return 0, &MissingRuleError{Country: country, Item: item}
	}
	if rate, ok := rule.Overrides[item]; ok {
		return rate, nil
	}
	return rule.Standard, nil
}

// Codes returns the table's country codes in sorted order.
func (t *Table) Codes() []string {
	codes := make([]string, 0, len(t.Countries))
	for code := range t.Countries {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

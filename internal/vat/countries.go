package vat

// EUCountryCodes lists the EU member states using the EU's own code
// convention, so Greece appears as "EL".
var EUCountryCodes = []string{
	"AT", "BE", "BG", "CY", "CZ", "DE", "DK", "EE", "EL", "ES",
	"FI", "FR", "HR", "HU", "IE", "IT", "LT", "LU", "LV", "MT",
	"NL", "PL", "PT", "RO", "SE", "SI", "SK",
}

// Aliases maps EU-standard country codes to the ISO 3166-1 code Stripe expects.
// Only codes that differ between the two standards are listed.
var Aliases = map[string]string{
	"EL": "GR",
}

// Canonical returns the ISO 3166-1 code for an EU-standard code.
func Canonical(code string) string {
	if iso, ok := Aliases[code]; ok {
		return iso
	}
	return code
}

// Package vat holds the static VAT rules table and the EU membership list.
//
// The table is reference data: it is read, never validated or modified.
// Rates are percentages keyed by ISO 3166-1 alpha-2 country code, with an
// optional per-item-type override for reduced categories such as e-books.
//
// # Country codes
//
// The EU publishes Greece as "EL" while ISO 3166 (and Stripe) use "GR".
// EUCountryCodes keeps the EU spelling; Canonical maps it through Aliases
// before any table lookup or Stripe field is built.
package vat

// Package billing implements taxrates.API on top of stripe-go.
//
// Every call carries the connected account in the Stripe-Account header.
// The API version comes from configuration rather than the library's pinned
// version, so an http.RoundTripper rewrites Stripe-Version on each request.
//
// Transport, authentication and network retries belong to stripe-go. Errors
// it returns (*stripe.Error) are wrapped with %w and are otherwise unchanged.
package billing

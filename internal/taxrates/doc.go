// Package taxrates builds VAT tax-rate descriptors and reconciles them with
// the rates stored on a billing account.
//
// A reconciliation run is a single linear pass:
//
//  1. Plan: build the UK and EU descriptors in memory. A missing VAT rule
//     aborts here, before any remote call.
//  2. Deactivate: list the account's active rates, keep those carrying the
//     machine-managed flag (update-me = "True"), and mark each inactive.
//  3. Create: submit every planned descriptor.
//
// Rates without the flag were created by hand and are never touched. Every
// descriptor this package builds carries the flag so the next run can find it.
//
// The remote side is reached through the API interface only. Listing is a
// lazy iter.Seq2 that pages until the account is exhausted, so there is no
// fixed cap on how many rates a run can see.
//
// Nothing is retained between runs, and nothing guards against concurrent
// manual edits: between deactivation and creation an account briefly has no
// active managed rate.
package taxrates

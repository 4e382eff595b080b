package testutil

import (
	"context"
	"fmt"
	"iter"
	"maps"
	"sync"

	"github.com/roach88/vatsync/internal/taxrates"
)

// FakeAPI is an in-memory taxrates.API for tests.
//
// Listing pages through active rates in insertion order, PageSize at a time,
// resuming after the last ID of the previous page the way Stripe's
// starting_after cursor does.
//
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type FakeAPI struct {
	mu     sync.Mutex
	rates  map[string][]taxrates.Rate
	nextID int

	// PageSize defaults to 100.
	PageSize int

	// PagesFetched counts page requests across all listings.
	PagesFetched int

	// ListErr, when set, fails every page request.
	ListErr error

	// FailCreateAt fails the Nth create call (1-based). Zero never fails.
	FailCreateAt int

	// FailDeactivate fails deactivation of the given IDs.
	FailDeactivate map[string]error

	creates int
	calls   []Call
}

// Call records a mutating call.
type Call struct {
	Op      string // "create" or "deactivate"
	Account string
	ID      string
}

var _ taxrates.API = (*FakeAPI)(nil)

// NewFakeAPI creates an empty fake.
func NewFakeAPI() *FakeAPI {
	return &FakeAPI{rates: make(map[string][]taxrates.Rate)}
}

// Seed stores rates for an account. Rates without an ID get one assigned.
func (f *FakeAPI) Seed(account string, rates ...taxrates.Rate) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range rates {
		if r.ID == "" {
			r.ID = f.newID()
		}
		r.Metadata = maps.Clone(r.Metadata)
		f.rates[account] = append(f.rates[account], r)
	}
}

// Rates returns a copy of every stored rate for the account, active or not.
func (f *FakeAPI) Rates(account string) []taxrates.Rate {
	f.mu.Lock()
	defer f.mu.Unlock()
	return cloneRates(f.rates[account])
}

// Active returns a copy of the account's active rates.
func (f *FakeAPI) Active(account string) []taxrates.Rate {
	f.mu.Lock()
	defer f.mu.Unlock()
	return cloneRates(f.active(account))
}

// Calls returns the mutating calls in order.
func (f *FakeAPI) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// List implements taxrates.API.
func (f *FakeAPI) List(ctx context.Context, account string) iter.Seq2[taxrates.Rate, error] {
	return func(yield func(taxrates.Rate, error) bool) {
		after := ""
		for {
			if err := ctx.Err(); err != nil {
				yield(taxrates.Rate{}, err)
				return
			}
			page, more, err := f.page(account, after)
			if err != nil {
				yield(taxrates.Rate{}, err)
				return
			}
			for _, r := range page {
				if !yield(r, nil) {
					return
				}
			}
			if !more || len(page) == 0 {
				return
			}
			after = page[len(page)-1].ID
		}
	}
}

// Create implements taxrates.API.
func (f *FakeAPI) Create(ctx context.Context, account string, d taxrates.Descriptor) (taxrates.Rate, error) {
	if err := ctx.Err(); err != nil {
		return taxrates.Rate{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	f.creates++
	if f.FailCreateAt > 0 && f.creates == f.FailCreateAt {
		return taxrates.Rate{}, fmt.Errorf("fake: create %d failed", f.creates)
	}

	d.Metadata = maps.Clone(d.Metadata)
	rate := taxrates.Rate{ID: f.newID(), Active: true, Descriptor: d}
	f.rates[account] = append(f.rates[account], rate)
	f.calls = append(f.calls, Call{Op: "create", Account: account, ID: rate.ID})
	return cloneRate(rate), nil
}

// Deactivate implements taxrates.API.
func (f *FakeAPI) Deactivate(ctx context.Context, account, id string) (taxrates.Rate, error) {
	if err := ctx.Err(); err != nil {
		return taxrates.Rate{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.FailDeactivate[id]; err != nil {
		return taxrates.Rate{}, err
	}
	for i := range f.rates[account] {
		if f.rates[account][i].ID == id {
			f.rates[account][i].Active = false
			f.calls = append(f.calls, Call{Op: "deactivate", Account: account, ID: id})
			return cloneRate(f.rates[account][i]), nil
		}
	}
	return taxrates.Rate{}, fmt.Errorf("fake: no such tax rate: %s", id)
}

func (f *FakeAPI) page(account, after string) ([]taxrates.Rate, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.PagesFetched++
	if f.ListErr != nil {
		return nil, false, f.ListErr
	}

	active := f.active(account)
	start := 0
	if after != "" {
		for i, r := range active {
			if r.ID == after {
				start = i + 1
				break
			}
		}
	}
	size := f.PageSize
	if size <= 0 {
		size = 100
	}
	end := min(start+size, len(active))
	return cloneRates(active[start:end]), end < len(active), nil
}

func (f *FakeAPI) active(account string) []taxrates.Rate {
	var out []taxrates.Rate
	for _, r := range f.rates[account] {
		if r.Active {
			out = append(out, r)
		}
	}
	return out
}

func (f *FakeAPI) newID() string {
	f.nextID++
	return fmt.Sprintf("txr_%04d", f.nextID)
}

func cloneRate(r taxrates.Rate) taxrates.Rate {
	r.Metadata = maps.Clone(r.Metadata)
	return r
}

func cloneRates(rates []taxrates.Rate) []taxrates.Rate {
	out := make([]taxrates.Rate, len(rates))
	for i, r := range rates {
		out[i] = cloneRate(r)
	}
	return out
}

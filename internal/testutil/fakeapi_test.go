package testutil

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/vatsync/internal/taxrates"
)

func collect(t *testing.T, api *FakeAPI, account string) []taxrates.Rate {
	t.Helper()
	var out []taxrates.Rate
	for r, err := range api.List(context.Background(), account) {
		require.NoError(t, err)
		out = append(out, r)
	}
	return out
}

func TestFakeAPI_ListPaginates(t *testing.T) {
	api := NewFakeAPI()
	api.PageSize = 2
	for i := 0; i < 5; i++ {
		api.Seed("acct_1", taxrates.Rate{Active: true})
	}

	rates := collect(t, api, "acct_1")
	assert.Len(t, rates, 5)
	assert.Equal(t, 3, api.PagesFetched)
	assert.Equal(t, "txr_0001", rates[0].ID)
	assert.Equal(t, "txr_0005", rates[4].ID)
}

func TestFakeAPI_ListIsRestartable(t *testing.T) {
	api := NewFakeAPI()
	api.Seed("acct_1", taxrates.Rate{Active: true}, taxrates.Rate{Active: true})

	seq := api.List(context.Background(), "acct_1")
	first, second := 0, 0
	for range seq {
		first++
	}
	for range seq {
		second++
	}
	assert.Equal(t, 2, first)
	assert.Equal(t, 2, second)
}

func TestFakeAPI_ListSkipsInactive(t *testing.T) {
	api := NewFakeAPI()
	api.Seed("acct_1", taxrates.Rate{Active: true}, taxrates.Rate{Active: false})

	assert.Len(t, collect(t, api, "acct_1"), 1)
	assert.Len(t, api.Rates("acct_1"), 2)
}

func TestFakeAPI_ListError(t *testing.T) {
	api := NewFakeAPI()
	api.ListErr = errors.New("boom")

	var got error
	for _, err := range api.List(context.Background(), "acct_1") {
		got = err
	}
	assert.EqualError(t, got, "boom")
}

func TestFakeAPI_CreateAndDeactivate(t *testing.T) {
	api := NewFakeAPI()
	ctx := context.Background()

	rate, err := api.Create(ctx, "acct_1", taxrates.Descriptor{Country: "DE", Percentage: 19})
	require.NoError(t, err)
	assert.True(t, rate.Active)
	assert.Equal(t, "DE", rate.Country)

	updated, err := api.Deactivate(ctx, "acct_1", rate.ID)
	require.NoError(t, err)
	assert.False(t, updated.Active)
	assert.Empty(t, api.Active("acct_1"))

	assert.Equal(t, []Call{
		{Op: "create", Account: "acct_1", ID: rate.ID},
		{Op: "deactivate", Account: "acct_1", ID: rate.ID},
	}, api.Calls())
}

func TestFakeAPI_DeactivateUnknown(t *testing.T) {
	api := NewFakeAPI()

	_, err := api.Deactivate(context.Background(), "acct_1", "txr_missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "txr_missing")
}

func TestFakeAPI_FailCreateAt(t *testing.T) {
	api := NewFakeAPI()
	api.FailCreateAt = 2
	ctx := context.Background()

	_, err := api.Create(ctx, "acct_1", taxrates.Descriptor{})
	require.NoError(t, err)
	_, err = api.Create(ctx, "acct_1", taxrates.Descriptor{})
	require.Error(t, err)
	assert.Len(t, api.Rates("acct_1"), 1)
}

func TestFakeAPI_CancelledContext(t *testing.T) {
	api := NewFakeAPI()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := api.Create(ctx, "acct_1", taxrates.Descriptor{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFakeAPI_CopiesMetadata(t *testing.T) {
	api := NewFakeAPI()
	meta := map[string]string{taxrates.ManagedKey: taxrates.ManagedValue}
	api.Seed("acct_1", taxrates.Rate{Active: true, Descriptor: taxrates.Descriptor{Metadata: meta}})

	meta[taxrates.ManagedKey] = "False"
	assert.Equal(t, taxrates.ManagedValue, api.Rates("acct_1")[0].Metadata[taxrates.ManagedKey])
}

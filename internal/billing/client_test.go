package billing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v81"

	"github.com/roach88/vatsync/internal/taxrates"
)

const (
	testKey     = "sk_test_123"
	testVersion = "2020-08-27"
	testAccount = "acct_123"
)

type fixedKeys struct{ key string }

func (k fixedKeys) Generate() string { return k.key }

// recorder captures the requests a test server received.
type recorder struct {
	mu       sync.Mutex
	requests []*http.Request
	forms    []map[string][]string
}

func (r *recorder) record(req *http.Request) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_ = req.ParseForm()
	r.requests = append(r.requests, req)
	r.forms = append(r.forms, req.Form)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *recorder) {
	t.Helper()
	rec := &recorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		rec.record(req)
		w.Header().Set("Content-Type", "application/json")
		handler(w, req)
	}))
	t.Cleanup(srv.Close)

	client := New(Config{
		SecretKey:  testKey,
		APIVersion: testVersion,
		BaseURL:    srv.URL,
		Keys:       fixedKeys{key: "idem-1"},
		Logger:     slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)),
	})
	return client, rec
}

func rateJSON(id, country string, managed bool) string {
	metadata := "{}"
	if managed {
		metadata = `{"update-me":"True"}`
	}
	return fmt.Sprintf(`{"id":%q,"object":"tax_rate","active":true,"country":%q,"jurisdiction":%q,`+
		`"display_name":"%s VAT","description":"%s VAT Exclusive","inclusive":false,"percentage":19,"metadata":%s}`,
		id, country, country, country, country, metadata)
}

func TestList_PaginatesAndScopesAccount(t *testing.T) {
	client, rec := newTestClient(t, func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Query().Get("starting_after") == "" {
			fmt.Fprintf(w, `{"object":"list","url":"/v1/tax_rates","has_more":true,"data":[%s,%s]}`,
				rateJSON("txr_1", "DE", true), rateJSON("txr_2", "FR", false))
			return
		}
		fmt.Fprintf(w, `{"object":"list","url":"/v1/tax_rates","has_more":false,"data":[%s]}`,
			rateJSON("txr_3", "IT", true))
	})

	var rates []taxrates.Rate
	for r, err := range client.List(context.Background(), testAccount) {
		require.NoError(t, err)
		rates = append(rates, r)
	}

	require.Len(t, rates, 3)
	assert.Equal(t, "txr_1", rates[0].ID)
	assert.True(t, taxrates.IsManaged(rates[0]))
	assert.False(t, taxrates.IsManaged(rates[1]))
	assert.Equal(t, "IT", rates[2].Country)
	assert.Equal(t, 19.0, rates[2].Percentage)

	require.Len(t, rec.requests, 2)
	first := rec.requests[0]
	assert.Equal(t, http.MethodGet, first.Method)
	assert.Equal(t, "/v1/tax_rates", first.URL.Path)
	assert.Equal(t, "true", first.URL.Query().Get("active"))
	assert.Equal(t, "100", first.URL.Query().Get("limit"))
	assert.Equal(t, "Bearer "+testKey, first.Header.Get("Authorization"))
	assert.Equal(t, testAccount, first.Header.Get("Stripe-Account"))
	assert.Equal(t, testVersion, first.Header.Get("Stripe-Version"))

	assert.Equal(t, "txr_2", rec.requests[1].URL.Query().Get("starting_after"))
}

func TestList_StopsWhenConsumerStops(t *testing.T) {
	client, rec := newTestClient(t, func(w http.ResponseWriter, req *http.Request) {
		fmt.Fprintf(w, `{"object":"list","url":"/v1/tax_rates","has_more":true,"data":[%s,%s]}`,
			rateJSON("txr_1", "DE", true), rateJSON("txr_2", "FR", true))
	})

	for range client.List(context.Background(), testAccount) {
		break
	}
	assert.Len(t, rec.requests, 1)
}

func TestList_Error(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"type":"invalid_request_error","message":"Invalid API Key provided"}}`)
	})

	var got error
	for _, err := range client.List(context.Background(), testAccount) {
		got = err
	}
	require.Error(t, got)

	var stripeErr *stripe.Error
	require.True(t, errors.As(got, &stripeErr))
	assert.Equal(t, http.StatusUnauthorized, stripeErr.HTTPStatusCode)
	assert.Contains(t, got.Error(), "list tax rates")
}

func TestCreate_SendsDescriptor(t *testing.T) {
	client, rec := newTestClient(t, func(w http.ResponseWriter, req *http.Request) {
		fmt.Fprint(w, rateJSON("txr_new", "DE", true))
	})

	d := taxrates.Descriptor{
		DisplayName:  "DE VAT",
		Inclusive:    true,
		Percentage:   19,
		Country:      "DE",
		Jurisdiction: "DE",
		Description:  "DE VAT Inclusive",
		Metadata:     map[string]string{taxrates.ManagedKey: taxrates.ManagedValue},
	}
	rate, err := client.Create(context.Background(), testAccount, d)
	require.NoError(t, err)
	assert.Equal(t, "txr_new", rate.ID)
	assert.True(t, rate.Active)

	require.Len(t, rec.requests, 1)
	req, form := rec.requests[0], rec.forms[0]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/v1/tax_rates", req.URL.Path)
	assert.Equal(t, testAccount, req.Header.Get("Stripe-Account"))
	assert.Equal(t, testVersion, req.Header.Get("Stripe-Version"))
	assert.Equal(t, "idem-1", req.Header.Get("Idempotency-Key"))

	get := func(key string) string {
		if v := form[key]; len(v) > 0 {
			return v[0]
		}
		return ""
	}
	assert.Equal(t, "DE VAT", get("display_name"))
	assert.Equal(t, "true", get("inclusive"))
	assert.Equal(t, "DE", get("country"))
	assert.Equal(t, "DE", get("jurisdiction"))
	assert.Equal(t, "DE VAT Inclusive", get("description"))
	assert.Equal(t, "True", get("metadata[update-me]"))
	assert.Empty(t, get("state"))

	percentage, err := strconv.ParseFloat(get("percentage"), 64)
	require.NoError(t, err)
	assert.Equal(t, 19.0, percentage)
}

func TestCreate_Error(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":{"type":"invalid_request_error","message":"Invalid country"}}`)
	})

	_, err := client.Create(context.Background(), testAccount, taxrates.Descriptor{DisplayName: "XX VAT"})
	require.Error(t, err)

	var stripeErr *stripe.Error
	require.True(t, errors.As(err, &stripeErr))
	assert.Equal(t, "Invalid country", stripeErr.Msg)
}

func TestDeactivate(t *testing.T) {
	client, rec := newTestClient(t, func(w http.ResponseWriter, req *http.Request) {
		fmt.Fprint(w, `{"id":"txr_1","object":"tax_rate","active":false,"percentage":20,"metadata":{"update-me":"True"}}`)
	})

	rate, err := client.Deactivate(context.Background(), testAccount, "txr_1")
	require.NoError(t, err)
	assert.False(t, rate.Active)
	assert.Equal(t, "txr_1", rate.ID)

	require.Len(t, rec.requests, 1)
	assert.Equal(t, http.MethodPost, rec.requests[0].Method)
	assert.Equal(t, "/v1/tax_rates/txr_1", rec.requests[0].URL.Path)
	assert.Equal(t, []string{"false"}, rec.forms[0]["active"])
	assert.Equal(t, testAccount, rec.requests[0].Header.Get("Stripe-Account"))
}

func TestCreateParams_OmitsEmptyOptionalFields(t *testing.T) {
	params := createParams(taxrates.Descriptor{DisplayName: "VAT", Percentage: 10, State: "CA"})
	assert.Nil(t, params.Country)
	assert.Nil(t, params.Jurisdiction)
	assert.Nil(t, params.State)
	assert.Equal(t, 10.0, *params.Percentage)
	assert.False(t, *params.Inclusive)
}

func TestFromStripe_Nil(t *testing.T) {
	assert.Equal(t, taxrates.Rate{}, fromStripe(nil))
}

func TestVersionTransport(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		got = req.Header.Get("Stripe-Version")
	}))
	defer srv.Close()

	rt := newVersionTransport("2024-06-20", nil)
	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	req.Header.Set("Stripe-Version", "library-pinned")

	resp, err := rt.RoundTrip(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "2024-06-20", got)
	// The caller's request is left untouched.
	assert.Equal(t, "library-pinned", req.Header.Get("Stripe-Version"))
}

func TestVersionTransport_EmptyVersionPassesThrough(t *testing.T) {
	next := http.DefaultTransport
	assert.Equal(t, next, newVersionTransport("", next))
}

func TestLeveledLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewLeveledLogger(slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	logger.Debugf("request %s", "GET")
	logger.Infof("status %d", 200)
	logger.Warnf("retry %d", 1)
	logger.Errorf("failed: %v", errors.New("boom"))

	out := buf.String()
	assert.Contains(t, out, "request GET")
	assert.Contains(t, out, "status 200")
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "failed: boom")
	assert.Contains(t, out, "component=stripe")
}

func TestUUIDv7Keys(t *testing.T) {
	keys := UUIDv7Keys{}
	a, b := keys.Generate(), keys.Generate()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}

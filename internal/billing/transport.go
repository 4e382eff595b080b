package billing

import "net/http"

const headerStripeVersion = "Stripe-Version"

// versionTransport pins the Stripe-Version header to the configured API version.
type versionTransport struct {
	version string
	next    http.RoundTripper
}

func newVersionTransport(version string, next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	if version == "" {
		return next
	}
	return &versionTransport{version: version, next: next}
}

func (t *versionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set(headerStripeVersion, t.version)
	return t.next.RoundTrip(req)
}

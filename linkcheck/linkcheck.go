// Package linkcheck classifies URLs against a government-domain allowlist
// and probes their liveness.
//
// Both checks fail closed: an unparseable URL is "not government" and an
// unreachable or erroring host is "not valid". Results are computed fresh
// per call; liveness is time-varying and must not be cached.
package linkcheck

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/janmitra/yojana/safeurl"
)

// ProbeTimeout bounds the liveness HEAD request.
const ProbeTimeout = 5 * time.Second

// governmentDomains is the fixed allowlist of trusted domain suffixes.
var governmentDomains = []string{
	".gov.in",
	".nic.in",
	"india.gov.in",
	"myscheme.gov.in",
	"digitalindia.gov.in",
}

const (
	msgValid         = "Valid government website link"
	msgUnreachable   = "Government website is unreachable"
	msgNotGovernment = "Not a recognized government website"
)

// Result is the outcome of a verification.
type Result struct {
	IsGovernment bool   `json:"isGovernment"`
	IsValidLink  bool   `json:"isValidLink"`
	Message      string `json:"message"`
}

// Verifier probes links. Stateless and safe for concurrent use.
type Verifier struct {
	client *http.Client
}

// New creates a Verifier. A nil httpClient gets a ProbeTimeout default.
func New(httpClient *http.Client) *Verifier {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: ProbeTimeout}
	}
	return &Verifier{client: httpClient}
}

// IsGovernmentURL reports whether rawURL's hostname ends with an allowlisted
// government suffix. Parse failures are "not government".
func IsGovernmentURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := u.Hostname()
	if host == "" {
		return false
	}
	for _, domain := range governmentDomains {
		if strings.HasSuffix(host, domain) {
			return true
		}
	}
	return false
}

// Verify classifies rawURL and probes it with a header-only request.
// Liveness only informs the message for government links: a non-government
// link gets the same message whether or not it is reachable.
func (v *Verifier) Verify(ctx context.Context, rawURL string) Result {
	isGov := IsGovernmentURL(rawURL)
	isValid := v.probe(ctx, rawURL)

	var msg string
	switch {
	case isGov && isValid:
		msg = msgValid
	case isGov:
		msg = msgUnreachable
	default:
		msg = msgNotGovernment
	}

	return Result{IsGovernment: isGov, IsValidLink: isValid, Message: msg}
}

// probe issues a HEAD request; [200, 400) counts as reachable. The URL is
// user-supplied, so it must pass SSRF validation before any request: a URL
// targeting a private or loopback address is "not valid", not probed.
func (v *Verifier) probe(ctx context.Context, rawURL string) bool {
	if err := safeurl.Validate(rawURL); err != nil {
		return false
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return false
	}
	resp, err := v.client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 400
}

package scheme

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/janmitra/yojana/safeurl"
)

// Registry queries an external scheme catalog service by name.
type Registry struct {
	baseURL  string
	client   *http.Client
	sanitize *bluemonday.Policy
}

// NewRegistry creates a Registry client for the catalog at baseURL.
// A nil httpClient gets a 30s-timeout default.
func NewRegistry(baseURL string, httpClient *http.Client) *Registry {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Registry{
		baseURL:  baseURL,
		client:   httpClient,
		sanitize: bluemonday.StrictPolicy(),
	}
}

// Find looks up name in the catalog. The catalog answers with a JSON array;
// an empty array means absent, which is reported as (nil, nil). The first
// element is authoritative. Free-text fields are stripped of any markup
// before they can reach a prompt or a stored record.
func (r *Registry) Find(ctx context.Context, name string) (*Details, error) {
	lookupURL := fmt.Sprintf("%s/schemes?name=%s", r.baseURL, url.QueryEscape(name))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL, nil)
	if err != nil {
		return nil, fmt.Errorf("registry: new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("registry: http get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("registry: http %d", resp.StatusCode)
	}

	body, err := safeurl.LimitedReadAll(resp.Body, safeurl.MaxResponseBody)
	if err != nil {
		return nil, fmt.Errorf("registry: read body: %w", err)
	}

	var items []map[string]any
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("registry: decode response: %w", err)
	}
	if len(items) == 0 {
		return nil, nil
	}

	first := items[0]
	d := &Details{
		Name:            asString(first["name"]),
		Description:     r.sanitize.Sanitize(asString(first["description"])),
		Details:         r.sanitize.Sanitize(asString(first["details"])),
		ApplicationLink: asString(first["applicationLink"]),
	}
	if d.Name == "" {
		d.Name = name
	}
	return d, nil
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

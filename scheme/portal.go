package scheme

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"

	"github.com/janmitra/yojana/safeurl"
)

// Portal queries a government service listing. The response shape is
// provider-defined: JSON payloads pass through as a loosely-typed document,
// HTML payloads are converted to markdown so downstream prompt synthesis
// gets readable text either way.
type Portal struct {
	baseURL     string
	client      *http.Client
	mdConverter *converter.Converter
}

// NewPortal creates a Portal client for the listing service at baseURL.
// A nil httpClient gets a 30s-timeout default.
func NewPortal(baseURL string, httpClient *http.Client) *Portal {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Portal{
		baseURL: baseURL,
		client:  httpClient,
		mdConverter: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
			),
		),
	}
}

// Find queries the listing for name. Returns (nil, nil) when the portal has
// nothing. JSON objects are returned as-is; JSON arrays are wrapped under
// "results"; anything else is treated as HTML and reduced to a markdown
// "description" field.
func (p *Portal) Find(ctx context.Context, name string) (map[string]any, error) {
	listingURL := fmt.Sprintf("%s/service/listing?cat=41&ln=en&term=%s",
		p.baseURL, url.QueryEscape(name))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, listingURL, nil)
	if err != nil {
		return nil, fmt.Errorf("portal: new request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("portal: http get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("portal: http %d", resp.StatusCode)
	}

	body, err := safeurl.LimitedReadAll(resp.Body, safeurl.MaxResponseBody)
	if err != nil {
		return nil, fmt.Errorf("portal: read body: %w", err)
	}

	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return nil, nil
	}

	var raw any
	if err := json.Unmarshal([]byte(trimmed), &raw); err == nil {
		switch v := raw.(type) {
		case map[string]any:
			if len(v) == 0 {
				return nil, nil
			}
			return v, nil
		case []any:
			if len(v) == 0 {
				return nil, nil
			}
			return map[string]any{"results": v}, nil
		default:
			return nil, nil
		}
	}

	md, err := p.mdConverter.ConvertString(trimmed)
	if err != nil || strings.TrimSpace(md) == "" {
		return nil, nil
	}
	return map[string]any{"description": strings.TrimSpace(md)}, nil
}

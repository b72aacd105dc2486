package flights

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// DefaultProviderBaseURL is the SerpApi search endpoint.
const DefaultProviderBaseURL = "https://serpapi.com/search.json"

// Searcher runs one flight search against the provider.
type Searcher interface {
	Search(ctx context.Context, q ProviderQuery) (RawResponse, error)
}

// Gateway is the SerpApi Google Flights client.
type Gateway struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewGateway returns a Gateway. A nil client means http.DefaultClient.
func NewGateway(baseURL, apiKey string, client *http.Client) *Gateway {
	if client == nil {
		client = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultProviderBaseURL
	}
	return &Gateway{baseURL: baseURL, apiKey: apiKey, client: client}
}

type providerError struct {
	Error string `json:"error"`
}

// Search issues a single GET and returns the body as-is. No retries.
func (g *Gateway) Search(ctx context.Context, q ProviderQuery) (RawResponse, error) {
	endpoint := g.baseURL
	if strings.Contains(endpoint, "?") {
		endpoint += "&"
	} else {
		endpoint += "?"
	}
	endpoint += q.Values(g.apiKey).Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", ErrTransport, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: do request: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", ErrTransport, err)
	}

	if resp.StatusCode/100 != 2 {
		var pe providerError
		if json.Unmarshal(body, &pe) == nil && pe.Error != "" {
			return nil, fmt.Errorf("%w: status %d: %s", ErrTransport, resp.StatusCode, pe.Error)
		}
		return nil, fmt.Errorf("%w: status %d", ErrTransport, resp.StatusCode)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: response is not JSON", ErrTransport)
	}
	return RawResponse(body), nil
}

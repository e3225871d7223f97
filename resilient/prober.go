package resilient

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/poiesic/modelscout/core"
)

// HTTPProber wakes a backend by fetching its info endpoint.
type HTTPProber struct {
	url    string
	client *http.Client
}

// NewHTTPProber probes GET <baseURL>/info. A nil client means http.DefaultClient.
func NewHTTPProber(baseURL string, client *http.Client) *HTTPProber {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPProber{
		url:    strings.TrimSuffix(baseURL, "/") + "/info",
		client: client,
	}
}

// Probe issues the request and drains the response.
func (p *HTTPProber) Probe(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return &core.TransportError{Op: "warm-up probe", Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &core.TransportError{Op: "warm-up probe", StatusCode: resp.StatusCode, Status: resp.Status}
	}
	return nil
}

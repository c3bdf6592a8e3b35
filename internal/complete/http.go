package complete

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/hashicorp/go-cleanhttp"
)

// maxResponseBytes caps how much of a response body is decoded.
const maxResponseBytes = 1 << 20

// HTTPSource queries a remote endpoint with GET <base>?search=<query> and
// expects a JSON array of candidates.
type HTTPSource struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPSource creates a source backed by a pooled client.
func NewHTTPSource(baseURL string) *HTTPSource {
	return &HTTPSource{
		BaseURL: baseURL,
		Client:  cleanhttp.DefaultPooledClient(),
	}
}

// Lookup performs the request.
func (s *HTTPSource) Lookup(ctx context.Context, query string) ([]Candidate, error) {
	if Blank(query) {
		return nil, nil
	}
	u, err := url.Parse(s.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid autocomplete url %q: %w", s.BaseURL, err)
	}
	q := u.Query()
	q.Set("search", query)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	client := s.Client
	if client == nil {
		client = cleanhttp.DefaultClient()
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// тело ошибки не нужно, но дочитываем, чтобы соединение вернулось в пул
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return nil, fmt.Errorf("autocomplete endpoint returned %s", resp.Status)
	}

	var out []Candidate
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode autocomplete response: %w", err)
	}
	return out, nil
}

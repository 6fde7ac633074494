package product

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://world.openfoodfacts.org"
	userAgent      = "foodscan/1.0 (github.com/dkwarude-cell/foodscan)"

	requestTimeout = 10 * time.Second

	// Two requests per second, matching the upstream API etiquette.
	requestsPerSecond = 2
)

// Client fetches product data from the OpenFoodFacts API with client-side
// rate limiting.
type Client struct {
	http    *http.Client
	limiter *rate.Limiter
	baseURL string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL points the client at a different API host (used in tests).
func WithBaseURL(base string) ClientOption {
	return func(c *Client) { c.baseURL = base }
}

// WithHTTPClient swaps the underlying transport.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.http = h }
}

func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		http:    &http.Client{Timeout: requestTimeout},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		baseURL: defaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) get(ctx context.Context, rawURL string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("openfoodfacts status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Fetch retrieves the raw payload for one barcode. A payload the API marks
// as unknown (status 0) or an empty product body yields ErrNotFound.
func (c *Client) Fetch(ctx context.Context, barcode string) (RawProduct, error) {
	endpoint := fmt.Sprintf("%s/api/v0/product/%s.json", c.baseURL, url.PathEscape(barcode))

	var body struct {
		Status  int        `json:"status"`
		Product RawProduct `json:"product"`
	}
	if err := c.get(ctx, endpoint, &body); err != nil {
		return nil, err
	}
	if body.Status == 0 || len(body.Product) == 0 {
		return nil, ErrNotFound
	}
	return body.Product, nil
}

// Search queries the OpenFoodFacts search endpoint by product name.
func (c *Client) Search(ctx context.Context, query string, page, pageSize int) ([]RawProduct, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 50 {
		pageSize = 20
	}
	values := url.Values{
		"search_terms":  {query},
		"search_simple": {"1"},
		"action":        {"process"},
		"json":          {"1"},
		"page":          {strconv.Itoa(page)},
		"page_size":     {strconv.Itoa(pageSize)},
	}
	endpoint := c.baseURL + "/cgi/search.pl?" + values.Encode()

	var body struct {
		Products []RawProduct `json:"products"`
	}
	if err := c.get(ctx, endpoint, &body); err != nil {
		return nil, err
	}
	return body.Products, nil
}

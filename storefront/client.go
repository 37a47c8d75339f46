// Package storefront is the HTTP client for the shop's JSON resources: the
// cart and the per-product payloads.
package storefront

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aluiziolira/shop-signals/metrics"
	"github.com/aluiziolira/shop-signals/models"
	"github.com/aluiziolira/shop-signals/product"
)

// Client fetches storefront JSON resources.
type Client struct {
	baseURL string
	http    *http.Client
	metrics *metrics.Metrics
}

// NewClient builds a client for the storefront at baseURL. A nil httpClient
// gets a tuned default transport.
func NewClient(baseURL string, httpClient *http.Client, timeout time.Duration, m *metrics.Metrics) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("base url must include a host")
	}

	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   timeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:        100,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		}
	}

	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    httpClient,
		metrics: m,
	}, nil
}

// BaseURL returns the storefront origin the client was built for.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type rawCart struct {
	Items []models.CartLine `json:"items"`
}

// FetchCart retrieves the current cart. Unlike the product resource, a
// non-2xx status is an error here: the poller treats it as "no data this
// cycle" and keeps looping.
func (c *Client) FetchCart(ctx context.Context) (models.Cart, error) {
	body, status, err := c.get(ctx, c.baseURL+"/cart.js", "cart")
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("fetch cart: http status %d", status)
	}

	var cart rawCart
	if err := json.Unmarshal(body, &cart); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return models.Cart(cart.Items), nil
}

// FetchProduct retrieves the per-product JSON resource for a product page
// URL. A non-2xx response yields nil without error.
func (c *Client) FetchProduct(ctx context.Context, pageURL string) (*product.RawProduct, error) {
	body, status, err := c.get(ctx, pageURL+".js", "product")
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, nil
	}

	var raw product.RawProduct
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode product: %w", err)
	}
	return &raw, nil
}

func (c *Client) get(ctx context.Context, rawURL, resource string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.IncRequest(resource, "error")
		return nil, 0, fmt.Errorf("get %s: %w", rawURL, err)
	}
	defer resp.Body.Close()
	c.metrics.ObserveDuration(time.Since(start))

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.IncRequest(resource, "error")
		return nil, 0, fmt.Errorf("read %s: %w", rawURL, err)
	}

	status := "ok"
	if resp.StatusCode != http.StatusOK {
		status = "error"
	}
	c.metrics.IncRequest(resource, status)
	return body, resp.StatusCode, nil
}

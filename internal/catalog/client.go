package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/logger"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/singleflight"
)

var ErrNotFound = errors.New("not found in catalog")

// StatusError is returned for non-2xx responses other than 404
type StatusError struct {
	Path       string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("catalog %s returned status %d", e.Path, e.StatusCode)
}

// Client reads products and stock from the storefront REST API
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[[]byte]
	sfg        singleflight.Group // collapses concurrent reads of the same path
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.httpClient = c
	}
}

// WithBreakerSettings overrides the circuit breaker; Name and IsSuccessful are kept
func WithBreakerSettings(st gobreaker.Settings) Option {
	return func(client *Client) {
		st.Name = "catalog"
		st.IsSuccessful = isSuccessful
		client.breaker = gobreaker.NewCircuitBreaker[[]byte](st)
	}
}

func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		timeout: timeout,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		breaker: gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
			Name:        "catalog",
			MaxRequests: 1,
			Interval:    time.Minute,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.L().WithField("breaker", name).Warnf("circuit breaker %s -> %s", from, to)
			},
			IsSuccessful: isSuccessful,
		}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	var product domain.Product
	if err := c.getJSON(ctx, fmt.Sprintf("/products/%d", id), &product); err != nil {
		return nil, err
	}
	product.Amount = 0
	return &product, nil
}

func (c *Client) GetStock(ctx context.Context, id int64) (*domain.Stock, error) {
	var stock domain.Stock
	if err := c.getJSON(ctx, fmt.Sprintf("/stock/%d", id), &stock); err != nil {
		return nil, err
	}
	return &stock, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	// The shared fetch outlives any single caller, so one shopper giving up
	// neither fails the others nor counts against the breaker.
	ch := c.sfg.DoChan(path, func() (interface{}, error) {
		fetchCtx := context.WithoutCancel(ctx)
		if c.timeout > 0 {
			var cancel context.CancelFunc
			fetchCtx, cancel = context.WithTimeout(fetchCtx, c.timeout)
			defer cancel()
		}
		return c.breaker.Execute(func() ([]byte, error) {
			return c.fetch(fetchCtx, path)
		})
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return fmt.Errorf("catalog %s: %w", path, ctx.Err())
	case res = <-ch:
	}
	if res.Err != nil {
		return res.Err
	}

	body := bytes.TrimSpace(res.Val.([]byte))
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s failed: %w", path, err)
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Path: path, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return body, nil
}

// a missing product is an answer, not an outage
func isSuccessful(err error) bool {
	return err == nil || errors.Is(err, ErrNotFound)
}

package dummyjson

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
)

// Error kinds returned by Client. Test with errors.Is.
var (
	ErrTransport = errors.New("transport error")
	ErrNotFound  = errors.New("not found")
	ErrCancelled = errors.New("request cancelled")
)

// Catalog defines the remote calls the loader depends on. It is
// implemented by *Client and can be faked in tests.
type Catalog interface {
	ListProducts(ctx context.Context, limit, skip int) (ProductPage, error)
	GetProduct(ctx context.Context, id string) (Product, error)
}

// Ensure Client implements Catalog at compile time.
var _ Catalog = (*Client)(nil)

// Client talks to the DummyJSON products API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	DefaultBaseURL   = "https://dummyjson.com"
	defaultUserAgent = "shelf/dev"
	defaultTimeout   = 10 * time.Second
)

// Option customizes a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout. Zero keeps the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua = strings.TrimSpace(ua); ua != "" {
			c.userAgent = ua
		}
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// NewClient builds a Client for baseURL; empty selects DefaultBaseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: defaultTimeout},
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListProducts fetches one page of the catalog.
func (c *Client) ListProducts(ctx context.Context, limit, skip int) (ProductPage, error) {
	if c == nil {
		return ProductPage{}, errors.New("client is nil")
	}
	values := url.Values{}
	values.Set("limit", strconv.Itoa(max(limit, 0)))
	values.Set("skip", strconv.Itoa(max(skip, 0)))
	rel := &url.URL{Path: "products", RawQuery: values.Encode()}

	var payload ProductPage
	if err := c.doURL(ctx, http.MethodGet, rel, &payload); err != nil {
		return ProductPage{}, errors.Wrap(err, "list products")
	}
	return payload, nil
}

// GetProduct fetches a single product. Unknown ids fail with ErrNotFound.
func (c *Client) GetProduct(ctx context.Context, id string) (Product, error) {
	if c == nil {
		return Product{}, errors.New("client is nil")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return Product{}, errors.Wrap(ErrNotFound, "product id required")
	}
	rel := &url.URL{Path: "products/" + url.PathEscape(id)}

	var payload Product
	if err := c.doURL(ctx, http.MethodGet, rel, &payload); err != nil {
		return Product{}, errors.Wrapf(err, "product %s", id)
	}
	return payload, nil
}

// StatusError reports a non-2xx response. It matches ErrTransport, and
// ErrNotFound as well when the status is 404.
type StatusError struct {
	Path string
	Code int
}

func (e *StatusError) Error() string {
	return "api " + e.Path + " returned status " + strconv.Itoa(e.Code)
}

// Is implements errors.Is matching against the package error kinds.
func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrTransport:
		return true
	case ErrNotFound:
		return e.Code == http.StatusNotFound
	}
	return false
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, dest any) error {
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), nil)
	if err != nil {
		return errors.Wrap(err, "create request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return errors.Wrap(ErrCancelled, ctx.Err().Error())
		}
		return errors.Wrapf(ErrTransport, "execute request: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Path: reqURL.Path, Code: resp.StatusCode}
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		if ctx.Err() != nil {
			return errors.Wrap(ErrCancelled, ctx.Err().Error())
		}
		return errors.Wrapf(ErrTransport, "decode response: %v", err)
	}
	return nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, errors.Wrapf(err, "parse api_url %q", raw)
	}
	if u.Host == "" {
		return nil, errors.Errorf("parse api_url %q: missing host", raw)
	}
	// Keep any path prefix so relative endpoints resolve beneath it.
	u.Path = strings.TrimSuffix(u.Path, "/") + "/"
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

package woocommerce

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/angelmondragon/wcreports/pkg/config"
	pkgerrors "github.com/angelmondragon/wcreports/pkg/errors"
	"github.com/angelmondragon/wcreports/pkg/pagination"
)

const (
	apiRoot                     = "wp-json"
	defaultVersion              = "wc/v3"
	defaultUserAgent            = "wcreports/1.0"
	responseBodyReadLimit int64 = 1024
	totalHeader                 = "X-WP-Total"
	totalPagesHeader            = "X-WP-TotalPages"
)

var (
	errURLRequired    = errors.New("woocommerce store url is required")
	errKeyRequired    = errors.New("woocommerce consumer key is required")
	errSecretRequired = errors.New("woocommerce consumer secret is required")
)

// Client talks to the WooCommerce REST API of a single store.
type Client struct {
	httpClient      *http.Client
	storeURL        string
	version         string
	consumerKey     string
	consumerSecret  string
	queryStringAuth bool
	userAgent       string
	signer          *oauthSigner
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithStoreURL overrides the configured store URL.
func WithStoreURL(storeURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(storeURL)
		if trimmed != "" {
			c.storeURL = strings.TrimRight(trimmed, "/")
		}
	}
}

// WithOAuthClock fixes the timestamp and nonce used to sign plain-HTTP requests.
func WithOAuthClock(now func() time.Time, nonce func() string) Option {
	return func(c *Client) {
		if now != nil {
			c.signer.now = now
		}
		if nonce != nil {
			c.signer.nonce = nonce
		}
	}
}

// NewClient builds a store client from configuration.
func NewClient(cfg config.WooCommerceConfig, opts ...Option) (*Client, error) {
	storeURL := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if storeURL == "" {
		return nil, errURLRequired
	}
	key := strings.TrimSpace(cfg.ConsumerKey)
	if key == "" {
		return nil, errKeyRequired
	}
	secret := strings.TrimSpace(cfg.ConsumerSecret)
	if secret == "" {
		return nil, errSecretRequired
	}
	version := strings.Trim(strings.TrimSpace(cfg.Version), "/")
	if version == "" {
		version = defaultVersion
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	client := &Client{
		httpClient:      &http.Client{Timeout: cfg.Timeout},
		storeURL:        storeURL,
		version:         version,
		consumerKey:     key,
		consumerSecret:  secret,
		queryStringAuth: cfg.QueryStringAuth,
		userAgent:       userAgent,
		signer:          newOAuthSigner(key, secret, version),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return client, nil
}

// Page is one page of a listed resource.
type Page struct {
	Records    []json.RawMessage
	Total      int
	TotalPages int
}

// ListPage requests one page of a collection resource such as "orders".
// Records are returned undecoded and in API order.
func (c *Client) ListPage(ctx context.Context, resource string, query url.Values, page pagination.Params) (*Page, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "woocommerce client not configured")
	}
	resource = strings.Trim(strings.TrimSpace(resource), "/")
	if resource == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "resource is required")
	}

	params := cloneValues(query)
	for k, v := range page.Query() {
		params.Set(k, v)
	}

	resp, err := c.do(ctx, resource, params)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var records []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode "+resource+" page").
			WithDetails(map[string]any{"resource": resource, "page": page.Page})
	}

	return &Page{
		Records:    records,
		Total:      headerInt(resp.Header, totalHeader),
		TotalPages: headerInt(resp.Header, totalPagesHeader),
	}, nil
}

// Product fetches a single product by id.
func (c *Client) Product(ctx context.Context, id int64) (*Product, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "woocommerce client not configured")
	}
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	resource := fmt.Sprintf("%s/%d", ResourceProducts, id)
	resp, err := c.do(ctx, resource, url.Values{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var product Product
	if err := json.NewDecoder(resp.Body).Decode(&product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode product response")
	}
	return &product, nil
}

func (c *Client) do(ctx context.Context, resource string, params url.Values) (*http.Response, error) {
	endpoint := c.endpoint(resource)
	params = c.authorize(http.MethodGet, endpoint, params)

	target := endpoint
	if encoded := params.Encode(); encoded != "" {
		target = endpoint + "?" + encoded
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build "+resource+" request")
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	if c.useBasicAuth() {
		httpReq.SetBasicAuth(c.consumerKey, c.consumerSecret)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute "+resource+" request")
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		defer func() { _ = resp.Body.Close() }()
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		code := pkgerrors.CodeDependency
		if resp.StatusCode == http.StatusNotFound {
			code = pkgerrors.CodeNotFound
		}
		return nil, pkgerrors.Wrap(code, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), resource+" request failed").
			WithDetails(map[string]any{"resource": resource, "status": resp.StatusCode})
	}

	return resp, nil
}

// endpoint builds {store}/wp-json/{version}/{resource}.
func (c *Client) endpoint(resource string) string {
	return fmt.Sprintf("%s/%s/%s/%s", c.storeURL, apiRoot, c.version, strings.TrimLeft(resource, "/"))
}

func (c *Client) isSecure() bool {
	return strings.HasPrefix(strings.ToLower(c.storeURL), "https://")
}

func (c *Client) useBasicAuth() bool {
	return c.isSecure() && !c.queryStringAuth
}

// authorize adds credentials to the query: plain key/secret over TLS when
// requested, an OAuth 1.0a signature over plain HTTP.
func (c *Client) authorize(method, endpoint string, params url.Values) url.Values {
	switch {
	case c.useBasicAuth():
		return params
	case c.isSecure():
		params.Set("consumer_key", c.consumerKey)
		params.Set("consumer_secret", c.consumerSecret)
		return params
	default:
		return c.signer.sign(method, endpoint, params)
	}
}

func cloneValues(values url.Values) url.Values {
	out := make(url.Values, len(values))
	for k, v := range values {
		out[k] = append([]string(nil), v...)
	}
	return out
}

func headerInt(h http.Header, key string) int {
	n, err := strconv.Atoi(strings.TrimSpace(h.Get(key)))
	if err != nil {
		return 0
	}
	return n
}

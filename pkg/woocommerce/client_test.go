package woocommerce

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/wcreports/pkg/config"
	pkgerrors "github.com/angelmondragon/wcreports/pkg/errors"
	"github.com/angelmondragon/wcreports/pkg/pagination"
	"github.com/angelmondragon/wcreports/pkg/woocommerce/wctest"
)

func testConfig(storeURL string) config.WooCommerceConfig {
	return config.WooCommerceConfig{
		URL:            storeURL,
		ConsumerKey:    "ck",
		ConsumerSecret: "cs",
		Timeout:        5 * time.Second,
	}
}

func jsonResponse(status int, body string, header http.Header) *http.Response {
	if header == nil {
		header = http.Header{}
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     header,
	}
}

func TestNewClientRequiresCredentials(t *testing.T) {
	cases := map[string]config.WooCommerceConfig{
		"url":    {ConsumerKey: "ck", ConsumerSecret: "cs"},
		"key":    {URL: "https://shop.test", ConsumerSecret: "cs"},
		"secret": {URL: "https://shop.test", ConsumerKey: "ck"},
	}
	for name, cfg := range cases {
		if _, err := NewClient(cfg); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestClientListPageBasicAuth(t *testing.T) {
	var captured *http.Request
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		captured = req.Clone(context.Background())
		header := http.Header{}
		header.Set("X-WP-Total", "3")
		header.Set("X-WP-TotalPages", "2")
		return jsonResponse(http.StatusOK, `[{"id":1},{"id":2}]`, header), nil
	})

	client, err := NewClient(testConfig("https://shop.test/"), WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	query := url.Values{"after": {"2023-01-01T00:00:00"}}
	page, err := client.ListPage(context.Background(), ResourceOrders, query, pagination.First(2))
	if err != nil {
		t.Fatalf("list page: %v", err)
	}

	if captured.URL.Path != "/wp-json/wc/v3/orders" {
		t.Fatalf("unexpected path %q", captured.URL.Path)
	}
	q := captured.URL.Query()
	if q.Get("after") != "2023-01-01T00:00:00" || q.Get("page") != "1" || q.Get("per_page") != "2" {
		t.Fatalf("unexpected query %v", q)
	}
	if q.Has("consumer_key") || q.Has("oauth_signature") {
		t.Fatalf("credentials leaked into query %v", q)
	}
	user, pass, ok := captured.BasicAuth()
	if !ok || user != "ck" || pass != "cs" {
		t.Fatalf("expected basic auth, got %q/%q", user, pass)
	}
	if captured.Header.Get("User-Agent") != defaultUserAgent {
		t.Fatalf("unexpected user agent %q", captured.Header.Get("User-Agent"))
	}
	if len(page.Records) != 2 || page.Total != 3 || page.TotalPages != 2 {
		t.Fatalf("unexpected page %+v", page)
	}
	if query.Has("page") {
		t.Fatalf("caller query was mutated: %v", query)
	}
}

func TestClientQueryStringAuth(t *testing.T) {
	var captured *http.Request
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		captured = req.Clone(context.Background())
		return jsonResponse(http.StatusOK, `[]`, nil), nil
	})

	cfg := testConfig("https://shop.test")
	cfg.QueryStringAuth = true
	client, err := NewClient(cfg, WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := client.ListPage(context.Background(), ResourceOrders, nil, pagination.First(10)); err != nil {
		t.Fatalf("list page: %v", err)
	}

	q := captured.URL.Query()
	if q.Get("consumer_key") != "ck" || q.Get("consumer_secret") != "cs" {
		t.Fatalf("expected query string credentials, got %v", q)
	}
	if _, _, ok := captured.BasicAuth(); ok {
		t.Fatalf("basic auth should not be sent")
	}
}

func TestClientSignsPlainHTTPRequests(t *testing.T) {
	var captured *http.Request
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		captured = req.Clone(context.Background())
		return jsonResponse(http.StatusOK, `[]`, nil), nil
	})

	client, err := NewClient(
		testConfig("http://shop.test"),
		WithHTTPClient(&http.Client{Transport: rt}),
		WithOAuthClock(func() time.Time { return time.Unix(1700000000, 0) }, func() string { return "abc" }),
	)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := client.ListPage(context.Background(), ResourceOrders, nil, pagination.First(100)); err != nil {
		t.Fatalf("list page: %v", err)
	}

	base := "GET&http%3A%2F%2Fshop.test%2Fwp-json%2Fwc%2Fv3%2Forders&" +
		"oauth_consumer_key%3Dck%26oauth_nonce%3Dabc%26oauth_signature_method%3DHMAC-SHA256" +
		"%26oauth_timestamp%3D1700000000%26page%3D1%26per_page%3D100"
	mac := hmac.New(sha256.New, []byte("cs&"))
	mac.Write([]byte(base))
	want := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	q := captured.URL.Query()
	if q.Get("oauth_signature") != want {
		t.Fatalf("unexpected signature %q, want %q", q.Get("oauth_signature"), want)
	}
	if q.Get("oauth_consumer_key") != "ck" || q.Get("oauth_signature_method") != "HMAC-SHA256" {
		t.Fatalf("unexpected oauth params %v", q)
	}
	if q.Has("consumer_secret") {
		t.Fatalf("secret must not be sent over plain http")
	}
	if _, _, ok := captured.BasicAuth(); ok {
		t.Fatalf("basic auth should not be sent over plain http")
	}
}

func TestOAuthLegacyVersionsSignWithBareSecret(t *testing.T) {
	legacy := newOAuthSigner("ck", "cs", "v2")
	current := newOAuthSigner("ck", "cs", "wc/v3")
	params := url.Values{"page": {"1"}}
	if legacy.signature("GET", "http://shop.test/x", params) == current.signature("GET", "http://shop.test/x", params) {
		t.Fatalf("expected signing keys to differ between legacy and current versions")
	}
}

func TestPercentEncode(t *testing.T) {
	cases := map[string]string{
		"a b":     "a%20b",
		"a~b":     "a~b",
		"a+b":     "a%2Bb",
		"x=1&y=2": "x%3D1%26y%3D2",
	}
	for in, want := range cases {
		if got := percentEncode(in); got != want {
			t.Fatalf("percentEncode(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestClientCustomVersion(t *testing.T) {
	var path string
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		path = req.URL.Path
		return jsonResponse(http.StatusOK, `[]`, nil), nil
	})
	cfg := testConfig("https://shop.test/store")
	cfg.Version = "/wc/v2/"
	client, err := NewClient(cfg, WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := client.ListPage(context.Background(), "orders", nil, pagination.First(1)); err != nil {
		t.Fatalf("list page: %v", err)
	}
	if path != "/store/wp-json/wc/v2/orders" {
		t.Fatalf("unexpected path %q", path)
	}
}

func TestClientErrorStatuses(t *testing.T) {
	cases := []struct {
		status int
		code   pkgerrors.Code
	}{
		{status: http.StatusNotFound, code: pkgerrors.CodeNotFound},
		{status: http.StatusUnauthorized, code: pkgerrors.CodeDependency},
		{status: http.StatusInternalServerError, code: pkgerrors.CodeDependency},
	}
	for _, tc := range cases {
		rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
			return jsonResponse(tc.status, `{"code":"nope"}`, nil), nil
		})
		client, err := NewClient(testConfig("https://shop.test"), WithHTTPClient(&http.Client{Transport: rt}))
		if err != nil {
			t.Fatalf("new client: %v", err)
		}
		_, err = client.ListPage(context.Background(), ResourceOrders, nil, pagination.First(10))
		if err == nil {
			t.Fatalf("status %d: expected error", tc.status)
		}
		if got := pkgerrors.CodeOf(err); got != tc.code {
			t.Fatalf("status %d: expected code %s, got %s", tc.status, tc.code, got)
		}
	}
}

func TestClientRejectsMalformedPage(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"not":"a list"}`, nil), nil
	})
	client, err := NewClient(testConfig("https://shop.test"), WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	_, err = client.ListPage(context.Background(), ResourceOrders, nil, pagination.First(10))
	if pkgerrors.CodeOf(err) != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestClientAgainstFakeStore(t *testing.T) {
	store := wctest.New(t, wctest.WithCredentials("ck", "cs"))
	store.AddOrders(t,
		wctest.Order(1, "2023-01-05T10:00:00", "10.00"),
		wctest.Order(2, "2023-02-05T10:00:00", "20.00"),
		wctest.Order(3, "2024-01-05T10:00:00", "30.00"),
	)
	store.AddProduct(t, 7, wctest.Product(7, "Tee", "Shirts", "Sale"))

	client, err := NewClient(testConfig(store.URL))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	query := url.Values{"after": {"2023-01-01T00:00:00"}, "before": {"2024-01-01T00:00:00"}}
	page, err := client.ListPage(context.Background(), ResourceOrders, query, pagination.First(10))
	if err != nil {
		t.Fatalf("list page: %v", err)
	}
	if len(page.Records) != 2 || page.Total != 2 || page.TotalPages != 1 {
		t.Fatalf("unexpected page %+v", page)
	}

	product, err := client.Product(context.Background(), 7)
	if err != nil {
		t.Fatalf("product: %v", err)
	}
	if got := product.CategoryNames(); len(got) != 2 || got[0] != "Shirts" {
		t.Fatalf("unexpected categories %v", got)
	}

	_, err = client.Product(context.Background(), 99)
	if pkgerrors.CodeOf(err) != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}

	reqs := store.Requests()
	if len(reqs) != 3 {
		t.Fatalf("expected 3 requests, got %d", len(reqs))
	}
	if reqs[0].Query.Get("oauth_signature") == "" {
		t.Fatalf("expected signed request over plain http, got %v", reqs[0].Query)
	}
}

func TestClientProductValidation(t *testing.T) {
	client, err := NewClient(testConfig("https://shop.test"))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := client.Product(context.Background(), 0); pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := client.ListPage(context.Background(), " ", nil, pagination.First(1)); pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

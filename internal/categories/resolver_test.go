package categories

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/angelmondragon/wcreports/pkg/config"
	pkgerrors "github.com/angelmondragon/wcreports/pkg/errors"
	"github.com/angelmondragon/wcreports/pkg/metrics"
	"github.com/angelmondragon/wcreports/pkg/woocommerce"
	"github.com/angelmondragon/wcreports/pkg/woocommerce/wctest"
)

type stubSource struct {
	products map[int64]*woocommerce.Product
	err      error
	calls    int
}

func (s *stubSource) Product(_ context.Context, id int64) (*woocommerce.Product, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	p, ok := s.products[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "missing")
	}
	return p, nil
}

func TestResolveCachesAnswers(t *testing.T) {
	source := &stubSource{products: map[int64]*woocommerce.Product{
		7: {ID: 7, Categories: []woocommerce.Category{{Name: "Shirts"}}},
	}}
	reg := prometheus.NewRegistry()
	r, err := NewResolver(source, nil, metrics.NewReportMetrics(reg))
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}

	for i := 0; i < 3; i++ {
		names, err := r.Resolve(context.Background(), 7)
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		if len(names) != 1 || names[0] != "Shirts" {
			t.Fatalf("unexpected names %v", names)
		}
	}
	if source.calls != 1 {
		t.Fatalf("expected a single API call, got %d", source.calls)
	}
	if r.Cache().Len() != 1 {
		t.Fatalf("expected one cache entry, got %d", r.Cache().Len())
	}

	series, err := testutil.GatherAndCount(reg, "category_lookups_total")
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if series != 2 {
		t.Fatalf("expected hit and miss series, got %d", series)
	}
}

func TestResolveMissingProductIsEmptyAndCached(t *testing.T) {
	source := &stubSource{}
	r, err := NewResolver(source, nil, nil)
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}

	for i := 0; i < 2; i++ {
		names, err := r.Resolve(context.Background(), 99)
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		if names == nil || len(names) != 0 {
			t.Fatalf("expected empty names, got %#v", names)
		}
	}
	if source.calls != 1 {
		t.Fatalf("expected missing product to be cached, got %d calls", source.calls)
	}
}

func TestResolvePropagatesOtherErrors(t *testing.T) {
	boom := pkgerrors.New(pkgerrors.CodeDependency, "boom")
	r, err := NewResolver(&stubSource{err: boom}, nil, nil)
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}
	if _, err := r.Resolve(context.Background(), 1); !errors.Is(err, boom) {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if r.Cache().Len() != 0 {
		t.Fatalf("failed lookups must not be cached")
	}
}

func TestResolveAgainstFakeStore(t *testing.T) {
	store := wctest.New(t)
	store.AddProduct(t, 7, wctest.Product(7, "Tee", "Shirts", "Sale"))

	client, err := woocommerce.NewClient(config.WooCommerceConfig{URL: store.URL, ConsumerKey: "ck", ConsumerSecret: "cs"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	r, err := NewResolver(client, nil, nil)
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}

	for _, id := range []int64{7, 7, 8, 8} {
		if _, err := r.Resolve(context.Background(), id); err != nil {
			t.Fatalf("resolve %d: %v", id, err)
		}
	}
	if got := store.RequestCount("/wp-json/wc/v3/products/7"); got != 1 {
		t.Fatalf("expected one request for product 7, got %d", got)
	}
	if got := store.RequestCount("/wp-json/wc/v3/products/8"); got != 1 {
		t.Fatalf("expected one request for product 8, got %d", got)
	}
}

func TestCache(t *testing.T) {
	c := NewCache()
	if _, ok := c.Lookup(1); ok {
		t.Fatalf("empty cache should miss")
	}
	c.Insert(1, nil)
	names, ok := c.Lookup(1)
	if !ok || names == nil {
		t.Fatalf("expected cached empty list, got %#v %v", names, ok)
	}
	c.Insert(1, []string{"A"})
	if names, _ := c.Lookup(1); len(names) != 1 || c.Len() != 1 {
		t.Fatalf("insert should replace entry")
	}
}

func TestNewResolverRequiresSource(t *testing.T) {
	if _, err := NewResolver(nil, nil, nil); err == nil {
		t.Fatalf("expected error")
	}
}

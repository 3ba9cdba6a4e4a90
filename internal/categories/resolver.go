// Package categories resolves product ids to category names through the
// store API, caching each answer for the lifetime of a report run.
package categories

import (
	"context"
	"errors"
	"fmt"

	pkgerrors "github.com/angelmondragon/wcreports/pkg/errors"
	"github.com/angelmondragon/wcreports/pkg/logger"
	"github.com/angelmondragon/wcreports/pkg/metrics"
	"github.com/angelmondragon/wcreports/pkg/woocommerce"
)

// ProductSource fetches a single product.
type ProductSource interface {
	Product(ctx context.Context, id int64) (*woocommerce.Product, error)
}

// Resolver answers category lookups from its cache, falling back to the API.
type Resolver struct {
	source  ProductSource
	cache   *Cache
	logg    *logger.Logger
	metrics *metrics.ReportMetrics
}

// NewResolver builds a resolver over a fresh cache.
func NewResolver(source ProductSource, logg *logger.Logger, m *metrics.ReportMetrics) (*Resolver, error) {
	if source == nil {
		return nil, fmt.Errorf("product source required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Resolver{source: source, cache: NewCache(), logg: logg, metrics: m}, nil
}

// Resolve returns the category names of productID. Products the store no
// longer knows resolve to an empty list, which is cached like any other answer.
func (r *Resolver) Resolve(ctx context.Context, productID int64) ([]string, error) {
	if names, ok := r.cache.Lookup(productID); ok {
		r.metrics.ObserveLookup(true)
		return names, nil
	}
	r.metrics.ObserveLookup(false)

	product, err := r.source.Product(ctx, productID)
	switch {
	case errors.Is(err, errProductMissing):
		r.logg.Warn(r.logg.WithField(ctx, "product_id", productID), "product not found, treating as uncategorized")
		r.cache.Insert(productID, nil)
		return []string{}, nil
	case err != nil:
		return nil, err
	}

	names := product.CategoryNames()
	r.cache.Insert(productID, names)
	return names, nil
}

// Cache exposes the resolver's cache.
func (r *Resolver) Cache() *Cache {
	return r.cache
}

var errProductMissing = pkgerrors.New(pkgerrors.CodeNotFound, "product not found")

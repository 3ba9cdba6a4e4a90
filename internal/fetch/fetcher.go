// Package fetch pulls every page of a store resource within a time window
// into one in-memory table.
package fetch

import (
	"context"
	"fmt"
	"net/url"

	pkgerrors "github.com/angelmondragon/wcreports/pkg/errors"
	"github.com/angelmondragon/wcreports/pkg/logger"
	"github.com/angelmondragon/wcreports/pkg/metrics"
	"github.com/angelmondragon/wcreports/pkg/pagination"
	"github.com/angelmondragon/wcreports/pkg/woocommerce"
)

// ErrNoData matches any error raised because the first page came back empty.
var ErrNoData = pkgerrors.New(pkgerrors.CodeNoData, "no data received from the API")

// PageLister returns one page of a collection resource.
type PageLister interface {
	ListPage(ctx context.Context, resource string, query url.Values, page pagination.Params) (*woocommerce.Page, error)
}

// Fetcher walks pages until the short-page heuristic reports the end.
type Fetcher struct {
	client   PageLister
	pageSize int
	logg     *logger.Logger
	metrics  *metrics.ReportMetrics
}

// FetcherParams wires a Fetcher.
type FetcherParams struct {
	Client   PageLister
	PageSize int
	Logger   *logger.Logger
	Metrics  *metrics.ReportMetrics
}

// NewFetcher builds a fetcher; the page size is clamped to what the API allows.
func NewFetcher(params FetcherParams) (*Fetcher, error) {
	if params.Client == nil {
		return nil, fmt.Errorf("page lister required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &Fetcher{
		client:   params.Client,
		pageSize: pagination.NormalizeLimit(params.PageSize),
		logg:     logg,
		metrics:  params.Metrics,
	}, nil
}

// Fetch returns every record of resource created inside window. An empty
// first page yields an error matching ErrNoData. Failures are not retried.
func (f *Fetcher) Fetch(ctx context.Context, resource string, window Window) (*Table, error) {
	ctx = f.logg.WithResource(ctx, resource)
	query := window.Params()
	table := &Table{Resource: resource}

	for page := pagination.First(f.pageSize); ; page = page.Next() {
		if err := ctx.Err(); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch "+resource+" cancelled")
		}

		result, err := f.client.ListPage(ctx, resource, query, page)
		if err != nil {
			return nil, err
		}
		received := len(result.Records)
		f.metrics.ObservePage(resource, received)
		f.logg.Debug(f.logg.WithFields(ctx, map[string]any{
			"page":     page.Page,
			"per_page": page.PerPage,
			"received": received,
		}), "fetched page")

		if received == 0 && page.IsFirst() {
			f.logg.Warn(ctx, "no data received from the API")
			return nil, pkgerrors.New(pkgerrors.CodeNoData, "no data received from the API").
				WithDetails(map[string]any{"resource": resource, "after": query.Get("after"), "before": query.Get("before")})
		}

		table.Records = append(table.Records, result.Records...)
		if page.IsLastPage(received) {
			break
		}
	}

	f.logg.Info(f.logg.WithField(ctx, "records", table.Len()), fmt.Sprintf("retrieved %d %s", table.Len(), resource))
	return table, nil
}

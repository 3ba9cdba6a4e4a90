// Package reports runs the fetch, aggregate and render pipeline for one
// registered report and writes the resulting chart to the export directory.
package reports

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/wcreports/internal/categories"
	"github.com/angelmondragon/wcreports/internal/charts"
	"github.com/angelmondragon/wcreports/internal/fetch"
	pkgerrors "github.com/angelmondragon/wcreports/pkg/errors"
	"github.com/angelmondragon/wcreports/pkg/logger"
	"github.com/angelmondragon/wcreports/pkg/metrics"
	"github.com/angelmondragon/wcreports/pkg/validators"
	"github.com/angelmondragon/wcreports/pkg/woocommerce"
)

const fieldLineItems = "line_items"

// Fetcher returns every record of a resource inside a window.
type Fetcher interface {
	Fetch(ctx context.Context, resource string, window fetch.Window) (*fetch.Table, error)
}

// ServiceParams configure the report service.
type ServiceParams struct {
	Logger    *logger.Logger
	Registry  *Registry
	Fetcher   Fetcher
	Products  categories.ProductSource
	Metrics   *metrics.ReportMetrics
	Theme     charts.Theme
	ExportDir string
}

// Service executes registered reports.
type Service struct {
	logg      *logger.Logger
	registry  *Registry
	fetcher   Fetcher
	products  categories.ProductSource
	metrics   *metrics.ReportMetrics
	theme     charts.Theme
	exportDir string
}

// Result describes a finished run. Skipped runs have no Path.
type Result struct {
	RunID   string
	Kind    Kind
	Path    string
	Records int
	Skipped bool
	Reason  string
}

// NewService builds a report service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Fetcher == nil {
		return nil, fmt.Errorf("fetcher required")
	}
	if strings.TrimSpace(params.ExportDir) == "" {
		return nil, fmt.Errorf("export dir required")
	}
	registry := params.Registry
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Service{
		logg:      params.Logger,
		registry:  registry,
		fetcher:   params.Fetcher,
		products:  params.Products,
		metrics:   params.Metrics,
		theme:     params.Theme,
		exportDir: params.ExportDir,
	}, nil
}

// Run executes one report. Missing data is not an error: the run is
// reported as skipped and no file is written.
func (s *Service) Run(ctx context.Context, req Request) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	result := &Result{RunID: uuid.NewString(), Kind: req.Kind}
	ctx = s.logg.WithRunID(ctx, result.RunID)
	ctx = s.logg.WithReport(ctx, string(req.Kind))

	s.logg.Info(ctx, "report start")
	start := time.Now()
	err := s.run(ctx, req, result)
	duration := time.Since(start)
	s.metrics.ObserveDuration(string(req.Kind), duration)
	ctx = s.logg.WithField(ctx, "duration_ms", duration.Milliseconds())

	if err != nil && pkgerrors.MetadataFor(pkgerrors.CodeOf(err)).Skippable {
		result.Skipped = true
		result.Reason = pkgerrors.MetadataFor(pkgerrors.CodeOf(err)).PublicMessage
		result.Path = ""
		s.logg.Warn(s.logg.WithField(ctx, "reason", err.Error()), "report skipped")
		s.metrics.IncOutcome(string(req.Kind), metrics.OutcomeSkipped)
		return result, nil
	}
	if err != nil {
		s.logg.Error(ctx, "report failed", err)
		s.metrics.IncOutcome(string(req.Kind), metrics.OutcomeFailure)
		return nil, err
	}

	s.logg.Info(s.logg.WithField(ctx, "path", result.Path), "report saved")
	s.metrics.IncOutcome(string(req.Kind), metrics.OutcomeSuccess)
	return result, nil
}

func (s *Service) run(ctx context.Context, req Request, result *Result) error {
	if err := validators.Struct(req); err != nil {
		return err
	}
	for _, status := range req.Statuses {
		if !status.IsValid() {
			return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
				WithDetails(map[string]string{"statuses": "unknown order status " + status.String()})
		}
	}
	def, ok := s.registry.Lookup(req.Kind)
	if !ok {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown report kind").
			WithDetails(map[string]string{"kind": "must be one of [" + strings.Join(s.registry.Kinds(), " ") + "]"})
	}
	if def.Scope == ScopeSinceYear {
		if req.SinceYear == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
				WithDetails(map[string]string{"since_year": "is required"})
		}
		if req.Year < req.SinceYear {
			return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
				WithDetails(map[string]string{"year": fmt.Sprintf("must not be before since_year %d", req.SinceYear)})
		}
	}
	if def.NeedsProducts && s.products == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "product source not configured")
	}

	span := resolveSpan(def.Kind, def.Scope, req)
	ctx = s.logg.WithField(ctx, "period", span.label)

	table, err := s.fetcher.Fetch(ctx, woocommerce.ResourceOrders, span.window)
	if err != nil {
		return err
	}

	if def.NeedsLineItems && !table.HasField(fieldLineItems) {
		return pkgerrors.New(pkgerrors.CodeSchema, "line_items field missing").
			WithDetails(map[string]any{"resource": table.Resource, "field": fieldLineItems})
	}

	orders, err := fetch.Decode[woocommerce.Order](table)
	if err != nil {
		return err
	}
	orders = withinWindow(orders, span.window)
	result.Records = len(orders)

	data := Dataset{
		Request: req,
		Title:   def.Title + " " + span.label,
		Orders:  orders,
		Periods: span.periods,
	}
	if def.NeedsProducts {
		// A fresh resolver keeps the category cache scoped to this run.
		resolver, err := categories.NewResolver(s.products, s.logg, s.metrics)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build category resolver")
		}
		data.Categories = resolver
	}

	chart, err := def.Build(ctx, data)
	if err != nil {
		return err
	}

	path := filepath.Join(s.exportDir, span.file)
	if err := charts.Save(path, chart, s.theme); err != nil {
		if pkgerrors.CodeOf(err) == pkgerrors.CodeNoData {
			return err
		}
		return pkgerrors.Wrap(pkgerrors.CodeRender, err, "save "+string(def.Kind)+" chart").
			WithDetails(map[string]any{"path": path})
	}
	result.Path = path
	return nil
}

// withinWindow drops dated orders the store returned outside the window.
// Orders without a creation date are kept for reports that do not bucket by
// month.
func withinWindow(orders []woocommerce.Order, window fetch.Window) []woocommerce.Order {
	kept := orders[:0]
	for _, order := range orders {
		if !order.DateCreated.IsZero() && !window.Contains(order.DateCreated.Time) {
			continue
		}
		kept = append(kept, order)
	}
	return kept
}

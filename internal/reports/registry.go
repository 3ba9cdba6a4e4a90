package reports

import (
	"context"
	"sort"

	"github.com/angelmondragon/wcreports/internal/aggregate"
	"github.com/angelmondragon/wcreports/internal/categories"
	"github.com/angelmondragon/wcreports/internal/charts"
	"github.com/angelmondragon/wcreports/pkg/woocommerce"
)

// Kind names a report.
type Kind string

const (
	KindOrdersUnits        Kind = "orders-units"
	KindOrdersUnitsAllTime Kind = "orders-units-all-time"
	KindRevenue            Kind = "revenue"
	KindCustomers          Kind = "customers"
	KindPaymentMethods     Kind = "payment-methods"
	KindTopProducts        Kind = "top-products"
	KindCategories         Kind = "categories"
)

// Scope selects the fetch window and period range of a report.
type Scope int

const (
	// ScopeYear covers January through December of the requested year.
	ScopeYear Scope = iota
	// ScopeSinceYear covers every month from SinceYear through the requested year.
	ScopeSinceYear
)

// Dataset is what a report builds its chart from.
type Dataset struct {
	Request Request
	Title   string
	Orders  []woocommerce.Order
	Periods []aggregate.Period
	// Categories is scoped to this run; nil unless the definition needs it.
	Categories *categories.Resolver
}

// BuildFunc turns fetched orders into a chart.
type BuildFunc func(ctx context.Context, data Dataset) (charts.Chart, error)

// Definition describes one report of the fetch, aggregate and render pipeline.
type Definition struct {
	Kind           Kind
	Title          string
	Scope          Scope
	NeedsLineItems bool
	NeedsProducts  bool
	Build          BuildFunc
}

// Registry tracks report definitions by kind.
type Registry struct {
	order []Kind
	defs  map[Kind]Definition
}

// NewRegistry builds a registry preloaded with the provided definitions.
func NewRegistry(defs ...Definition) *Registry {
	registry := &Registry{defs: map[Kind]Definition{}}
	for _, def := range defs {
		registry.Register(def)
	}
	return registry
}

// Register adds or replaces a definition. Definitions without a kind or
// build step are ignored.
func (r *Registry) Register(def Definition) {
	if def.Kind == "" || def.Build == nil {
		return
	}
	if _, exists := r.defs[def.Kind]; !exists {
		r.order = append(r.order, def.Kind)
	}
	r.defs[def.Kind] = def
}

// Lookup returns the definition registered for kind.
func (r *Registry) Lookup(kind Kind) (Definition, bool) {
	def, ok := r.defs[kind]
	return def, ok
}

// Kinds returns the registered kinds sorted by name.
func (r *Registry) Kinds() []string {
	kinds := make([]string, 0, len(r.order))
	for _, kind := range r.order {
		kinds = append(kinds, string(kind))
	}
	sort.Strings(kinds)
	return kinds
}

// DefaultRegistry registers every built-in report.
func DefaultRegistry() *Registry {
	return NewRegistry(
		Definition{Kind: KindOrdersUnits, Title: "Bestellungen", Scope: ScopeYear, NeedsLineItems: true, Build: buildOrdersUnits},
		Definition{Kind: KindOrdersUnitsAllTime, Title: "Bestellungen", Scope: ScopeSinceYear, NeedsLineItems: true, Build: buildOrdersUnits},
		Definition{Kind: KindRevenue, Title: "Umsatz", Scope: ScopeYear, Build: buildRevenue},
		Definition{Kind: KindCustomers, Title: "Kunden", Scope: ScopeYear, Build: buildCustomers},
		Definition{Kind: KindPaymentMethods, Title: "Zahlungsarten", Scope: ScopeYear, Build: buildPaymentMethods},
		Definition{Kind: KindTopProducts, Title: "Top-Produkte", Scope: ScopeYear, NeedsLineItems: true, Build: buildTopProducts},
		Definition{Kind: KindCategories, Title: "Kategorien", Scope: ScopeYear, NeedsLineItems: true, NeedsProducts: true, Build: buildCategories},
	)
}

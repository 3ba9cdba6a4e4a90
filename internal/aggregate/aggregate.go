package aggregate

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/wcreports/pkg/woocommerce"
)

// Totals is a sparse grouping result.
type Totals[K comparable] map[K]decimal.Decimal

// Count tallies one per row under the key derived from it. Rows for which
// key reports false are skipped.
func Count[T any, K comparable](rows []T, key func(T) (K, bool)) Totals[K] {
	return Sum(rows, key, func(T) decimal.Decimal { return decimal.NewFromInt(1) })
}

// Sum adds value(row) under the key derived from each row.
func Sum[T any, K comparable](rows []T, key func(T) (K, bool), value func(T) decimal.Decimal) Totals[K] {
	out := Totals[K]{}
	for _, row := range rows {
		k, ok := key(row)
		if !ok {
			continue
		}
		out[k] = out[k].Add(value(row))
	}
	return out
}

// Point is one entry of a reindexed series.
type Point struct {
	Period Period
	Value  decimal.Decimal
}

// Series is a gap-free chronological sequence of periods.
type Series []Point

// Reindex returns exactly one point per period in order, zero where totals
// has no entry. Totals outside periods are dropped.
func Reindex(totals Totals[Period], periods []Period) Series {
	out := make(Series, 0, len(periods))
	for _, p := range periods {
		out = append(out, Point{Period: p, Value: totals[p]})
	}
	return out
}

// Values returns the point values as floats for rendering.
func (s Series) Values() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Value.InexactFloat64()
	}
	return out
}

// Labels returns the period labels.
func (s Series) Labels() []string {
	out := make([]string, len(s))
	for i, p := range s {
		out[i] = p.Period.String()
	}
	return out
}

// LabelValue is one ranked label.
type LabelValue struct {
	Label string
	Value decimal.Decimal
}

// Rank orders labels by value descending, ties broken by label.
func Rank(totals Totals[string]) []LabelValue {
	out := make([]LabelValue, 0, len(totals))
	for label, value := range totals {
		out = append(out, LabelValue{Label: label, Value: value})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Value.Cmp(out[j].Value); c != 0 {
			return c > 0
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// Top keeps the first n ranked values and folds the rest into one entry
// labelled other. A non-positive n keeps everything.
func Top(values []LabelValue, n int, other string) []LabelValue {
	if n <= 0 || len(values) <= n {
		return values
	}
	out := make([]LabelValue, 0, n+1)
	out = append(out, values[:n]...)
	rest := decimal.Zero
	for _, v := range values[n:] {
		rest = rest.Add(v.Value)
	}
	if !rest.IsZero() {
		out = append(out, LabelValue{Label: other, Value: rest})
	}
	return out
}

// UnitsSold sums the line item quantities of an order.
func UnitsSold(order woocommerce.Order) decimal.Decimal {
	return decimal.NewFromInt(order.LineItems.Units())
}

// MonthOf keys an order by the month it was created in.
func MonthOf(order woocommerce.Order) (Period, bool) {
	if order.DateCreated.IsZero() {
		return Period{}, false
	}
	return PeriodOf(order.DateCreated.Time), true
}

// Distinct counts the distinct ids seen under each key. Rows for which
// either func reports false are skipped.
func Distinct[T any, K, V comparable](rows []T, key func(T) (K, bool), id func(T) (V, bool)) Totals[K] {
	seen := map[K]map[V]struct{}{}
	for _, row := range rows {
		k, ok := key(row)
		if !ok {
			continue
		}
		v, ok := id(row)
		if !ok {
			continue
		}
		if seen[k] == nil {
			seen[k] = map[V]struct{}{}
		}
		seen[k][v] = struct{}{}
	}
	out := make(Totals[K], len(seen))
	for k, ids := range seen {
		out[k] = decimal.NewFromInt(int64(len(ids)))
	}
	return out
}

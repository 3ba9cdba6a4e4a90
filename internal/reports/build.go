package reports

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/wcreports/internal/aggregate"
	"github.com/angelmondragon/wcreports/internal/charts"
	pkgerrors "github.com/angelmondragon/wcreports/pkg/errors"
	"github.com/angelmondragon/wcreports/pkg/woocommerce"
)

const (
	labelOther         = "Other"
	labelUnknown       = "Unknown"
	labelUncategorized = "Uncategorized"
)

func buildOrdersUnits(_ context.Context, data Dataset) (charts.Chart, error) {
	counts := aggregate.Reindex(aggregate.Count(data.Orders, aggregate.MonthOf), data.Periods)
	units := aggregate.Reindex(aggregate.Sum(data.Orders, aggregate.MonthOf, aggregate.UnitsSold), data.Periods)

	return charts.LineChart{
		Title:  data.Title,
		XLabel: "Month",
		YLabel: "Count",
		Labels: counts.Labels(),
		Series: []charts.LineSeries{
			{Name: "Number of Orders", Values: counts.Values(), Dashed: true},
			{Name: "Units Sold", Values: units.Values()},
		},
	}, nil
}

func buildRevenue(_ context.Context, data Dataset) (charts.Chart, error) {
	revenue := aggregate.Reindex(aggregate.Sum(data.Orders, aggregate.MonthOf, orderTotal), data.Periods)

	bars := make([]charts.Slice, 0, len(revenue))
	for _, p := range revenue {
		bars = append(bars, charts.Slice{Label: p.Period.String(), Value: p.Value.InexactFloat64()})
	}
	return charts.BarChart{
		Title:  data.Title,
		YLabel: revenueLabel(data.Orders),
		Bars:   bars,
	}, nil
}

func buildCustomers(_ context.Context, data Dataset) (charts.Chart, error) {
	registered := aggregate.Reindex(aggregate.Distinct(data.Orders, aggregate.MonthOf, registeredCustomer), data.Periods)
	guests := aggregate.Reindex(aggregate.Count(data.Orders, guestMonth), data.Periods)

	return charts.LineChart{
		Title:  data.Title,
		XLabel: "Month",
		YLabel: "Count",
		Labels: registered.Labels(),
		Series: []charts.LineSeries{
			{Name: "Registered Customers", Values: registered.Values()},
			{Name: "Guest Orders", Values: guests.Values(), Dashed: true},
		},
	}, nil
}

func buildPaymentMethods(_ context.Context, data Dataset) (charts.Chart, error) {
	totals := aggregate.Count(data.Orders, paymentMethod)
	return charts.PieChart{
		Title:  data.Title,
		Slices: slices(aggregate.Rank(totals)),
	}, nil
}

func buildTopProducts(_ context.Context, data Dataset) (charts.Chart, error) {
	totals := aggregate.Sum(lineItems(data.Orders), productName, quantity)
	ranked := aggregate.Top(aggregate.Rank(totals), data.Request.TopN, labelOther)
	return charts.BarChart{
		Title:  data.Title,
		YLabel: "Units Sold",
		Bars:   slices(ranked),
	}, nil
}

// buildCategories credits each line item's quantity to every category of
// its product. Items without a product or category land in one bucket.
func buildCategories(ctx context.Context, data Dataset) (charts.Chart, error) {
	if data.Categories == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "category resolver not configured")
	}
	totals := aggregate.Totals[string]{}
	for _, item := range lineItems(data.Orders) {
		qty := decimal.NewFromInt(item.Quantity)
		if item.ProductID <= 0 {
			totals[labelUncategorized] = totals[labelUncategorized].Add(qty)
			continue
		}
		names, err := data.Categories.Resolve(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if len(names) == 0 {
			totals[labelUncategorized] = totals[labelUncategorized].Add(qty)
			continue
		}
		for _, name := range names {
			totals[name] = totals[name].Add(qty)
		}
	}
	ranked := aggregate.Top(aggregate.Rank(totals), data.Request.TopN, labelOther)
	return charts.PieChart{
		Title:  data.Title,
		Slices: slices(ranked),
	}, nil
}

func orderTotal(o woocommerce.Order) decimal.Decimal {
	return o.Total.Decimal()
}

func registeredCustomer(o woocommerce.Order) (int64, bool) {
	return o.CustomerID, !o.IsGuest()
}

func guestMonth(o woocommerce.Order) (aggregate.Period, bool) {
	if !o.IsGuest() {
		return aggregate.Period{}, false
	}
	return aggregate.MonthOf(o)
}

func paymentMethod(o woocommerce.Order) (string, bool) {
	title := strings.TrimSpace(o.PaymentMethodTitle)
	if title == "" {
		return labelUnknown, true
	}
	return title, true
}

func lineItems(orders []woocommerce.Order) []woocommerce.LineItem {
	var items []woocommerce.LineItem
	for _, o := range orders {
		items = append(items, o.LineItems...)
	}
	return items
}

func productName(item woocommerce.LineItem) (string, bool) {
	if name := strings.TrimSpace(item.Name); name != "" {
		return name, true
	}
	if item.ProductID > 0 {
		return fmt.Sprintf("Product #%d", item.ProductID), true
	}
	return labelUnknown, true
}

func quantity(item woocommerce.LineItem) decimal.Decimal {
	return decimal.NewFromInt(item.Quantity)
}

func slices(values []aggregate.LabelValue) []charts.Slice {
	out := make([]charts.Slice, 0, len(values))
	for _, v := range values {
		out = append(out, charts.Slice{Label: v.Label, Value: v.Value.InexactFloat64()})
	}
	return out
}

// revenueLabel names the currency when every order shares one.
func revenueLabel(orders []woocommerce.Order) string {
	currency := ""
	for _, o := range orders {
		c := strings.TrimSpace(o.Currency)
		if c == "" {
			continue
		}
		if currency != "" && c != currency {
			return "Revenue"
		}
		currency = c
	}
	if currency == "" {
		return "Revenue"
	}
	return "Revenue (" + currency + ")"
}

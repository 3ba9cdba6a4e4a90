package woocommerce

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/wcreports/pkg/enums"
	"github.com/angelmondragon/wcreports/pkg/money"
)

// Resource names exposed by the store API.
const (
	ResourceOrders   = "orders"
	ResourceProducts = "products"
)

// Store timestamps carry no zone; they are local to the shop.
var timeLayouts = []string{
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Time accepts the timestamp formats the store emits.
type Time struct {
	time.Time
}

func (t *Time) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	parsed, err := ParseTime(raw)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(timeLayouts[0]))
}

// ParseTime parses a store timestamp in any supported layout.
func ParseTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported timestamp %q", raw)
}

// Amount is a monetary value the API sends either as a string or as a number.
type Amount string

func (a *Amount) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case bytes.Equal(trimmed, []byte("null")):
		*a = ""
	case len(trimmed) > 0 && trimmed[0] == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*a = Amount(s)
	default:
		*a = Amount(trimmed)
	}
	return nil
}

// Decimal returns the cleaned value; unparseable amounts are zero.
func (a Amount) Decimal() decimal.Decimal {
	return money.Clean(string(a))
}

// Order is the subset of the order resource the reports consume.
type Order struct {
	ID                 int64             `json:"id"`
	Status             enums.OrderStatus `json:"status"`
	Currency           string            `json:"currency"`
	DateCreated        Time              `json:"date_created"`
	Total              Amount            `json:"total"`
	CustomerID         int64             `json:"customer_id"`
	PaymentMethod      string            `json:"payment_method"`
	PaymentMethodTitle string            `json:"payment_method_title"`
	LineItems          LineItems         `json:"line_items"`
}

// IsGuest reports whether the order was placed without a customer account.
func (o Order) IsGuest() bool {
	return o.CustomerID == 0
}

// LineItem is one product row of an order.
type LineItem struct {
	ID          int64  `json:"id"`
	ProductID   int64  `json:"product_id"`
	VariationID int64  `json:"variation_id"`
	Name        string `json:"name"`
	Quantity    int64  `json:"quantity"`
	Price       Amount `json:"price"`
	Total       Amount `json:"total"`
	SKU         string `json:"sku"`
}

// LineItems decodes tolerantly: entries that are not JSON objects are dropped
// and a missing quantity decodes as zero.
type LineItems []LineItem

func (l *LineItems) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*l = nil
		return nil
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return fmt.Errorf("line_items must be an array: %w", err)
	}
	items := make(LineItems, 0, len(raws))
	for _, raw := range raws {
		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			continue
		}
		var item LineItem
		if err := json.Unmarshal(trimmed, &item); err != nil {
			return fmt.Errorf("decode line item: %w", err)
		}
		items = append(items, item)
	}
	*l = items
	return nil
}

// Units sums the quantities of all items.
func (l LineItems) Units() int64 {
	var total int64
	for _, item := range l {
		total += item.Quantity
	}
	return total
}

// Category is a product taxonomy term.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Product is the subset of the product resource used to resolve categories.
type Product struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	SKU        string     `json:"sku"`
	Categories []Category `json:"categories"`
}

// CategoryNames returns the product's category names in API order.
func (p Product) CategoryNames() []string {
	names := make([]string, 0, len(p.Categories))
	for _, c := range p.Categories {
		if name := strings.TrimSpace(c.Name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

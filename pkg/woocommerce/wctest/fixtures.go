package wctest

// Item builds a line item fixture.
func Item(productID int64, name string, quantity int, price string) map[string]any {
	return map[string]any{
		"product_id": productID,
		"name":       name,
		"quantity":   quantity,
		"price":      price,
		"total":      price,
	}
}

// Order builds an order fixture with the fields the reports consume.
func Order(id int64, created, total string, items ...map[string]any) map[string]any {
	lineItems := make([]any, 0, len(items))
	for _, item := range items {
		lineItems = append(lineItems, item)
	}
	return map[string]any{
		"id":                   id,
		"status":               "completed",
		"currency":             "EUR",
		"date_created":         created,
		"total":                total,
		"customer_id":          0,
		"payment_method":       "bacs",
		"payment_method_title": "Direct bank transfer",
		"line_items":           lineItems,
	}
}

// Product builds a product fixture carrying the given category names.
func Product(id int64, name string, categories ...string) map[string]any {
	cats := make([]map[string]any, 0, len(categories))
	for i, c := range categories {
		cats = append(cats, map[string]any{"id": i + 1, "name": c, "slug": c})
	}
	return map[string]any{
		"id":         id,
		"name":       name,
		"categories": cats,
	}
}

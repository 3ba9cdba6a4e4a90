package enums

import (
	"fmt"
	"strings"
)

// OrderStatus is the lifecycle state of a store order.
type OrderStatus string

const (
	OrderStatusPending       OrderStatus = "pending"
	OrderStatusProcessing    OrderStatus = "processing"
	OrderStatusOnHold        OrderStatus = "on-hold"
	OrderStatusCompleted     OrderStatus = "completed"
	OrderStatusCancelled     OrderStatus = "cancelled"
	OrderStatusRefunded      OrderStatus = "refunded"
	OrderStatusFailed        OrderStatus = "failed"
	OrderStatusTrash         OrderStatus = "trash"
	OrderStatusCheckoutDraft OrderStatus = "checkout-draft"
	// OrderStatusAny is the API's wildcard; it is also the behavior when no status is sent.
	OrderStatusAny OrderStatus = "any"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusOnHold,
	OrderStatusCompleted,
	OrderStatusCancelled,
	OrderStatusRefunded,
	OrderStatusFailed,
	OrderStatusTrash,
	OrderStatusCheckoutDraft,
	OrderStatusAny,
}

// String implements fmt.Stringer.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known OrderStatus.
func (s OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validOrderStatuses {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}

// ParseOrderStatuses parses a list, dropping blanks. Any invalid entry fails the whole list.
func ParseOrderStatuses(values []string) ([]OrderStatus, error) {
	out := make([]OrderStatus, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		status, err := ParseOrderStatus(v)
		if err != nil {
			return nil, err
		}
		out = append(out, status)
	}
	return out, nil
}

// JoinOrderStatuses renders statuses as the comma list the API accepts.
func JoinOrderStatuses(statuses []OrderStatus) string {
	parts := make([]string, 0, len(statuses))
	for _, s := range statuses {
		parts = append(parts, string(s))
	}
	return strings.Join(parts, ",")
}

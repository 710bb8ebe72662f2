package domain

import (
	"strconv"
	"time"
)

type OrderStatus string

const (
	OrderProcessing OrderStatus = "processing"
	OrderFailed     OrderStatus = "failed"
)

type Order struct {
	ID    string     `json:"id"`
	Items []CartItem `json:"items"`
	OrderSummary
	Date   time.Time   `json:"date"`
	Status OrderStatus `json:"status"`
}

// ItemIDs returns the ids of the ordered line items.
func (o Order) ItemIDs() []string {
	ids := make([]string, len(o.Items))
	for i, item := range o.Items {
		ids[i] = item.ID
	}
	return ids
}

// NewOrderID returns the order id for an order placed at t.
func NewOrderID(t time.Time) string {
	return "ORD-" + strconv.FormatInt(t.UnixMilli(), 10)
}

type CheckoutState string

const (
	CheckoutIdle       CheckoutState = "idle"
	CheckoutProcessing CheckoutState = "processing"
	CheckoutFailed     CheckoutState = "failed"
)

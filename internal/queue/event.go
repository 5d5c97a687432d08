// Package queue defines the order lifecycle events published to the message
// broker for kitchen and ops tooling.
package queue

// Queue names on the default exchange.
const (
	QueueOrderPlaced        = "order.placed"
	QueueOrderStatusChanged = "order.status_changed"
)

// OrderPlacedEvent is published when a customer places an order.
type OrderPlacedEvent struct {
	OrderID   uint   `json:"order_id"`
	Username  string `json:"username"`
	Quantity  int    `json:"quantity"`
	PizzaSize string `json:"pizza_size"`
	Flavour   bool   `json:"flavour"`
	PlacedAt  string `json:"placed_at"`
}

// OrderStatusChangedEvent is published when staff transitions an order's
// status.
type OrderStatusChangedEvent struct {
	OrderID   uint   `json:"order_id"`
	Username  string `json:"username"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
	ChangedBy string `json:"changed_by"`
	ChangedAt string `json:"changed_at"`
}

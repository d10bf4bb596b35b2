package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event types
const (
	EventTypeOrderPlaced = "ORDER_PLACED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderPlacedEvent published after an order and its shipment are committed
type OrderPlacedEvent struct {
	BaseEvent
	OrderID      int64           `json:"order_id"`
	ShipmentID   int64           `json:"shipment_id"`
	ProductID    int64           `json:"product_id"`
	Quantity     int             `json:"quantity"`
	Origin       string          `json:"origin"`
	Destination  string          `json:"destination"`
	TotalWeight  decimal.Decimal `json:"total_weight"`
	Courier      string          `json:"courier"`
	ShippingCost decimal.Decimal `json:"shipping_cost"`
}

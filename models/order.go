package models

import "time"

// OrderStatus is the server-owned lifecycle stage of an order. The client only
// reads it; transitions happen server-side.
type OrderStatus int

const (
	StatusPending OrderStatus = iota
	StatusConfirmed
	StatusPreparing
	StatusReadyForPickup
	StatusOutForDelivery
	StatusDelivered
	StatusCancelled
	StatusRejected
)

func (s OrderStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusConfirmed:
		return "confirmed"
	case StatusPreparing:
		return "preparing"
	case StatusReadyForPickup:
		return "ready_for_pickup"
	case StatusOutForDelivery:
		return "out_for_delivery"
	case StatusDelivered:
		return "delivered"
	case StatusCancelled:
		return "cancelled"
	case StatusRejected:
		return "rejected"
	}
	return "unknown"
}

// IsActive reports whether the order is in flight: confirmed by the restaurant
// but not yet delivered. Tracking is only offered in this range.
func (s OrderStatus) IsActive() bool {
	return s >= StatusConfirmed && s < StatusDelivered
}

func (s OrderStatus) IsCompleted() bool {
	return s == StatusDelivered
}

func (s OrderStatus) IsCancelled() bool {
	return s == StatusCancelled || s == StatusRejected
}

func (s OrderStatus) IsTerminal() bool {
	return s.IsCompleted() || s.IsCancelled()
}

// CanCancel is true only before the restaurant has confirmed the order.
func (s OrderStatus) CanCancel() bool {
	return s == StatusPending
}

func (s OrderStatus) CanTrack() bool {
	return s.IsActive()
}

func (s OrderStatus) CanReorder() bool {
	return s == StatusDelivered
}

func (s OrderStatus) CanRate() bool {
	return s == StatusDelivered
}

type PaymentMethod int

const (
	PaymentCashOnDelivery PaymentMethod = 0
	PaymentOnlineGateway  PaymentMethod = 1
)

func (m PaymentMethod) String() string {
	if m == PaymentOnlineGateway {
		return "online"
	}
	return "cash_on_delivery"
}

type Order struct {
	ID             string        `json:"id"`
	RestaurantID   string        `json:"restaurantId"`
	RestaurantName string        `json:"restaurantName,omitempty"`
	Items          []OrderItem   `json:"items,omitempty"`
	Status         OrderStatus   `json:"status"`
	PaymentMethod  PaymentMethod `json:"paymentMethod"`
	Total          float64       `json:"total"`
	Notes          string        `json:"notes,omitempty"`
	Rated          bool          `json:"rated,omitempty"`
	CreatedAt      time.Time     `json:"createdAt"`
}

type OrderItem struct {
	MenuItemID string            `json:"menuItemId"`
	Name       string            `json:"name,omitempty"`
	Quantity   int               `json:"quantity"`
	Price      float64           `json:"price,omitempty"`
	Options    []OptionSelection `json:"options,omitempty"`
}

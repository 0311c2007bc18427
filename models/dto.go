package models

import "time"

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type DeliveryAddress struct {
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

// OrderItemRequest is a line item reduced to what the server needs to re-price
// it. Client-side prices are deliberately not sent.
type OrderItemRequest struct {
	MenuItemID string            `json:"menuItemId"`
	Quantity   int               `json:"quantity"`
	Options    []OptionSelection `json:"options"`
}

type CreateOrderRequest struct {
	RestaurantID    string             `json:"restaurantId"`
	Items           []OrderItemRequest `json:"items"`
	DeliveryAddress DeliveryAddress    `json:"deliveryAddress"`
	PaymentMethod   PaymentMethod      `json:"paymentMethod"`
	Notes           string             `json:"notes,omitempty"`
	ScheduledFor    *time.Time         `json:"scheduledFor,omitempty"`
}

type CreateOrderResponse struct {
	ID     string      `json:"id"`
	Total  float64     `json:"total"`
	Status OrderStatus `json:"status"`
}

type CreatePaymentURLRequest struct {
	OrderID string `json:"orderId"`
}

type CreatePaymentURLResponse struct {
	PaymentURL string `json:"paymentUrl"`
}

package models

import "encoding/json"

type OptionItem struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// OptionSelection is a snapshot of the modifiers chosen for a line item at
// add-time. It is never mutated afterward; changing options creates a new line.
type OptionSelection struct {
	Title string       `json:"title"`
	Items []OptionItem `json:"items"`
}

type CartLineItem struct {
	MenuItemID string            `json:"menuItemId"`
	Name       string            `json:"name"`
	Options    []OptionSelection `json:"options"`
	Quantity   int               `json:"quantity"`
	TotalPrice float64           `json:"totalPrice"`
}

// NewCartLineItem builds a line item from a menu item's base price plus the
// price of every selected option, multiplied by quantity.
func NewCartLineItem(menuItemID, name string, unitPrice float64, options []OptionSelection, quantity int) CartLineItem {
	perUnit := unitPrice
	for _, opt := range options {
		for _, item := range opt.Items {
			perUnit += item.Price
		}
	}
	return CartLineItem{
		MenuItemID: menuItemID,
		Name:       name,
		Options:    options,
		Quantity:   quantity,
		TotalPrice: perUnit * float64(quantity),
	}
}

// MergeKey is the identity two additions must share to collapse into one line:
// the menu item id plus the serialized option selections.
func (i CartLineItem) MergeKey() string {
	opts, _ := json.Marshal(i.Options)
	return i.MenuItemID + "|" + string(opts)
}

// UnitPrice derives the per-unit price, options included, from the stored
// total. TotalPrice is always perUnit*Quantity so the division is exact.
func (i CartLineItem) UnitPrice() float64 {
	if i.Quantity <= 0 {
		return 0
	}
	return i.TotalPrice / float64(i.Quantity)
}

type Cart struct {
	RestaurantID   string         `json:"restaurantId"`
	RestaurantName string         `json:"restaurantName"`
	Items          []CartLineItem `json:"items"`
	Subtotal       float64        `json:"subtotal"`
	DeliveryFee    float64        `json:"deliveryFee"`
	ServiceCharge  float64        `json:"serviceCharge"`
	Discount       float64        `json:"discount"`
	Total          float64        `json:"total"`
}

// EmptyCart is the canonical cleared state: no restaurant binding, no items,
// every monetary field zero.
func EmptyCart() Cart {
	return Cart{Items: []CartLineItem{}}
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Recompute rebuilds the subtotal from the item list and the total from
// subtotal + deliveryFee + serviceCharge - discount.
func (c *Cart) Recompute() {
	subtotal := 0.0
	for _, item := range c.Items {
		subtotal += item.TotalPrice
	}
	c.Subtotal = subtotal
	c.Total = subtotal + c.DeliveryFee + c.ServiceCharge - c.Discount
}

// Clone returns a deep copy so callers can read cart state without aliasing
// the engine's items slice.
func (c Cart) Clone() Cart {
	out := c
	out.Items = make([]CartLineItem, len(c.Items))
	for i, item := range c.Items {
		copied := item
		copied.Options = make([]OptionSelection, len(item.Options))
		for j, opt := range item.Options {
			copiedOpt := opt
			copiedOpt.Items = append([]OptionItem(nil), opt.Items...)
			copied.Options[j] = copiedOpt
		}
		out.Items[i] = copied
	}
	return out
}

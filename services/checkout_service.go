package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"food-delivery-client/api"
	"food-delivery-client/models"
)

var (
	ErrNoAddress = errors.New("no delivery address selected")
	ErrEmptyCart = errors.New("cart is empty")
)

// PaymentInitError reports an order that was created but could not get a
// payment URL. The order exists; the caller re-enters payment for the same
// order id instead of re-submitting the cart.
type PaymentInitError struct {
	OrderID string
	Err     error
}

func (e *PaymentInitError) Error() string {
	return fmt.Sprintf("order %s created but payment initiation failed: %v", e.OrderID, e.Err)
}

func (e *PaymentInitError) Unwrap() error {
	return e.Err
}

type PlaceOrderInput struct {
	Address       *models.DeliveryAddress
	PaymentMethod models.PaymentMethod
	Notes         string
	ScheduledFor  *time.Time
}

type CheckoutResult struct {
	OrderID       string
	Total         float64
	PaymentMethod models.PaymentMethod
	PaymentURL    string
}

// CheckoutService turns a validated cart into a submitted order and routes it
// down the cash or online payment path.
type CheckoutService struct {
	api  *api.Client
	cart *CartService
}

func NewCheckoutService(client *api.Client, cart *CartService) *CheckoutService {
	return &CheckoutService{
		api:  client,
		cart: cart,
	}
}

// CanPlaceOrder runs the local preconditions that gate the place-order
// action. The UI disables the action until this returns nil.
func (s *CheckoutService) CanPlaceOrder(input PlaceOrderInput) error {
	if input.Address == nil || input.Address.Address == "" {
		return ErrNoAddress
	}
	if s.cart.Cart().IsEmpty() {
		return ErrEmptyCart
	}
	return nil
}

// PlaceOrder submits the cart. The cart is only cleared after the server has
// confirmed order creation; a rejected submission leaves it untouched. Once
// the order exists the cart is cleared even if payment initiation fails —
// payment failure is recoverable against the existing order, never a reason
// to resurrect the cart.
func (s *CheckoutService) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*CheckoutResult, error) {
	if err := s.CanPlaceOrder(input); err != nil {
		return nil, err
	}

	cart := s.cart.Cart()
	items := make([]models.OrderItemRequest, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, models.OrderItemRequest{
			MenuItemID: item.MenuItemID,
			Quantity:   item.Quantity,
			Options:    item.Options,
		})
	}

	request := models.CreateOrderRequest{
		RestaurantID:    cart.RestaurantID,
		Items:           items,
		DeliveryAddress: *input.Address,
		PaymentMethod:   input.PaymentMethod,
		Notes:           input.Notes,
		ScheduledFor:    input.ScheduledFor,
	}

	headers := map[string]string{"Idempotency-Key": uuid.NewString()}
	var created models.CreateOrderResponse
	if err := s.api.PostWithHeaders(ctx, "/orders", headers, request, &created); err != nil {
		return nil, fmt.Errorf("order submission failed: %w", err)
	}

	result := &CheckoutResult{
		OrderID:       created.ID,
		Total:         created.Total,
		PaymentMethod: input.PaymentMethod,
	}

	if input.PaymentMethod == models.PaymentCashOnDelivery {
		s.cart.ClearCart()
		return result, nil
	}

	paymentURL, err := s.RequestPaymentURL(ctx, created.ID)
	s.cart.ClearCart()
	if err != nil {
		return result, &PaymentInitError{OrderID: created.ID, Err: err}
	}
	result.PaymentURL = paymentURL
	return result, nil
}

// RequestPaymentURL asks the gateway integration for the redirect URL of an
// existing order. Used both on first checkout and on payment retry.
func (s *CheckoutService) RequestPaymentURL(ctx context.Context, orderID string) (string, error) {
	var res models.CreatePaymentURLResponse
	err := s.api.Post(ctx, "/payments/create-payment-url", models.CreatePaymentURLRequest{OrderID: orderID}, &res)
	if err != nil {
		return "", err
	}
	return res.PaymentURL, nil
}

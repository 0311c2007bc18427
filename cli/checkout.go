package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	"food-delivery-client/models"
	"food-delivery-client/payment"
	"food-delivery-client/services"
)

// How long we hold the loopback listener open for the gateway redirect.
const paymentWaitTimeout = 5 * time.Minute

func (a *App) cmdCheckout(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("checkout", flag.ContinueOnError)
	address := fs.String("address", "", "delivery address")
	lat := fs.Float64("lat", 0, "delivery latitude")
	lng := fs.Float64("lng", 0, "delivery longitude")
	online := fs.Bool("online", false, "pay through the online gateway instead of cash on delivery")
	notes := fs.String("notes", "", "notes for the restaurant or courier")
	schedule := fs.String("schedule", "", "scheduled delivery time, RFC 3339")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if !a.requireSession(ctx) {
		return 1
	}

	input := services.PlaceOrderInput{
		PaymentMethod: models.PaymentCashOnDelivery,
		Notes:         *notes,
	}
	if *online {
		input.PaymentMethod = models.PaymentOnlineGateway
	}
	if *address != "" {
		input.Address = &models.DeliveryAddress{Address: *address, Lat: *lat, Lng: *lng}
	}
	if *schedule != "" {
		when, err := time.Parse(time.RFC3339, *schedule)
		if err != nil {
			fmt.Println("Invalid -schedule, expected RFC 3339 such as 2026-09-01T18:30:00+07:00")
			return 2
		}
		input.ScheduledFor = &when
	}

	switch err := a.checkout.CanPlaceOrder(input); {
	case errors.Is(err, services.ErrNoAddress):
		fmt.Println("Add a delivery address first (-address, -lat, -lng)")
		return 2
	case errors.Is(err, services.ErrEmptyCart):
		fmt.Println("Your cart is empty; add something before checking out")
		return 2
	}

	result, err := a.checkout.PlaceOrder(ctx, input)

	var initErr *services.PaymentInitError
	if errors.As(err, &initErr) {
		log.Printf("checkout: %v", err)
		fmt.Printf("Order %s was created, but starting the payment failed.\n", initErr.OrderID)
		fmt.Printf("Retry with: food-delivery-client pay %s\n", initErr.OrderID)
		return 1
	}
	if err != nil {
		log.Printf("checkout: %v", err)
		fmt.Println("Placing the order failed; your cart is unchanged. Please try again.")
		return 1
	}

	fmt.Printf("Order %s placed. Total: %.2f\n", result.OrderID, result.Total)
	if result.PaymentMethod == models.PaymentCashOnDelivery {
		fmt.Println("Pay the courier on delivery.")
		return 0
	}
	return a.runPaymentFlow(ctx, result.OrderID, result.PaymentURL)
}

// cmdPay re-enters the online payment flow for an order that already exists,
// e.g. after an aborted redirect. The order is never re-submitted.
func (a *App) cmdPay(ctx context.Context, args []string) int {
	if len(args) != 1 {
		fmt.Println("usage: food-delivery-client pay <order-id>")
		return 2
	}
	if !a.requireSession(ctx) {
		return 1
	}

	orderID := args[0]
	paymentURL, err := a.checkout.RequestPaymentURL(ctx, orderID)
	if err != nil {
		log.Printf("pay: %v", err)
		fmt.Println("Could not start the payment. Please try again.")
		return 1
	}
	return a.runPaymentFlow(ctx, orderID, paymentURL)
}

func (a *App) runPaymentFlow(ctx context.Context, orderID, paymentURL string) int {
	listener := payment.NewListener(a.cfg.CallbackAddr)
	if err := listener.Start(); err != nil {
		log.Printf("payment listener: %v", err)
		fmt.Println("Open this URL to pay:", paymentURL)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		listener.Shutdown(shutdownCtx)
	}()

	fmt.Println("Open this URL to pay:", paymentURL)
	if err := payment.WriteQR(paymentURL, a.paymentQRPath()); err == nil {
		fmt.Println("Or scan the QR code saved at:", a.paymentQRPath())
	}

	waitCtx, cancel := context.WithTimeout(ctx, paymentWaitTimeout)
	defer cancel()

	result, err := listener.WaitForResult(waitCtx)
	if err != nil {
		fmt.Printf("No payment confirmation arrived. Check the order later or retry: food-delivery-client pay %s\n", orderID)
		return 1
	}

	if result.Success {
		fmt.Printf("Payment confirmed for order %s (transaction %s, amount %.2f)\n", result.OrderID, result.TransactionNo, result.Amount)
		return 0
	}
	fmt.Printf("Payment did not complete (gateway code %s). Retry with: food-delivery-client pay %s\n", result.ResponseCode, orderID)
	return 1
}

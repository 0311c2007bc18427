package cli

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"food-delivery-client/models"
)

func (a *App) cmdOrder(ctx context.Context, args []string) int {
	if len(args) != 1 {
		fmt.Println("usage: food-delivery-client order <order-id>")
		return 2
	}
	if !a.requireSession(ctx) {
		return 1
	}

	order, err := a.orders.GetOrder(ctx, args[0])
	if err != nil {
		log.Printf("order: %v", err)
		fmt.Println("Could not load the order. Please try again.")
		return 1
	}

	printOrder(*order)
	return 0
}

func (a *App) cmdOrders(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("orders", flag.ContinueOnError)
	page := fs.Int("page", 1, "page number")
	limit := fs.Int("limit", 10, "orders per page")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if !a.requireSession(ctx) {
		return 1
	}

	orders, err := a.orders.ListOrders(ctx, *page, *limit)
	if err != nil {
		log.Printf("orders: %v", err)
		fmt.Println("Could not load your order history. Please try again.")
		return 1
	}
	if len(orders) == 0 {
		fmt.Println("No orders yet")
		return 0
	}

	var active, completed, cancelled []models.Order
	for _, order := range orders {
		switch {
		case order.Status.IsCompleted():
			completed = append(completed, order)
		case order.Status.IsCancelled():
			cancelled = append(cancelled, order)
		default:
			active = append(active, order)
		}
	}

	printOrderSection("Active", active)
	printOrderSection("Completed", completed)
	printOrderSection("Cancelled", cancelled)
	return 0
}

func (a *App) cmdTrack(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("track", flag.ContinueOnError)
	interval := fs.Duration("interval", 5*time.Second, "polling interval")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Println("usage: food-delivery-client track [-interval 5s] <order-id>")
		return 2
	}
	if !a.requireSession(ctx) {
		return 1
	}

	final, err := a.orders.Track(ctx, fs.Arg(0), *interval, func(order models.Order) {
		fmt.Printf("%s  order %s is %s\n", time.Now().Format("15:04:05"), order.ID, order.Status)
	})
	if err != nil {
		log.Printf("track: %v", err)
		fmt.Println("Tracking stopped. Please try again.")
		return 1
	}

	if final.Status.IsCompleted() {
		fmt.Println("Delivered. Enjoy your meal!")
	} else {
		fmt.Printf("Order ended as %s\n", final.Status)
	}
	return 0
}

func printOrder(order models.Order) {
	fmt.Printf("Order %s — %s\n", order.ID, order.Status)
	if order.RestaurantName != "" {
		fmt.Printf("  Restaurant: %s\n", order.RestaurantName)
	}
	for _, item := range order.Items {
		fmt.Printf("  %dx %s\n", item.Quantity, item.Name)
	}
	fmt.Printf("  Total: %.2f (%s)\n", order.Total, order.PaymentMethod)
	if !order.CreatedAt.IsZero() {
		fmt.Printf("  Placed: %s\n", order.CreatedAt.Format(time.RFC822))
	}

	var actions []string
	if order.Status.CanTrack() {
		actions = append(actions, "track")
	}
	if order.Status.CanCancel() {
		actions = append(actions, "cancel")
	}
	if order.Status.CanReorder() {
		actions = append(actions, "reorder")
	}
	if order.Status.CanRate() && !order.Rated {
		actions = append(actions, "rate")
	}
	if len(actions) > 0 {
		fmt.Printf("  Available actions: %v\n", actions)
	}
}

func printOrderSection(title string, orders []models.Order) {
	if len(orders) == 0 {
		return
	}
	fmt.Printf("%s:\n", title)
	for _, order := range orders {
		fmt.Printf("  %s  %-16s  %.2f  %s\n", order.ID, order.Status, order.Total, order.CreatedAt.Format("2006-01-02"))
	}
}

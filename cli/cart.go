package cli

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"food-delivery-client/models"
)

func (a *App) cmdCart(ctx context.Context, args []string) int {
	if len(args) == 0 {
		a.printCart()
		return 0
	}

	switch args[0] {
	case "add":
		return a.cmdCartAdd(args[1:])
	case "list":
		a.printCart()
		return 0
	case "update":
		return a.cmdCartUpdate(args[1:])
	case "remove":
		return a.cmdCartRemove(args[1:])
	case "fees":
		return a.cmdCartFees(args[1:])
	case "clear":
		a.cart.ClearCart()
		fmt.Println("Cart cleared")
		return 0
	default:
		fmt.Println("cart subcommands: add, list, update, remove, fees, clear")
		return 2
	}
}

func (a *App) cmdCartAdd(args []string) int {
	fs := flag.NewFlagSet("cart add", flag.ContinueOnError)
	restaurantID := fs.String("restaurant", "", "restaurant id")
	restaurantName := fs.String("restaurant-name", "", "restaurant display name")
	menuItemID := fs.String("item", "", "menu item id")
	itemName := fs.String("name", "", "menu item name")
	price := fs.Float64("price", 0, "menu item base price")
	qty := fs.Int("qty", 1, "quantity")

	var options []models.OptionSelection
	fs.Func("option", "option as 'Title|Name|Price', repeatable", func(value string) error {
		parts := strings.SplitN(value, "|", 3)
		if len(parts) != 3 {
			return fmt.Errorf("expected 'Title|Name|Price', got %q", value)
		}
		optPrice, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			return fmt.Errorf("invalid option price %q", parts[2])
		}
		options = append(options, models.OptionSelection{
			Title: parts[0],
			Items: []models.OptionItem{{Name: parts[1], Price: optPrice}},
		})
		return nil
	})

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *restaurantID == "" || *menuItemID == "" {
		fmt.Println("cart add requires -restaurant and -item")
		return 2
	}

	// Cross-restaurant replacement is a destructive action; the engine only
	// reports it, the confirmation lives here.
	if a.cart.WouldReplaceRestaurant(*restaurantID) {
		current := a.cart.Cart()
		fmt.Printf("Your cart contains items from %s. Adding from another restaurant will clear it. Continue? [y/N] ", current.RestaurantName)
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if strings.ToLower(strings.TrimSpace(answer)) != "y" {
			fmt.Println("Keeping your current cart")
			return 0
		}
		a.cart.ClearCart()
	}

	item := models.NewCartLineItem(*menuItemID, *itemName, *price, options, *qty)
	if err := a.cart.AddItem(*restaurantID, *restaurantName, item); err != nil {
		fmt.Println("Could not add item:", err)
		return 1
	}

	a.printCart()
	return 0
}

func (a *App) cmdCartUpdate(args []string) int {
	fs := flag.NewFlagSet("cart update", flag.ContinueOnError)
	index := fs.Int("index", -1, "item position in the cart, starting at 0")
	qty := fs.Int("qty", 0, "new quantity; zero removes the item")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if err := a.cart.UpdateItemQuantity(*index, *qty); err != nil {
		fmt.Println("Could not update item:", err)
		return 1
	}
	a.printCart()
	return 0
}

func (a *App) cmdCartRemove(args []string) int {
	fs := flag.NewFlagSet("cart remove", flag.ContinueOnError)
	index := fs.Int("index", -1, "item position in the cart, starting at 0")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if err := a.cart.RemoveItem(*index); err != nil {
		fmt.Println("Could not remove item:", err)
		return 1
	}
	a.printCart()
	return 0
}

// cmdCartFees applies the checkout context the server provides for a selected
// address: delivery fee, service charge and any promo discount.
func (a *App) cmdCartFees(args []string) int {
	fs := flag.NewFlagSet("cart fees", flag.ContinueOnError)
	delivery := fs.Float64("delivery", 0, "delivery fee")
	service := fs.Float64("service", 0, "service charge")
	discount := fs.Float64("discount", 0, "discount amount")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "delivery":
			a.cart.UpdateDeliveryFee(*delivery)
		case "service":
			a.cart.UpdateServiceCharge(*service)
		case "discount":
			a.cart.ApplyDiscount(*discount)
		}
	})

	a.printCart()
	return 0
}

func (a *App) printCart() {
	cart := a.cart.Cart()
	if cart.IsEmpty() {
		fmt.Println("Your cart is empty")
		return
	}

	fmt.Printf("Cart — %s\n", cart.RestaurantName)
	for i, item := range cart.Items {
		fmt.Printf("  [%d] %dx %s  %.2f\n", i, item.Quantity, item.Name, item.TotalPrice)
		for _, opt := range item.Options {
			for _, optItem := range opt.Items {
				fmt.Printf("        + %s: %s (%.2f)\n", opt.Title, optItem.Name, optItem.Price)
			}
		}
	}
	fmt.Printf("  Subtotal:       %.2f\n", cart.Subtotal)
	if cart.DeliveryFee != 0 {
		fmt.Printf("  Delivery fee:   %.2f\n", cart.DeliveryFee)
	}
	if cart.ServiceCharge != 0 {
		fmt.Printf("  Service charge: %.2f\n", cart.ServiceCharge)
	}
	if cart.Discount != 0 {
		fmt.Printf("  Discount:      -%.2f\n", cart.Discount)
	}
	fmt.Printf("  Total:          %.2f\n", cart.Total)
}

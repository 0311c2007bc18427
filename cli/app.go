// Package cli is the command-line surface of the client. It plays the role
// the mobile screens do: thin command handlers over the services, owning the
// prompts and confirmations the engine itself refuses to do.
package cli

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"food-delivery-client/api"
	"food-delivery-client/config"
	"food-delivery-client/services"
	"food-delivery-client/store"
)

type App struct {
	cfg      *config.Config
	store    store.Store
	api      *api.Client
	session  *services.SessionService
	cart     *services.CartService
	checkout *services.CheckoutService
	orders   *services.OrderService
}

func newApp() (*App, error) {
	cfg := config.AppConfig

	st, err := openStore(cfg)
	if err != nil {
		return nil, err
	}

	client := api.NewClient(api.ClientConfig{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.RequestTimeout,
	})

	session := services.NewSessionService(client, st)
	cart := services.NewCartService(st)

	return &App{
		cfg:      cfg,
		store:    st,
		api:      client,
		session:  session,
		cart:     cart,
		checkout: services.NewCheckoutService(client, cart),
		orders:   services.NewOrderService(client),
	}, nil
}

func openStore(cfg *config.Config) (store.Store, error) {
	if cfg.RedisURL != "" {
		st, err := store.NewRedisStoreFromURL(cfg.RedisURL)
		if err == nil {
			return st, nil
		}
		log.Printf("Redis connection failed: %v", err)
		log.Println("Falling back to local file storage")
	} else if cfg.RedisAddr != "" {
		st, err := store.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword)
		if err == nil {
			return st, nil
		}
		log.Printf("Redis connection failed: %v", err)
		log.Println("Falling back to local file storage")
	}
	return store.NewFileStore(cfg.StateDir)
}

func (a *App) Close() {
	a.cart.Close()
	if err := a.store.Close(); err != nil {
		log.Printf("failed to close store: %v", err)
	}
}

// requireSession restores the persisted session and refuses the command when
// no one is signed in.
func (a *App) requireSession(ctx context.Context) bool {
	user, err := a.session.Bootstrap(ctx)
	if err != nil {
		log.Printf("session restore: %v", err)
	}
	if user == nil {
		fmt.Println("Please sign in first: food-delivery-client login -email you@example.com -password ...")
		return false
	}
	return true
}

func Run(args []string) int {
	if len(args) == 0 {
		usage()
		return 2
	}

	app, err := newApp()
	if err != nil {
		log.Printf("startup failed: %v", err)
		return 1
	}
	defer app.Close()

	ctx := context.Background()

	switch args[0] {
	case "login":
		return app.cmdLogin(ctx, args[1:])
	case "logout":
		return app.cmdLogout(ctx)
	case "profile":
		return app.cmdProfile(ctx)
	case "cart":
		return app.cmdCart(ctx, args[1:])
	case "checkout":
		return app.cmdCheckout(ctx, args[1:])
	case "pay":
		return app.cmdPay(ctx, args[1:])
	case "order":
		return app.cmdOrder(ctx, args[1:])
	case "orders":
		return app.cmdOrders(ctx, args[1:])
	case "track":
		return app.cmdTrack(ctx, args[1:])
	case "theme":
		return app.cmdTheme(ctx, args[1:])
	default:
		usage()
		return 2
	}
}

func (a *App) cmdTheme(ctx context.Context, args []string) int {
	if len(args) == 0 {
		mode, err := a.store.Get(ctx, store.KeyThemeMode)
		if err != nil {
			mode = "system"
		}
		fmt.Println(mode)
		return 0
	}

	mode := args[0]
	if mode != "light" && mode != "dark" && mode != "system" {
		fmt.Println("theme must be one of: light, dark, system")
		return 2
	}
	if err := a.store.Set(ctx, store.KeyThemeMode, mode, 0); err != nil {
		log.Printf("failed to save theme: %v", err)
		return 1
	}
	fmt.Println("Theme set to", mode)
	return 0
}

// paymentQRPath is where the checkout flow drops the scannable payment link.
func (a *App) paymentQRPath() string {
	return filepath.Join(a.cfg.StateDir, "payment-qr.png")
}

func usage() {
	fmt.Println(`Usage: food-delivery-client <command> [flags]

Commands:
  login      Sign in with email and password
  logout     Sign out and invalidate the session
  profile    Show the signed-in user
  cart       Manage the local cart (add, list, update, remove, fees, clear)
  checkout   Place an order from the current cart
  pay        Re-enter payment for an already created order
  order      Show one order
  orders     List order history
  track      Follow an active order until it settles
  theme      Get or set the preferred theme`)
}

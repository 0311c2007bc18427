package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"food-delivery-client/models"
	"food-delivery-client/store"
)

var (
	ErrDifferentRestaurant = errors.New("cart is bound to a different restaurant")
	ErrItemIndex           = errors.New("cart item index out of range")
	ErrInvalidQuantity     = errors.New("quantity must be at least 1")
)

// Cart entries keep the platform's server-side retention window.
const cartTTL = 30 * 24 * time.Hour

// CartService owns the single active cart. Mutations apply synchronously to
// the in-memory cart, which is the source of truth; a writer goroutine then
// persists snapshots in mutation order without blocking the caller.
type CartService struct {
	mu        sync.Mutex
	cart      models.Cart
	store     store.Store
	persistCh chan models.Cart
	done      chan struct{}
}

func NewCartService(st store.Store) *CartService {
	s := &CartService{
		cart:      models.EmptyCart(),
		store:     st,
		persistCh: make(chan models.Cart, 16),
		done:      make(chan struct{}),
	}
	s.load()
	go s.persistLoop()
	return s
}

func (s *CartService) load() {
	data, err := s.store.Get(context.Background(), store.KeyCart)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Printf("cart: failed to load persisted cart: %v", err)
		}
		return
	}

	var cart models.Cart
	if err := json.Unmarshal([]byte(data), &cart); err != nil {
		log.Printf("cart: discarding corrupt persisted cart: %v", err)
		return
	}
	if cart.Items == nil {
		cart.Items = []models.CartLineItem{}
	}
	cart.Recompute()
	s.cart = cart
}

func (s *CartService) persistLoop() {
	for cart := range s.persistCh {
		data, err := json.Marshal(cart)
		if err != nil {
			log.Printf("cart: failed to serialize cart: %v", err)
			continue
		}
		if err := s.store.Set(context.Background(), store.KeyCart, string(data), cartTTL); err != nil {
			log.Printf("cart: failed to persist cart: %v", err)
		}
	}
	close(s.done)
}

// persist queues a snapshot for the writer goroutine. Must be called with the
// mutex held so snapshots enter the channel in mutation order.
func (s *CartService) persist() {
	s.persistCh <- s.cart.Clone()
}

// Close flushes pending writes. Call it after all mutations have stopped.
func (s *CartService) Close() {
	close(s.persistCh)
	<-s.done
}

// Cart returns a deep copy of the current cart.
func (s *CartService) Cart() models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Clone()
}

// WouldReplaceRestaurant tells the caller whether adding from this restaurant
// requires discarding the current cart first. The engine never prompts; that
// confirmation is the UI's job.
func (s *CartService) WouldReplaceRestaurant(restaurantID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cart.Items) > 0 && s.cart.RestaurantID != restaurantID
}

// AddItem appends the item, or merges quantity and price into an existing
// line when the menu item and option selections are identical. Adding from a
// different restaurant than the cart is bound to fails; the caller must clear
// first.
func (s *CartService) AddItem(restaurantID, restaurantName string, item models.CartLineItem) error {
	if item.Quantity < 1 {
		return ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.cart.Items) > 0 && s.cart.RestaurantID != restaurantID {
		return ErrDifferentRestaurant
	}

	s.cart.RestaurantID = restaurantID
	s.cart.RestaurantName = restaurantName

	key := item.MergeKey()
	merged := false
	for i := range s.cart.Items {
		if s.cart.Items[i].MergeKey() == key {
			s.cart.Items[i].Quantity += item.Quantity
			s.cart.Items[i].TotalPrice += item.TotalPrice
			merged = true
			break
		}
	}
	if !merged {
		s.cart.Items = append(s.cart.Items, item)
	}

	s.cart.Recompute()
	s.persist()
	return nil
}

// UpdateItemQuantity sets a line's quantity, rescaling its total from the
// derived unit price so option surcharges are preserved proportionally.
// Quantity zero or below removes the line.
func (s *CartService) UpdateItemQuantity(index, quantity int) error {
	if quantity <= 0 {
		return s.RemoveItem(index)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.cart.Items) {
		return ErrItemIndex
	}

	item := &s.cart.Items[index]
	unitPrice := item.UnitPrice()
	item.Quantity = quantity
	item.TotalPrice = unitPrice * float64(quantity)

	s.cart.Recompute()
	s.persist()
	return nil
}

// RemoveItem drops the line at index. Removing the last line resets the cart
// to the canonical empty state, unbinding the restaurant.
func (s *CartService) RemoveItem(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.cart.Items) {
		return ErrItemIndex
	}

	s.cart.Items = append(s.cart.Items[:index], s.cart.Items[index+1:]...)
	if len(s.cart.Items) == 0 {
		s.cart = models.EmptyCart()
	} else {
		s.cart.Recompute()
	}

	s.persist()
	return nil
}

// UpdateDeliveryFee applies the server-provided delivery fee for the selected
// address and recomputes the total.
func (s *CartService) UpdateDeliveryFee(fee float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.DeliveryFee = fee
	s.cart.Recompute()
	s.persist()
}

func (s *CartService) UpdateServiceCharge(charge float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.ServiceCharge = charge
	s.cart.Recompute()
	s.persist()
}

func (s *CartService) ApplyDiscount(amount float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Discount = amount
	s.cart.Recompute()
	s.persist()
}

// ClearCart resets to the canonical empty cart regardless of content.
func (s *CartService) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = models.EmptyCart()
	s.persist()
}

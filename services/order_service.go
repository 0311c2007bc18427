package services

import (
	"context"
	"fmt"
	"time"

	"food-delivery-client/api"
	"food-delivery-client/models"
)

// OrderService is the read side: order detail, paginated history, and status
// polling for the tracking view.
type OrderService struct {
	api *api.Client
}

func NewOrderService(client *api.Client) *OrderService {
	return &OrderService{api: client}
}

func (s *OrderService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := s.api.Get(ctx, "/orders/"+id, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *OrderService) ListOrders(ctx context.Context, page, limit int) ([]models.Order, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	var orders []models.Order
	path := fmt.Sprintf("/orders?page=%d&limit=%d", page, limit)
	if err := s.api.Get(ctx, path, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// Track polls the order until it reaches a terminal status or the context is
// cancelled, invoking fn on every status change (including the first read).
func (s *OrderService) Track(ctx context.Context, id string, interval time.Duration, fn func(models.Order)) (*models.Order, error) {
	if interval <= 0 {
		interval = 5 * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	seen := false
	var last models.OrderStatus
	for {
		order, err := s.GetOrder(ctx, id)
		if err != nil {
			return nil, err
		}
		if !seen || order.Status != last {
			seen = true
			last = order.Status
			if fn != nil {
				fn(*order)
			}
		}
		if order.Status.IsTerminal() {
			return order, nil
		}

		select {
		case <-ctx.Done():
			return order, ctx.Err()
		case <-ticker.C:
		}
	}
}

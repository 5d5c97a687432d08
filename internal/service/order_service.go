package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/jeetendra29gupta/pizza-order-api/internal/auth"
	"github.com/jeetendra29gupta/pizza-order-api/internal/cache"
	apperrors "github.com/jeetendra29gupta/pizza-order-api/internal/errors"
	"github.com/jeetendra29gupta/pizza-order-api/internal/model"
	"github.com/jeetendra29gupta/pizza-order-api/internal/queue"
	"github.com/jeetendra29gupta/pizza-order-api/internal/repository"
)

const orderCacheTTL = 5 * time.Minute

// OrderService applies CRUD operations on orders. Every operation takes the
// identity resolved by the auth middleware; existence is checked before the
// authorization policy is consulted.
type OrderService interface {
	Place(ctx context.Context, identity auth.Identity, quantity int, size model.PizzaSize, flavour bool) (*model.Order, error)
	ListAll(ctx context.Context, identity auth.Identity) ([]model.Order, error)
	GetByID(ctx context.Context, identity auth.Identity, id uint) (*model.Order, error)
	ListOwn(ctx context.Context, identity auth.Identity) ([]model.Order, error)
	GetOwn(ctx context.Context, identity auth.Identity, id uint) (*model.Order, error)
	Update(ctx context.Context, identity auth.Identity, id uint, quantity int, size model.PizzaSize, flavour bool) (*model.Order, error)
	UpdateStatus(ctx context.Context, identity auth.Identity, id uint, status model.OrderStatus) (*model.Order, error)
	Delete(ctx context.Context, identity auth.Identity, id uint) error
}

type orderService struct {
	orderRepo repository.OrderRepository
	userRepo  repository.UserRepository
	cache     *cache.Client
	events    queue.EventPublisher
}

// NewOrderService creates a new order service. events may be nil when no
// broker is configured.
func NewOrderService(orderRepo repository.OrderRepository, userRepo repository.UserRepository, cache *cache.Client, events queue.EventPublisher) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		userRepo:  userRepo,
		cache:     cache,
		events:    events,
	}
}

// cachedOrder carries the owner alongside the order because the order's JSON
// shape deliberately omits ownership fields.
type cachedOrder struct {
	Order   model.Order `json:"order"`
	OwnerID uint        `json:"owner_id"`
	Owner   string      `json:"owner"`
}

func (s *orderService) cacheKey(id uint) string {
	return fmt.Sprintf("order:%d", id)
}

// Place creates a pending order owned by the identity.
func (s *orderService) Place(ctx context.Context, identity auth.Identity, quantity int, size model.PizzaSize, flavour bool) (*model.Order, error) {
	if err := auth.Authorize(identity, auth.OpPlaceOrder, identity.Username); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByUsername(ctx, identity.Username)
	if err != nil {
		return nil, apperrors.ErrUnauthenticated
	}

	order := &model.Order{
		UserID:      user.ID,
		Quantity:    quantity,
		PizzaSize:   size,
		Flavour:     flavour,
		OrderStatus: model.OrderStatusPending,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	order.User = *user

	if s.events != nil {
		if err := s.events.OrderPlaced(ctx, queue.OrderPlacedEvent{
			OrderID:   order.ID,
			Username:  user.Username,
			Quantity:  order.Quantity,
			PizzaSize: string(order.PizzaSize),
			Flavour:   order.Flavour,
			PlacedAt:  order.CreatedAt.UTC().Format(time.RFC3339),
		}); err != nil {
			log.Printf("order %d: publish placed event: %v", order.ID, err)
		}
	}

	return order, nil
}

// ListAll lists every order. Staff only.
func (s *orderService) ListAll(ctx context.Context, identity auth.Identity) ([]model.Order, error) {
	if err := auth.Authorize(identity, auth.OpListAllOrders, ""); err != nil {
		return nil, err
	}
	orders, err := s.orderRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// GetByID retrieves any order by id. Staff only.
func (s *orderService) GetByID(ctx context.Context, identity auth.Identity, id uint) (*model.Order, error) {
	order, err := s.getOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.Authorize(identity, auth.OpReadAnyOrder, order.OwnerUsername()); err != nil {
		return nil, err
	}
	return order, nil
}

// ListOwn lists the identity's own orders.
func (s *orderService) ListOwn(ctx context.Context, identity auth.Identity) ([]model.Order, error) {
	if err := auth.Authorize(identity, auth.OpListOwnOrders, identity.Username); err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByUsername(ctx, identity.Username)
	if err != nil {
		return nil, apperrors.ErrUnauthenticated
	}
	orders, err := s.orderRepo.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list user orders: %w", err)
	}
	return orders, nil
}

// GetOwn retrieves one of the identity's own orders by id.
func (s *orderService) GetOwn(ctx context.Context, identity auth.Identity, id uint) (*model.Order, error) {
	order, err := s.getOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.Authorize(identity, auth.OpReadOwnOrder, order.OwnerUsername()); err != nil {
		return nil, err
	}
	return order, nil
}

// Update changes the contents of an order (quantity, size, flavour). Owners
// may update their own orders; status is untouched here.
func (s *orderService) Update(ctx context.Context, identity auth.Identity, id uint, quantity int, size model.PizzaSize, flavour bool) (*model.Order, error) {
	order, err := s.getOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.Authorize(identity, auth.OpUpdateOwnOrder, order.OwnerUsername()); err != nil {
		return nil, err
	}

	order.Quantity = quantity
	order.PizzaSize = size
	order.Flavour = flavour
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return order, nil
}

// UpdateStatus transitions an order's status. Staff only.
func (s *orderService) UpdateStatus(ctx context.Context, identity auth.Identity, id uint, status model.OrderStatus) (*model.Order, error) {
	order, err := s.getOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.Authorize(identity, auth.OpSetOrderStatus, order.OwnerUsername()); err != nil {
		return nil, err
	}

	oldStatus := order.OrderStatus
	if err := s.orderRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	order.OrderStatus = status

	_ = s.cache.Delete(ctx, s.cacheKey(id))

	if s.events != nil {
		if err := s.events.OrderStatusChanged(ctx, queue.OrderStatusChangedEvent{
			OrderID:   order.ID,
			Username:  order.OwnerUsername(),
			OldStatus: string(oldStatus),
			NewStatus: string(status),
			ChangedBy: identity.Username,
			ChangedAt: time.Now().UTC().Format(time.RFC3339),
		}); err != nil {
			log.Printf("order %d: publish status event: %v", order.ID, err)
		}
	}

	return order, nil
}

// Delete removes an order. Staff only.
func (s *orderService) Delete(ctx context.Context, identity auth.Identity, id uint) error {
	order, err := s.getOrder(ctx, id)
	if err != nil {
		return err
	}
	if err := auth.Authorize(identity, auth.OpDeleteOrder, order.OwnerUsername()); err != nil {
		return err
	}

	if err := s.orderRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return nil
}

// getOrder resolves an order by id through the cache, falling back to the
// store. A missing id maps to ErrOrderNotFound.
func (s *orderService) getOrder(ctx context.Context, id uint) (*model.Order, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached cachedOrder
		if err := json.Unmarshal(data, &cached); err == nil {
			order := cached.Order
			order.UserID = cached.OwnerID
			order.User = model.User{ID: cached.OwnerID, Username: cached.Owner}
			return &order, nil
		}
	}

	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}

	if payload, err := json.Marshal(cachedOrder{
		Order:   *order,
		OwnerID: order.UserID,
		Owner:   order.OwnerUsername(),
	}); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, orderCacheTTL)
	}

	return order, nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"

	"eshop-server/database"
	"eshop-server/models"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	// ErrInvalidProduct marks a cart line whose product reference is
	// malformed or resolves to nothing; handlers report it as a client
	// error, not a store failure.
	ErrInvalidProduct = errors.New("invalid product reference")
)

// Store interfaces are satisfied by the database package; tests substitute
// in-memory implementations.
type OrderStore interface {
	Insert(ctx context.Context, order *models.Order) (*models.Order, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	List(ctx context.Context) ([]models.Order, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Order, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context) (int64, error)
	TotalSales(ctx context.Context) (float64, error)
}

type OrderItemStore interface {
	Create(ctx context.Context, item *models.OrderItem) (primitive.ObjectID, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.OrderItem, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type ProductReader interface {
	Get(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
}

type UserReader interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

type EventPublisher interface {
	PublishOrderEvent(orderID string, priority int, eventType string) error
	PublishDelayedEvent(orderID string, delay time.Duration, eventType string) error
}

type OrderService struct {
	orders   OrderStore
	items    OrderItemStore
	products ProductReader
	users    UserReader
	events   EventPublisher // nil when no broker is configured
}

func NewOrderService(orders OrderStore, items OrderItemStore, products ProductReader, users UserReader, events EventPublisher) *OrderService {
	return &OrderService{
		orders:   orders,
		items:    items,
		products: products,
		users:    users,
		events:   events,
	}
}

// CreateOrder persists one order item per cart line, prices each line from
// the current product price, and writes the order referencing the created
// items with the summed total. The stored total is a snapshot: later price
// changes never alter it.
//
// Cart lines carry no ordering dependency, so item creation and price
// resolution fan out concurrently; the first failure cancels the rest. The
// item and order writes are not covered by one transaction, so a failure
// after items were persisted compensates by deleting them again.
func (s *OrderService) CreateOrder(ctx context.Context, req models.OrderRequest, userID primitive.ObjectID) (*models.Order, error) {
	itemIDs := make([]primitive.ObjectID, len(req.OrderItems))
	lineTotals := make([]float64, len(req.OrderItems))

	g, gctx := errgroup.WithContext(ctx)
	for i, line := range req.OrderItems {
		i, line := i, line
		g.Go(func() error {
			productID, err := primitive.ObjectIDFromHex(line.Product)
			if err != nil {
				return fmt.Errorf("%w: malformed id %q", ErrInvalidProduct, line.Product)
			}

			id, err := s.items.Create(gctx, &models.OrderItem{
				Quantity:  line.Quantity,
				ProductID: productID,
			})
			if err != nil {
				return fmt.Errorf("create order item: %w", err)
			}
			itemIDs[i] = id

			product, err := s.products.Get(gctx, productID)
			if errors.Is(err, database.ErrNotFound) {
				return fmt.Errorf("%w: no product %s", ErrInvalidProduct, line.Product)
			}
			if err != nil {
				return fmt.Errorf("resolve price for product %s: %w", line.Product, err)
			}
			lineTotals[i] = float64(line.Quantity) * product.Price
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.compensateItems(itemIDs)
		return nil, err
	}

	var total float64
	for _, t := range lineTotals {
		total += t
	}

	order := &models.Order{
		OrderItemIDs:     itemIDs,
		ShippingAddress1: req.ShippingAddress1,
		ShippingAddress2: req.ShippingAddress2,
		City:             req.City,
		Zip:              req.Zip,
		Country:          req.Country,
		Phone:            req.Phone,
		Status:           "Pending",
		TotalPrice:       total,
		UserID:           userID,
		CreatedAt:        time.Now(),
	}
	created, err := s.orders.Insert(ctx, order)
	if err != nil {
		s.compensateItems(itemIDs)
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.publishCreated(created)
	return created, nil
}

// compensateItems rolls back order items that were persisted before the
// workflow failed. Best effort: a failed delete is logged once, not retried.
func (s *OrderService) compensateItems(itemIDs []primitive.ObjectID) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, id := range itemIDs {
		if id.IsZero() {
			continue
		}
		if err := s.items.Delete(ctx, id); err != nil {
			log.Printf("Failed to roll back order item %s: %v", id.Hex(), err)
		}
	}
}

func (s *OrderService) publishCreated(order *models.Order) {
	if s.events == nil {
		return
	}
	priority := 5
	if order.TotalPrice > 1000 { // large orders jump the queue
		priority = 9
	}
	if err := s.events.PublishOrderEvent(order.ID.Hex(), priority, "created"); err != nil {
		log.Printf("Failed to publish order created event: %v", err)
	}
	if err := s.events.PublishDelayedEvent(order.ID.Hex(), 15*time.Minute, "payment_check"); err != nil {
		log.Printf("Failed to publish delayed payment check event: %v", err)
	}
}

// GetOrder resolves the referenced items, their products, and the buyer's
// name before returning. A dangling reference leaves the slot unresolved
// rather than failing the read.
func (s *OrderService) GetOrder(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	order, err := s.orders.Get(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	for _, itemID := range order.OrderItemIDs {
		item, err := s.items.Get(ctx, itemID)
		if err != nil {
			log.Printf("Order %s references missing item %s", id.Hex(), itemID.Hex())
			continue
		}
		if product, err := s.products.Get(ctx, item.ProductID); err == nil {
			item.Product = product
		}
		order.Items = append(order.Items, *item)
	}

	s.resolveUserName(ctx, order)
	return order, nil
}

func (s *OrderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		s.resolveUserName(ctx, &orders[i])
	}
	return orders, nil
}

func (s *OrderService) ListUserOrders(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

func (s *OrderService) resolveUserName(ctx context.Context, order *models.Order) {
	// order.user is not validated at creation, so a missing user is expected
	if user, err := s.users.GetByID(ctx, order.UserID); err == nil {
		order.UserName = user.Name
	}
}

func (s *OrderService) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Order, error) {
	order, err := s.orders.UpdateStatus(ctx, id, status)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}

	if s.events != nil {
		priority := 5
		if order.Status == "Cancelled" {
			priority = 8
		}
		if err := s.events.PublishOrderEvent(order.ID.Hex(), priority, "status_updated"); err != nil {
			log.Printf("Failed to publish order updated event: %v", err)
		}
	}
	return order, nil
}

// DeleteOrder removes the order, then its items. The cascade is best
// effort: an item that is already gone does not fail the deletion.
func (s *OrderService) DeleteOrder(ctx context.Context, id primitive.ObjectID) error {
	order, err := s.orders.Get(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return ErrOrderNotFound
	}
	if err != nil {
		return err
	}

	if err := s.orders.Delete(ctx, id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return ErrOrderNotFound
		}
		return err
	}

	for _, itemID := range order.OrderItemIDs {
		if err := s.items.Delete(ctx, itemID); err != nil {
			log.Printf("Failed to delete order item %s of order %s: %v", itemID.Hex(), id.Hex(), err)
		}
	}
	return nil
}

func (s *OrderService) CountOrders(ctx context.Context) (int64, error) {
	return s.orders.Count(ctx)
}

func (s *OrderService) TotalSales(ctx context.Context) (float64, error) {
	return s.orders.TotalSales(ctx)
}

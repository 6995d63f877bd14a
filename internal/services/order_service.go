package services

import (
	"context"
	"fmt"
	"log"

	"butik/internal/models"
	"butik/internal/repositories"
)

// OrderEventPublisher publishes order lifecycle events to the message
// broker. It is optional; a nil publisher disables event publication.
type OrderEventPublisher interface {
	PublishOrderCreated(event map[string]interface{}) error
}

// OrderService handles business logic related to orders.
type OrderService struct {
	orderRepo    repositories.OrderRepository
	productRepo  repositories.ProductRepository
	stockService *StockService
	publisher    OrderEventPublisher
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository, stockService *StockService, publisher OrderEventPublisher) *OrderService {
	return &OrderService{
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		stockService: stockService,
		publisher:    publisher,
	}
}

// ListOrders retrieves all orders placed by a user.
func (s *OrderService) ListOrders(ctx context.Context, userID string) ([]models.Order, error) {
	return s.orderRepo.ListByUser(ctx, userID)
}

// GetOrderByID retrieves a single order by its ID.
func (s *OrderService) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	return s.orderRepo.GetByID(ctx, id)
}

// Checkout verifies stock for every line, decrements it, and creates the
// order. A non-empty rejection list means some lines failed verification;
// in that case no stock was mutated and no order was created.
func (s *OrderService) Checkout(ctx context.Context, userID string, lines []models.OrderLine) (*models.Order, []StockRejection, error) {
	rejections, err := s.stockService.ReconcileOrder(ctx, lines)
	if err != nil {
		return nil, nil, err
	}
	if len(rejections) > 0 {
		return nil, rejections, nil
	}

	var totalAmount float64
	priced := make([]models.OrderLine, 0, len(lines))
	for _, line := range lines {
		product, err := s.productRepo.GetByID(ctx, line.ProductID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to price order line for product %s: %w", line.ProductID, err)
		}
		line.Price = product.EffectivePrice()
		totalAmount += line.Price * float64(line.Qty)
		priced = append(priced, line)
	}

	order := &models.Order{
		UserID:      userID,
		Lines:       priced,
		TotalAmount: totalAmount,
		Status:      "pending",
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, nil, fmt.Errorf("failed to create order in repository: %w", err)
	}

	if s.publisher != nil {
		event := map[string]interface{}{
			"orderID": order.ID,
			"userID":  order.UserID,
			"status":  order.Status,
			"total":   order.TotalAmount,
		}
		if err := s.publisher.PublishOrderCreated(event); err != nil {
			log.Printf("Warning: Failed to publish order created event for order %s: %v", order.ID, err)
		}
	}

	return order, nil, nil
}

// UpdateOrderStatus updates the status of an existing order.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id string, status string) error {
	validStatuses := map[string]bool{"pending": true, "processing": true, "shipped": true, "delivered": true, "cancelled": true}
	if !validStatuses[status] {
		return fmt.Errorf("invalid order status: %s", status)
	}

	if err := s.orderRepo.UpdateStatus(ctx, id, status); err != nil {
		return fmt.Errorf("failed to update order status for order %s: %w", id, err)
	}
	return nil
}

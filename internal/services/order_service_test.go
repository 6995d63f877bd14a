package services_test

import (
	"context"
	"sync"
	"testing"

	"butik/internal/models"
	"butik/internal/repositories"
	"butik/internal/services"

	"github.com/stretchr/testify/assert"
)

// fakePublisher records published order events.
type fakePublisher struct {
	mu     sync.Mutex
	events []map[string]interface{}
}

func (f *fakePublisher) PublishOrderCreated(event map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

func newOrderService() (*services.OrderService, *repositories.MockProductRepository, *repositories.MockOrderRepository, *fakePublisher) {
	productRepo := repositories.NewMockProductRepository()
	orderRepo := repositories.NewMockOrderRepository()
	publisher := &fakePublisher{}
	stockService := services.NewStockService(productRepo)
	svc := services.NewOrderService(orderRepo, productRepo, stockService, publisher)
	return svc, productRepo, orderRepo, publisher
}

func TestOrderService_Checkout_Success(t *testing.T) {
	svc, productRepo, orderRepo, publisher := newOrderService()
	ctx := context.Background()

	err := productRepo.Create(ctx, &models.Product{
		ID: "P3", SKU: "SKU-3", Name: "Chinos", Price: 60, SalePrice: 45, RealPrice: 45,
		Stock: map[string]int{"L": 5},
	})
	assert.NoError(t, err)

	order, rejections, err := svc.Checkout(ctx, "user-1", []models.OrderLine{
		{ProductID: "P3", Size: "L", Qty: 2},
	})

	assert.NoError(t, err)
	assert.Empty(t, rejections)
	assert.NotNil(t, order)
	assert.Equal(t, "pending", order.Status)
	assert.Equal(t, 90.0, order.TotalAmount) // 2 * sale price 45
	assert.Equal(t, 45.0, order.Lines[0].Price)

	// Stock was decremented and the order persisted.
	product, err := productRepo.GetByID(ctx, "P3")
	assert.NoError(t, err)
	assert.Equal(t, 3, product.Stock["L"])

	stored, err := orderRepo.GetByID(ctx, order.ID)
	assert.NoError(t, err)
	assert.Equal(t, "user-1", stored.UserID)

	assert.Len(t, publisher.events, 1)
	assert.Equal(t, order.ID, publisher.events[0]["orderID"])
}

func TestOrderService_Checkout_RejectionCommitsNothing(t *testing.T) {
	svc, productRepo, orderRepo, publisher := newOrderService()
	ctx := context.Background()

	err := productRepo.Create(ctx, &models.Product{
		ID: "P2", SKU: "SKU-2", Name: "Denim Jacket", Price: 80,
		Stock: map[string]int{"M": 3},
	})
	assert.NoError(t, err)
	err = productRepo.Create(ctx, &models.Product{
		ID: "P3", SKU: "SKU-3", Name: "Chinos", Price: 60,
		Stock: map[string]int{"L": 5},
	})
	assert.NoError(t, err)

	order, rejections, err := svc.Checkout(ctx, "user-1", []models.OrderLine{
		{ProductID: "P3", Size: "L", Qty: 2},
		{ProductID: "P2", Size: "M", Qty: 5},
	})

	assert.NoError(t, err)
	assert.Nil(t, order)
	assert.Len(t, rejections, 1)
	assert.Equal(t, "Denim Jacket M size is out of stock", rejections[0].Message)

	// Every product retains its pre-call stock.
	p2, _ := productRepo.GetByID(ctx, "P2")
	p3, _ := productRepo.GetByID(ctx, "P3")
	assert.Equal(t, 3, p2.Stock["M"])
	assert.Equal(t, 5, p3.Stock["L"])

	orders, err := orderRepo.ListByUser(ctx, "user-1")
	assert.NoError(t, err)
	assert.Empty(t, orders)
	assert.Empty(t, publisher.events)
}

func TestOrderService_Checkout_MissingProduct(t *testing.T) {
	svc, _, _, publisher := newOrderService()

	order, rejections, err := svc.Checkout(context.Background(), "user-1", []models.OrderLine{
		{ProductID: "ghost", Size: "M", Qty: 1},
	})

	assert.ErrorIs(t, err, repositories.ErrProductNotFound)
	assert.Nil(t, order)
	assert.Empty(t, rejections)
	assert.Empty(t, publisher.events)
}

func TestOrderService_UpdateOrderStatus(t *testing.T) {
	svc, _, orderRepo, _ := newOrderService()
	ctx := context.Background()

	order := &models.Order{UserID: "user-1", Status: "pending"}
	err := orderRepo.Create(ctx, order)
	assert.NoError(t, err)

	err = svc.UpdateOrderStatus(ctx, order.ID, "shipped")
	assert.NoError(t, err)

	stored, err := orderRepo.GetByID(ctx, order.ID)
	assert.NoError(t, err)
	assert.Equal(t, "shipped", stored.Status)

	// Unknown status is refused before hitting the repository.
	err = svc.UpdateOrderStatus(ctx, order.ID, "teleported")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid order status")

	// Unknown order
	err = svc.UpdateOrderStatus(ctx, "no-such-order", "shipped")
	assert.ErrorIs(t, err, repositories.ErrOrderNotFound)
}

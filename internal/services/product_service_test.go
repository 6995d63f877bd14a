package services_test

import (
	"context"
	"fmt"
	"testing"

	"butik/internal/models"
	"butik/internal/repositories"
	"butik/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockProductRepository is a mock implementation of repositories.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) List(ctx context.Context, filter repositories.ProductFilter) ([]models.Product, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	// A real repository decodes a fresh document per call; hand out a copy
	// so callers mutating the snapshot cannot affect other calls.
	product := *args.Get(0).(*models.Product)
	if product.Stock != nil {
		stock := make(map[string]int, len(product.Stock))
		for size, qty := range product.Stock {
			stock[size] = qty
		}
		product.Stock = stock
	}
	return &product, args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) UpdateStockBulk(ctx context.Context, products []*models.Product) error {
	args := m.Called(ctx, products)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestProductService_ListProducts(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo)

	expectedProducts := []models.Product{
		{ID: "1", Name: "Wool Coat", Price: 120.0, Stock: map[string]int{"M": 4}},
		{ID: "2", Name: "Rain Jacket", Price: 80.0, Stock: map[string]int{"L": 2}},
	}
	filter := repositories.ProductFilter{Page: 1, Limit: 10}

	mockRepo.On("List", mock.Anything, filter).Return(expectedProducts, int64(25), nil).Once()

	result, err := service.ListProducts(context.Background(), filter)

	assert.NoError(t, err)
	assert.Len(t, result.Products, 2)
	assert.Equal(t, int64(25), result.Total)
	assert.Equal(t, int64(3), result.TotalPages)
	assert.Equal(t, int64(1), result.Page)
	mockRepo.AssertExpectations(t)
}

func TestProductService_GetProductByID(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo)

	expectedProduct := &models.Product{ID: "1", Name: "Wool Coat", Price: 120.0}

	// Test successful retrieval
	mockRepo.On("GetByID", mock.Anything, "1").Return(expectedProduct, nil).Once()
	product, err := service.GetProductByID(context.Background(), "1")
	assert.NoError(t, err)
	assert.Equal(t, expectedProduct, product)
	mockRepo.AssertExpectations(t)

	// Test product not found
	mockRepo.On("GetByID", mock.Anything, "99").Return(nil, repositories.ErrProductNotFound).Once()
	product, err = service.GetProductByID(context.Background(), "99")
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)
	assert.Nil(t, product)
	mockRepo.AssertExpectations(t)
}

func TestProductService_CreateProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo)

	newProduct := &models.Product{Name: "Linen Shirt", Price: 50.0, SalePrice: 40.0}

	mockRepo.On("Create", mock.Anything, newProduct).Return(nil).Once()
	err := service.CreateProduct(context.Background(), newProduct)
	assert.NoError(t, err)
	assert.Equal(t, 40.0, newProduct.RealPrice)
	assert.Equal(t, 20.0, newProduct.SaleRate)
	assert.Equal(t, "active", newProduct.Status)
	assert.NotNil(t, newProduct.Stock)
	mockRepo.AssertExpectations(t)

	// Test creation failure (e.g., database error)
	failing := &models.Product{Name: "Broken", Price: 1.0}
	mockRepo.On("Create", mock.Anything, failing).Return(fmt.Errorf("database error")).Once()
	err = service.CreateProduct(context.Background(), failing)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "database error")
	mockRepo.AssertExpectations(t)
}

func TestProductService_UpdateProduct_RecomputesSaleRate(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo)

	updated := &models.Product{ID: "1", Name: "Wool Coat", Price: 90.0, SalePrice: 60.0}

	mockRepo.On("Update", mock.Anything, updated).Return(nil).Once()
	err := service.UpdateProduct(context.Background(), updated)
	assert.NoError(t, err)
	assert.Equal(t, 60.0, updated.RealPrice)
	assert.Equal(t, 33.3, updated.SaleRate) // (90-60)/90*100 rounded to one decimal
	mockRepo.AssertExpectations(t)

	// Clearing the sale price clears the derived fields
	noSale := &models.Product{ID: "1", Name: "Wool Coat", Price: 90.0}
	mockRepo.On("Update", mock.Anything, noSale).Return(nil).Once()
	err = service.UpdateProduct(context.Background(), noSale)
	assert.NoError(t, err)
	assert.Equal(t, 90.0, noSale.RealPrice)
	assert.Equal(t, 0.0, noSale.SaleRate)
	mockRepo.AssertExpectations(t)
}

func TestProductService_DeleteProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo)

	mockRepo.On("Delete", mock.Anything, "1").Return(nil).Once()
	err := service.DeleteProduct(context.Background(), "1")
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)

	mockRepo.On("Delete", mock.Anything, "99").Return(repositories.ErrProductNotFound).Once()
	err = service.DeleteProduct(context.Background(), "99")
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)
	mockRepo.AssertExpectations(t)
}

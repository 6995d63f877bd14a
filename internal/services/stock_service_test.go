package services_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"butik/internal/models"
	"butik/internal/repositories"
	"butik/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// stalledProductRepository blocks every load until the caller's context
// expires.
type stalledProductRepository struct {
	bulkCalls int32
}

func (r *stalledProductRepository) List(ctx context.Context, filter repositories.ProductFilter) ([]models.Product, int64, error) {
	return nil, 0, nil
}

func (r *stalledProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (r *stalledProductRepository) Create(ctx context.Context, product *models.Product) error {
	return nil
}

func (r *stalledProductRepository) Update(ctx context.Context, product *models.Product) error {
	return nil
}

func (r *stalledProductRepository) UpdateStockBulk(ctx context.Context, products []*models.Product) error {
	atomic.AddInt32(&r.bulkCalls, 1)
	return nil
}

func (r *stalledProductRepository) Delete(ctx context.Context, id string) error {
	return nil
}

func TestStockService_VerifyLine_InsufficientStock(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewStockService(mockRepo)

	product := &models.Product{ID: "P2", Name: "Denim Jacket", Stock: map[string]int{"M": 3}}
	mockRepo.On("GetByID", mock.Anything, "P2").Return(product, nil).Once()

	updated, rejection, err := service.VerifyLine(context.Background(), models.OrderLine{
		ProductID: "P2", Size: "M", Qty: 5,
	})

	assert.NoError(t, err)
	assert.Nil(t, updated)
	assert.NotNil(t, rejection)
	assert.Equal(t, "Denim Jacket M size is out of stock", rejection.Message)
	assert.Equal(t, "P2", rejection.ProductID)
	mockRepo.AssertExpectations(t)
	mockRepo.AssertNotCalled(t, "UpdateStockBulk", mock.Anything, mock.Anything)
}

func TestStockService_VerifyLine_Success(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewStockService(mockRepo)

	original := map[string]int{"L": 5, "M": 2}
	product := &models.Product{ID: "P3", Name: "Chinos", Stock: original}
	mockRepo.On("GetByID", mock.Anything, "P3").Return(product, nil).Once()

	updated, rejection, err := service.VerifyLine(context.Background(), models.OrderLine{
		ProductID: "P3", Size: "L", Qty: 2,
	})

	assert.NoError(t, err)
	assert.Nil(t, rejection)
	assert.NotNil(t, updated)
	assert.Equal(t, 3, updated.Stock["L"])
	assert.Equal(t, 2, updated.Stock["M"]) // untouched sizes carried over
	assert.Equal(t, 5, original["L"])      // loaded snapshot's map not mutated
	mockRepo.AssertExpectations(t)
}

func TestStockService_VerifyLine_MissingSizeTreatedAsZero(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewStockService(mockRepo)

	product := &models.Product{ID: "P1", Name: "Cardigan", Stock: map[string]int{"S": 4}}
	mockRepo.On("GetByID", mock.Anything, "P1").Return(product, nil).Once()

	updated, rejection, err := service.VerifyLine(context.Background(), models.OrderLine{
		ProductID: "P1", Size: "XL", Qty: 1,
	})

	assert.NoError(t, err)
	assert.Nil(t, updated)
	assert.NotNil(t, rejection)
	assert.Equal(t, "Cardigan XL size is out of stock", rejection.Message)
	mockRepo.AssertExpectations(t)
}

func TestStockService_VerifyLine_NonPositiveQty(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewStockService(mockRepo)

	for _, qty := range []int{0, -2} {
		updated, rejection, err := service.VerifyLine(context.Background(), models.OrderLine{
			ProductID: "P1", Size: "M", Qty: qty,
		})
		assert.NoError(t, err)
		assert.Nil(t, updated)
		assert.NotNil(t, rejection)
		assert.Contains(t, rejection.Message, "invalid quantity")
	}
	// Invalid input never reaches the repository
	mockRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestStockService_VerifyLine_ProductNotFound(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewStockService(mockRepo)

	mockRepo.On("GetByID", mock.Anything, "missing").Return(nil, repositories.ErrProductNotFound).Once()

	updated, rejection, err := service.VerifyLine(context.Background(), models.OrderLine{
		ProductID: "missing", Size: "M", Qty: 1,
	})

	assert.ErrorIs(t, err, repositories.ErrProductNotFound)
	assert.Nil(t, updated)
	assert.Nil(t, rejection)
	mockRepo.AssertExpectations(t)
}

func TestStockService_ReconcileOrder_AllLinesPass(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewStockService(mockRepo)

	mockRepo.On("GetByID", mock.Anything, "P3").
		Return(&models.Product{ID: "P3", Name: "Chinos", Stock: map[string]int{"L": 5}}, nil).Once()
	mockRepo.On("GetByID", mock.Anything, "P4").
		Return(&models.Product{ID: "P4", Name: "Parka", Stock: map[string]int{"S": 2}}, nil).Once()

	mockRepo.On("UpdateStockBulk", mock.Anything, mock.MatchedBy(func(products []*models.Product) bool {
		if len(products) != 2 {
			return false
		}
		stocks := map[string]int{}
		for _, p := range products {
			switch p.ID {
			case "P3":
				stocks["P3"] = p.Stock["L"]
			case "P4":
				stocks["P4"] = p.Stock["S"]
			}
		}
		return stocks["P3"] == 3 && stocks["P4"] == 1
	})).Return(nil).Once()

	rejections, err := service.ReconcileOrder(context.Background(), []models.OrderLine{
		{ProductID: "P3", Size: "L", Qty: 2},
		{ProductID: "P4", Size: "S", Qty: 1},
	})

	assert.NoError(t, err)
	assert.Empty(t, rejections)
	mockRepo.AssertExpectations(t)
}

func TestStockService_ReconcileOrder_OneLineFails_NothingCommitted(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewStockService(mockRepo)

	mockRepo.On("GetByID", mock.Anything, "P3").
		Return(&models.Product{ID: "P3", Name: "Chinos", Stock: map[string]int{"L": 5}}, nil).Once()
	mockRepo.On("GetByID", mock.Anything, "P2").
		Return(&models.Product{ID: "P2", Name: "Denim Jacket", Stock: map[string]int{"M": 3}}, nil).Once()

	rejections, err := service.ReconcileOrder(context.Background(), []models.OrderLine{
		{ProductID: "P3", Size: "L", Qty: 2},
		{ProductID: "P2", Size: "M", Qty: 5},
	})

	assert.NoError(t, err)
	assert.Len(t, rejections, 1)
	assert.Equal(t, "P2", rejections[0].ProductID)
	assert.Equal(t, "Denim Jacket M size is out of stock", rejections[0].Message)
	mockRepo.AssertNotCalled(t, "UpdateStockBulk", mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestStockService_ReconcileOrder_AggregatesSameProductAndSize(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewStockService(mockRepo)

	// 3 + 3 for the same product+size must be checked as 6 against stock 5,
	// not as two independent checks of 3.
	mockRepo.On("GetByID", mock.Anything, "P5").
		Return(&models.Product{ID: "P5", Name: "Hoodie", Stock: map[string]int{"M": 5}}, nil).Once()

	rejections, err := service.ReconcileOrder(context.Background(), []models.OrderLine{
		{ProductID: "P5", Size: "M", Qty: 3},
		{ProductID: "P5", Size: "M", Qty: 3},
	})

	assert.NoError(t, err)
	assert.Len(t, rejections, 1)
	assert.Equal(t, 6, rejections[0].Qty)
	mockRepo.AssertNotCalled(t, "UpdateStockBulk", mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestStockService_ReconcileOrder_AggregatedLinesCommitOnce(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewStockService(mockRepo)

	// Same product, different sizes stays two aggregated lines, each
	// verified against its own loaded snapshot. Both snapshots are handed
	// to the bulk commit.
	mockRepo.On("GetByID", mock.Anything, "P6").
		Return(&models.Product{ID: "P6", Name: "Blazer", Stock: map[string]int{"M": 4, "L": 4}}, nil).Twice()
	mockRepo.On("UpdateStockBulk", mock.Anything, mock.MatchedBy(func(products []*models.Product) bool {
		return len(products) == 2
	})).Return(nil).Once()

	rejections, err := service.ReconcileOrder(context.Background(), []models.OrderLine{
		{ProductID: "P6", Size: "M", Qty: 1},
		{ProductID: "P6", Size: "L", Qty: 2},
	})

	assert.NoError(t, err)
	assert.Empty(t, rejections)
	mockRepo.AssertExpectations(t)
}

func TestStockService_ReconcileOrder_LineTimeout(t *testing.T) {
	repo := &stalledProductRepository{}
	service := services.NewStockService(repo)
	service.LineTimeout = 20 * time.Millisecond

	var rejections []services.StockRejection
	var err error
	done := make(chan struct{})
	go func() {
		defer close(done)
		rejections, err = service.ReconcileOrder(context.Background(), []models.OrderLine{
			{ProductID: "P1", Size: "M", Qty: 1},
		})
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("reconciliation did not return after the line timeout")
	}

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Nil(t, rejections)
	assert.Zero(t, atomic.LoadInt32(&repo.bulkCalls))
}

func TestStockService_ReconcileOrder_StorageErrorPropagates(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewStockService(mockRepo)

	storageErr := errors.New("connection reset by peer")
	mockRepo.On("GetByID", mock.Anything, "P3").
		Return(&models.Product{ID: "P3", Name: "Chinos", Stock: map[string]int{"L": 5}}, nil).Once()
	mockRepo.On("GetByID", mock.Anything, "P7").Return(nil, storageErr).Once()

	rejections, err := service.ReconcileOrder(context.Background(), []models.OrderLine{
		{ProductID: "P3", Size: "L", Qty: 1},
		{ProductID: "P7", Size: "M", Qty: 1},
	})

	assert.ErrorIs(t, err, storageErr)
	assert.Nil(t, rejections)
	mockRepo.AssertNotCalled(t, "UpdateStockBulk", mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestStockService_ReconcileOrder_EmptyOrder(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewStockService(mockRepo)

	rejections, err := service.ReconcileOrder(context.Background(), nil)

	assert.NoError(t, err)
	assert.Empty(t, rejections)
	mockRepo.AssertNotCalled(t, "UpdateStockBulk", mock.Anything, mock.Anything)
}

package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"butik/internal/models"
	"butik/internal/repositories"
)

// StockRejection reports one order line that failed stock verification.
type StockRejection struct {
	ProductID string `json:"product_id"`
	Size      string `json:"size"`
	Qty       int    `json:"qty"`
	Message   string `json:"message"`
}

// StockService verifies and decrements per-size stock at order time.
type StockService struct {
	productRepo repositories.ProductRepository

	// LineTimeout bounds each aggregated line's load+verify during
	// reconciliation. Set before first use.
	LineTimeout time.Duration
}

// NewStockService creates a new StockService.
func NewStockService(productRepo repositories.ProductRepository) *StockService {
	return &StockService{
		productRepo: productRepo,
		LineTimeout: 5 * time.Second,
	}
}

// VerifyLine checks one order line against the current stock of its
// product. On success it returns an in-memory copy of the product whose
// stock mapping has the requested quantity already subtracted for that
// size. Nothing is committed; the caller decides.
//
// A missing size label counts as zero stock. A non-positive quantity is
// invalid input and rejects the line.
func (s *StockService) VerifyLine(ctx context.Context, line models.OrderLine) (*models.Product, *StockRejection, error) {
	if line.Qty <= 0 {
		return nil, &StockRejection{
			ProductID: line.ProductID,
			Size:      line.Size,
			Qty:       line.Qty,
			Message:   fmt.Sprintf("invalid quantity %d for product %s", line.Qty, line.ProductID),
		}, nil
	}

	product, err := s.productRepo.GetByID(ctx, line.ProductID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load product %s: %w", line.ProductID, err)
	}

	available := product.Stock[line.Size]
	if available < line.Qty {
		return nil, &StockRejection{
			ProductID: line.ProductID,
			Size:      line.Size,
			Qty:       line.Qty,
			Message:   fmt.Sprintf("%s %s size is out of stock", product.Name, line.Size),
		}, nil
	}

	newStock := make(map[string]int, len(product.Stock))
	for size, qty := range product.Stock {
		newStock[size] = qty
	}
	newStock[line.Size] = available - line.Qty
	product.Stock = newStock

	return product, nil, nil
}

// ReconcileOrder verifies every line of an order and, only if all of them
// pass, commits the decremented stock snapshots. A non-empty return value
// lists the lines that failed; in that case no stock is mutated.
//
// Lines referencing the same product and size are aggregated before
// verification, so their combined quantity is checked once against the
// available stock. Each aggregated line is then verified concurrently
// against its own loaded snapshot, under a bounded per-line timeout.
func (s *StockService) ReconcileOrder(ctx context.Context, lines []models.OrderLine) ([]StockRejection, error) {
	aggregated := aggregateLines(lines)
	if len(aggregated) == 0 {
		return nil, nil
	}

	type lineResult struct {
		product   *models.Product
		rejection *StockRejection
		err       error
	}

	results := make([]lineResult, len(aggregated))

	var wg sync.WaitGroup
	for i, line := range aggregated {
		wg.Add(1)
		go func(i int, line models.OrderLine) {
			defer wg.Done()

			lineCtx, cancel := context.WithTimeout(ctx, s.LineTimeout)
			defer cancel()

			product, rejection, err := s.VerifyLine(lineCtx, line)
			results[i] = lineResult{product: product, rejection: rejection, err: err}
		}(i, line)
	}
	wg.Wait()

	var rejections []StockRejection
	var verified []*models.Product
	for _, res := range results {
		if res.err != nil {
			return nil, res.err
		}
		if res.rejection != nil {
			rejections = append(rejections, *res.rejection)
			continue
		}
		verified = append(verified, res.product)
	}

	if len(rejections) > 0 {
		return rejections, nil
	}

	if err := s.productRepo.UpdateStockBulk(ctx, verified); err != nil {
		return nil, fmt.Errorf("failed to commit stock decrements: %w", err)
	}
	return nil, nil
}

// aggregateLines sums requested quantities by product+size, preserving
// the order in which each key first appears.
func aggregateLines(lines []models.OrderLine) []models.OrderLine {
	index := make(map[string]int, len(lines))
	var aggregated []models.OrderLine

	for _, line := range lines {
		key := models.CartItemKey(line.ProductID, line.Size)
		if i, ok := index[key]; ok {
			aggregated[i].Qty += line.Qty
			continue
		}
		index[key] = len(aggregated)
		aggregated = append(aggregated, line)
	}
	return aggregated
}

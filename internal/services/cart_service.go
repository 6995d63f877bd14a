package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"butik/internal/cache"
	"butik/internal/models"
	"butik/internal/repositories"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// ErrDuplicateCartItem is returned when an item update would collide with
// another item's product+size key.
var ErrDuplicateCartItem = errors.New("an item with this product and size is already in the cart")

// CartMergeResult is the outcome of merging a batch of items into a cart.
// A non-empty Duplicates list means the whole batch was rejected and the
// cart is unchanged.
type CartMergeResult struct {
	Duplicates []string     `json:"duplicates,omitempty"`
	Cart       *models.Cart `json:"cart,omitempty"`
	ItemCount  int          `json:"item_count"`
}

// CartItemDetail is a cart item joined with its product document.
type CartItemDetail struct {
	ID      string          `json:"_id"`
	Product *models.Product `json:"product"`
	Size    string          `json:"size"`
	Qty     int             `json:"qty"`
}

// CartService handles business logic related to carts.
type CartService struct {
	cartRepo    repositories.CartRepository
	productRepo repositories.ProductRepository
	cache       cache.CartCache
	sfg         singleflight.Group // collapses concurrent cache misses per user
}

// NewCartService creates a new CartService.
func NewCartService(cartRepo repositories.CartRepository, productRepo repositories.ProductRepository, cartCache cache.CartCache) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		cache:       cartCache,
	}
}

// AddItems merges a batch of incoming items into the user's cart. Each
// item is keyed by productId + "_" + size; an incoming item whose key is
// already present in the cart, or repeated within the batch itself, is a
// duplicate. If any duplicate exists the whole batch is rejected and the
// cart stays as it was; otherwise every item is appended and persisted.
func (s *CartService) AddItems(ctx context.Context, userID string, items []models.CartItem) (*CartMergeResult, error) {
	cart, err := s.cartRepo.GetByUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, repositories.ErrCartNotFound) {
			return nil, fmt.Errorf("failed to load cart: %w", err)
		}
		cart = &models.Cart{UserID: userID}
	}

	existing := make(map[string]bool, len(cart.Items))
	for _, item := range cart.Items {
		existing[item.CartItemID] = true
	}

	var duplicates []string
	var toAdd []models.CartItem
	seen := make(map[string]bool, len(items))

	for _, item := range items {
		key := models.CartItemKey(item.ProductID, item.Size)
		if existing[key] || seen[key] {
			duplicates = append(duplicates, item.ProductID)
			continue
		}
		seen[key] = true

		item.ID = uuid.New().String()
		item.CartItemID = key
		toAdd = append(toAdd, item)
	}

	if len(duplicates) > 0 {
		return &CartMergeResult{
			Duplicates: duplicates,
			ItemCount:  len(cart.Items),
		}, nil
	}

	cart.Items = append(cart.Items, toAdd...)
	if err := s.cartRepo.Upsert(ctx, cart); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}
	s.invalidateCache(userID)

	return &CartMergeResult{
		Cart:      cart,
		ItemCount: len(cart.Items),
	}, nil
}

// GetCart returns the user's cart, reading through the cache. Concurrent
// misses for the same user are collapsed into one repository load.
func (s *CartService) GetCart(ctx context.Context, userID string) (*models.Cart, error) {
	v, err, _ := s.sfg.Do(userID, func() (interface{}, error) {
		cart, err := s.cache.Get(ctx, userID)
		if err == nil {
			return cart, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("cache get error for user %s: %v", userID, err)
		}

		cart, err = s.cartRepo.GetByUser(ctx, userID)
		if err != nil {
			return nil, err
		}

		go func() {
			if err := s.cache.Set(context.Background(), userID, cart); err != nil {
				log.Printf("cache set error for user %s: %v", userID, err)
			}
		}()

		return cart, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.Cart), nil
}

// GetCartDetail returns the user's cart items joined with their product
// documents.
func (s *CartService) GetCartDetail(ctx context.Context, userID string) ([]CartItemDetail, error) {
	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	details := make([]CartItemDetail, 0, len(cart.Items))
	for _, item := range cart.Items {
		product, err := s.productRepo.GetByID(ctx, item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("failed to load product %s for cart item: %w", item.ProductID, err)
		}
		details = append(details, CartItemDetail{
			ID:      item.ID,
			Product: product,
			Size:    item.Size,
			Qty:     item.Qty,
		})
	}
	return details, nil
}

// GetItemCount returns the number of items in the user's cart; a missing
// cart counts as zero.
func (s *CartService) GetItemCount(ctx context.Context, userID string) (int, error) {
	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrCartNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return len(cart.Items), nil
}

// UpdateItem mutates one existing cart item, looked up by its storage
// identity. A size change re-derives the composite key and fails with
// ErrDuplicateCartItem if the new key collides with another item.
func (s *CartService) UpdateItem(ctx context.Context, userID, itemID, size string, qty int) (*models.Cart, error) {
	cart, err := s.cartRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range cart.Items {
		if cart.Items[i].ID == itemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, repositories.ErrCartItemNotFound
	}
	item := &cart.Items[idx]

	if size != "" && size != item.Size {
		newKey := models.CartItemKey(item.ProductID, size)
		for i := range cart.Items {
			if i != idx && cart.Items[i].CartItemID == newKey {
				return nil, ErrDuplicateCartItem
			}
		}
		item.Size = size
		item.CartItemID = newKey
	}
	if qty > 0 {
		item.Qty = qty
	}

	if err := s.cartRepo.Upsert(ctx, cart); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}
	s.invalidateCache(userID)

	return cart, nil
}

// RemoveItem deletes one cart item by its storage identity.
func (s *CartService) RemoveItem(ctx context.Context, userID, itemID string) error {
	cart, err := s.cartRepo.GetByUser(ctx, userID)
	if err != nil {
		return err
	}

	filtered := cart.Items[:0]
	for _, item := range cart.Items {
		if item.ID != itemID {
			filtered = append(filtered, item)
		}
	}
	if len(filtered) == len(cart.Items) {
		return repositories.ErrCartItemNotFound
	}
	cart.Items = filtered

	if err := s.cartRepo.Upsert(ctx, cart); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	s.invalidateCache(userID)

	return nil
}

func (s *CartService) invalidateCache(userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, userID); err != nil {
		log.Printf("cache invalidate error for user %s: %v", userID, err)
	}
}

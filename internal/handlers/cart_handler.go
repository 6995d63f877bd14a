package handlers

import (
	"errors"
	"log"

	"butik/internal/models"
	"butik/internal/repositories"
	"butik/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AddCartItemsRequest is the request body for adding items to the cart.
type AddCartItemsRequest struct {
	Items []models.CartItem `json:"items" validate:"required,min=1,dive"`
}

// UpdateCartItemRequest is the request body for mutating one cart item.
type UpdateCartItemRequest struct {
	Size string `json:"size"`
	Qty  int    `json:"qty" validate:"omitempty,gt=0"`
}

// CartHandler handles HTTP requests for the authenticated user's cart.
type CartHandler struct {
	service  *services.CartService
	validate *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the cart routes with the Fiber app.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Post("/", h.HandleAddItems)
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Get("/count", h.HandleGetItemCount)
	cartRoutes.Put("/:itemId", h.HandleUpdateItem)
	cartRoutes.Delete("/:itemId", h.HandleRemoveItem)
}

// HandleAddItems merges a batch of items into the cart. If any item
// duplicates an existing product+size entry the whole batch is rejected
// and the offending product IDs are returned.
func (h *CartHandler) HandleAddItems(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthenticated(c)
	}

	var req AddCartItemsRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing cart request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	result, err := h.service.AddItems(c.Context(), userID, req.Items)
	if err != nil {
		log.Printf("Error adding cart items for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update cart",
			"error":   err.Error(),
		})
	}

	if len(result.Duplicates) > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"status":     "fail",
			"message":    "Some items already exist in the cart.",
			"duplicates": result.Duplicates,
		})
	}

	return c.JSON(fiber.Map{
		"status":      "success",
		"message":     "Cart updated successfully.",
		"cart":        result.Cart,
		"cartItemQty": result.ItemCount,
	})
}

// HandleGetCart returns the cart items joined with product data.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthenticated(c)
	}

	details, err := h.service.GetCartDetail(c.Context(), userID)
	if err != nil {
		if errors.Is(err, repositories.ErrCartNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"status":  "fail",
				"message": "Cart not found",
			})
		}
		log.Printf("Error getting cart for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve cart",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"status": "success",
		"data":   details,
	})
}

// HandleGetItemCount returns the number of items in the cart; a missing
// cart counts as zero.
func (h *CartHandler) HandleGetItemCount(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthenticated(c)
	}

	count, err := h.service.GetItemCount(c.Context(), userID)
	if err != nil {
		log.Printf("Error counting cart items for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not count cart items",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"status": "success",
		"count":  count,
	})
}

// HandleUpdateItem mutates one cart item's size and/or quantity.
func (h *CartHandler) HandleUpdateItem(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthenticated(c)
	}
	itemID := c.Params("itemId")

	var req UpdateCartItemRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing cart item update body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	cart, err := h.service.UpdateItem(c.Context(), userID, itemID, req.Size, req.Qty)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrCartNotFound), errors.Is(err, repositories.ErrCartItemNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Cart item not found.",
			})
		case errors.Is(err, services.ErrDuplicateCartItem):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": err.Error(),
			})
		}
		log.Printf("Error updating cart item %s for user %s: %v", itemID, userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update cart item",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Cart item updated.",
		"cart":    cart,
	})
}

// HandleRemoveItem deletes one cart item by its storage identity.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthenticated(c)
	}
	itemID := c.Params("itemId")

	if err := h.service.RemoveItem(c.Context(), userID, itemID); err != nil {
		if errors.Is(err, repositories.ErrCartNotFound) || errors.Is(err, repositories.ErrCartItemNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Cart item not found.",
			})
		}
		log.Printf("Error removing cart item %s for user %s: %v", itemID, userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not remove cart item",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Item deleted",
	})
}

func unauthenticated(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"message": "Authentication required",
	})
}

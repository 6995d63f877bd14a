package handlers

import (
	"errors"
	"fmt"
	"log"

	"butik/internal/models"
	"butik/internal/repositories"
	"butik/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CheckoutRequest is the request body for placing an order.
type CheckoutRequest struct {
	Lines []models.OrderLine `json:"lines" validate:"required,min=1,dive"`
}

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleListOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Post("/", h.HandleCheckout)
	orderRoutes.Patch("/:id/status", h.HandleUpdateOrderStatus)
}

// HandleListOrders retrieves the authenticated user's orders.
func (h *OrderHandler) HandleListOrders(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthenticated(c)
	}

	orders, err := h.service.ListOrders(c.Context(), userID)
	if err != nil {
		log.Printf("Error listing orders for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve orders",
			"error":   err.Error(),
		})
	}
	return c.JSON(orders)
}

// HandleGetOrderByID retrieves a single order by its ID. Orders are
// scoped to their owner; another user's order reads as not found.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthenticated(c)
	}

	orderID := c.Params("id")
	order, err := h.service.GetOrderByID(c.Context(), orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrOrderNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Order with ID %s not found", orderID),
			})
		}
		log.Printf("Error getting order by ID %s: %v", orderID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve order",
			"error":   err.Error(),
		})
	}
	if order.UserID != userID {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": fmt.Sprintf("Order with ID %s not found", orderID),
		})
	}
	return c.JSON(order)
}

// HandleCheckout verifies stock and creates an order. When any line fails
// verification the rejections are returned and no order is created.
func (h *OrderHandler) HandleCheckout(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthenticated(c)
	}

	var req CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing checkout request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	order, rejections, err := h.service.Checkout(c.Context(), userID, req.Lines)
	if err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "A product in the order does not exist",
				"error":   err.Error(),
			})
		}
		log.Printf("Error during checkout for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create order",
			"error":   err.Error(),
		})
	}

	if len(rejections) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":     "fail",
			"message":    "Some items are out of stock.",
			"rejections": rejections,
		})
	}

	return c.Status(fiber.StatusCreated).JSON(order)
}

// HandleUpdateOrderStatus updates the status of an existing order. Like
// reads, status changes are scoped to the order's owner.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthenticated(c)
	}

	orderID := c.Params("id")
	var updateData struct {
		Status string `json:"status"`
	}

	if err := c.BodyParser(&updateData); err != nil {
		log.Printf("Error parsing request body for status update: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body for status update",
			"error":   err.Error(),
		})
	}

	if updateData.Status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Status is required for order status update.",
		})
	}

	order, err := h.service.GetOrderByID(c.Context(), orderID)
	if err != nil && !errors.Is(err, repositories.ErrOrderNotFound) {
		log.Printf("Error loading order %s for status update: %v", orderID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update order status",
			"error":   err.Error(),
		})
	}
	if err != nil || order.UserID != userID {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": fmt.Sprintf("Order with ID %s not found", orderID),
		})
	}

	if err := h.service.UpdateOrderStatus(c.Context(), orderID, updateData.Status); err != nil {
		if errors.Is(err, repositories.ErrOrderNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Order with ID %s not found", orderID),
			})
		}
		log.Printf("Error updating order status for order %s: %v", orderID, err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": fmt.Sprintf("Order update failed: %v", err.Error()),
		})
	}

	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Order %s status updated successfully to %s", orderID, updateData.Status),
	})
}

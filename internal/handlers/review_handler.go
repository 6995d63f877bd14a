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

// CreateReviewRequest is the request body for posting a review.
type CreateReviewRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Content   string `json:"content" validate:"required,max=2000"`
	Score     int    `json:"score" validate:"required,min=1,max=5"`
}

// ReviewHandler handles HTTP requests for product reviews.
type ReviewHandler struct {
	service  *services.ReviewService
	validate *validator.Validate
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(service *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the review listing route (public).
func (h *ReviewHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/products/:productId/reviews", h.HandleListReviews)
}

// RegisterProtectedRoutes registers the review mutation routes.
func (h *ReviewHandler) RegisterProtectedRoutes(router fiber.Router) {
	reviewRoutes := router.Group("/reviews")
	reviewRoutes.Post("/", h.HandleCreateReview)
	reviewRoutes.Delete("/:id", h.HandleDeleteReview)
}

// HandleCreateReview posts a review for a product.
func (h *ReviewHandler) HandleCreateReview(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthenticated(c)
	}

	var req CreateReviewRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing review request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	review := models.Review{
		UserID:    userID,
		ProductID: req.ProductID,
		Content:   req.Content,
		Score:     req.Score,
	}
	if err := h.service.CreateReview(c.Context(), &review); err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Product not found",
			})
		}
		log.Printf("Error creating review for product %s: %v", req.ProductID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create review",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status": "success",
		"review": review,
	})
}

// HandleListReviews retrieves a page of reviews for one product.
func (h *ReviewHandler) HandleListReviews(c *fiber.Ctx) error {
	productID := c.Params("productId")
	page := int64(c.QueryInt("page", 1))
	limit := int64(c.QueryInt("limit", 10))

	result, err := h.service.ListReviewsByProduct(c.Context(), productID, page, limit)
	if err != nil {
		log.Printf("Error listing reviews for product %s: %v", productID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve reviews",
			"error":   err.Error(),
		})
	}
	return c.JSON(result)
}

// HandleDeleteReview deletes the authenticated user's own review.
func (h *ReviewHandler) HandleDeleteReview(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthenticated(c)
	}
	reviewID := c.Params("id")

	if err := h.service.DeleteReview(c.Context(), reviewID, userID); err != nil {
		switch {
		case errors.Is(err, repositories.ErrReviewNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Review not found",
			})
		case errors.Is(err, services.ErrReviewForbidden):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "You can only delete your own reviews",
			})
		}
		log.Printf("Error deleting review %s: %v", reviewID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not delete review",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Review deleted",
	})
}

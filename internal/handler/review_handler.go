package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/platera-api/internal/handler/dto"
	"github.com/yourusername/platera-api/internal/middleware"
	"github.com/yourusername/platera-api/internal/service"
)

// ReviewHandler handles recipe reviews.
type ReviewHandler struct {
	reviewService *service.ReviewService
}

// NewReviewHandler creates a new review handler.
func NewReviewHandler(reviewService *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// SubmitReviewRequest is the upsert payload.
type SubmitReviewRequest struct {
	Rating int    `json:"rating" binding:"required,min=1,max=5"`
	Body   string `json:"body" binding:"omitempty,max=2000"`
}

// SubmitReview creates or replaces the current user's review of a recipe.
// POST /api/recipes/:id/review
func (h *ReviewHandler) SubmitReview(c *gin.Context) {
	user := middleware.CurrentUser(c)
	recipeID := c.MustGet("recipeID").(uint)

	var req SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := h.reviewService.SubmitReview(user.ID, recipeID, req.Rating, req.Body)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ReviewDTO{
		ID:        review.ID,
		Rating:    review.Rating,
		Body:      review.Body,
		CreatedAt: review.CreatedAt.Format(time.RFC3339),
	})
}

// GetOwnReview returns the current user's review of a recipe, if any.
// GET /api/recipes/:id/review
func (h *ReviewHandler) GetOwnReview(c *gin.Context) {
	user := middleware.CurrentUser(c)
	recipeID := c.MustGet("recipeID").(uint)

	review, err := h.reviewService.GetOwnReview(user.ID, recipeID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ReviewDTO{
		ID:        review.ID,
		Rating:    review.Rating,
		Body:      review.Body,
		CreatedAt: review.CreatedAt.Format(time.RFC3339),
	})
}

// DeleteReview removes the current user's review of a recipe.
// DELETE /api/recipes/:id/review
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	user := middleware.CurrentUser(c)
	recipeID := c.MustGet("recipeID").(uint)

	if err := h.reviewService.DeleteReview(user.ID, recipeID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Review deleted successfully"})
}

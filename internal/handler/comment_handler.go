package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/platera-api/internal/handler/dto"
	"github.com/yourusername/platera-api/internal/middleware"
	"github.com/yourusername/platera-api/internal/service"
)

// CommentHandler handles recipe comments.
type CommentHandler struct {
	commentService *service.CommentService
}

// NewCommentHandler creates a new comment handler.
func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// AddCommentRequest is the create payload.
type AddCommentRequest struct {
	Body string `json:"body" binding:"required,max=2000"`
}

// AddComment posts a comment on a recipe.
// POST /api/recipes/:id/comments
func (h *CommentHandler) AddComment(c *gin.Context) {
	user := middleware.CurrentUser(c)
	recipeID := c.MustGet("recipeID").(uint)

	var req AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.commentService.AddComment(user.ID, recipeID, req.Body)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.CommentDTO{
		ID:        comment.ID,
		Body:      comment.Body,
		User:      dto.NewUserSummary(user),
		CreatedAt: comment.CreatedAt.Format(time.RFC3339),
	})
}

// ListComments returns a recipe's comments, newest first.
// GET /api/recipes/:id/comments
func (h *CommentHandler) ListComments(c *gin.Context) {
	recipeID := c.MustGet("recipeID").(uint)

	comments, err := h.commentService.ListComments(recipeID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response := make([]dto.CommentDTO, len(comments))
	for i, cm := range comments {
		response[i] = dto.CommentDTO{
			ID:        cm.ID,
			Body:      cm.Body,
			User:      dto.NewUserSummary(cm.User),
			CreatedAt: cm.CreatedAt.Format(time.RFC3339),
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"comments": response,
		"total":    len(response),
	})
}

// DeleteComment removes a comment. Owner only.
// DELETE /api/comments/:id
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	user := middleware.CurrentUser(c)
	commentID := c.MustGet("commentID").(uint)

	if err := h.commentService.DeleteComment(user.ID, commentID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}

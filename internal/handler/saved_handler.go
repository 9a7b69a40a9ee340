package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/platera-api/internal/middleware"
	"github.com/yourusername/platera-api/internal/service"
)

// SavedRecipeHandler handles recipe bookmarks.
type SavedRecipeHandler struct {
	savedService *service.SavedRecipeService
}

// NewSavedRecipeHandler creates a new saved recipe handler.
func NewSavedRecipeHandler(savedService *service.SavedRecipeService) *SavedRecipeHandler {
	return &SavedRecipeHandler{savedService: savedService}
}

// SaveRecipe bookmarks a recipe for the current user. Idempotent.
// POST /api/recipes/:id/save
func (h *SavedRecipeHandler) SaveRecipe(c *gin.Context) {
	user := middleware.CurrentUser(c)
	recipeID := c.MustGet("recipeID").(uint)

	if err := h.savedService.SaveRecipe(user.ID, recipeID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Recipe saved", "saved": true})
}

// UnsaveRecipe removes a bookmark. Idempotent.
// DELETE /api/recipes/:id/save
func (h *SavedRecipeHandler) UnsaveRecipe(c *gin.Context) {
	user := middleware.CurrentUser(c)
	recipeID := c.MustGet("recipeID").(uint)

	if err := h.savedService.UnsaveRecipe(user.ID, recipeID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Recipe unsaved", "saved": false})
}

// ListSaved returns the current user's bookmarks, newest first.
// GET /api/saved
func (h *SavedRecipeHandler) ListSaved(c *gin.Context) {
	user := middleware.CurrentUser(c)

	saved, err := h.savedService.ListSaved(user.ID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"saved": saved,
		"total": len(saved),
	})
}

package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/platera-api/internal/domain/entity"
	"github.com/yourusername/platera-api/internal/domain/repository"
	"github.com/yourusername/platera-api/internal/middleware"
	apperrors "github.com/yourusername/platera-api/internal/pkg/errors"
	"github.com/yourusername/platera-api/internal/service"
)

// RecipeHandler handles recipe CRUD and the explore feed.
type RecipeHandler struct {
	recipeService *service.RecipeService
}

// NewRecipeHandler creates a new recipe handler.
func NewRecipeHandler(recipeService *service.RecipeService) *RecipeHandler {
	return &RecipeHandler{recipeService: recipeService}
}

// RecipeRequest is the create/update payload.
type RecipeRequest struct {
	Title       string              `json:"title" binding:"required,min=3,max=150"`
	Description string              `json:"description" binding:"omitempty,max=2000"`
	Category    string              `json:"category" binding:"required"`
	Servings    int                 `json:"servings" binding:"required,min=1"`
	PrepTimeMin int                 `json:"prep_time_min" binding:"min=0"`
	CookTimeMin int                 `json:"cook_time_min" binding:"min=0"`
	Ingredients []entity.Ingredient `json:"ingredients" binding:"required,min=1"`
	Steps       []string            `json:"steps" binding:"required,min=1"`
	Images      []string            `json:"images" binding:"omitempty,max=5"`
}

func (r *RecipeRequest) toInput() service.RecipeInput {
	return service.RecipeInput{
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		Servings:    r.Servings,
		PrepTimeMin: r.PrepTimeMin,
		CookTimeMin: r.CookTimeMin,
		Ingredients: entity.IngredientList(r.Ingredients),
		Steps:       entity.StringArray(r.Steps),
		Images:      entity.StringArray(r.Images),
	}
}

// ListRecipes returns the explore feed with filters and pagination.
// GET /api/recipes?page=&page_size=&category=&max_time=&min_rating=&search=&sort_by=
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "12"))
	if err != nil || pageSize < 1 || pageSize > 50 {
		pageSize = 12
	}

	filter := repository.RecipeFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		SortBy:   c.Query("sort_by"),
	}
	if maxTimeStr := c.Query("max_time"); maxTimeStr != "" {
		if maxTime, err := strconv.Atoi(maxTimeStr); err == nil && maxTime > 0 {
			filter.MaxTime = maxTime
		}
	}
	if minRatingStr := c.Query("min_rating"); minRatingStr != "" {
		if minRating, err := strconv.ParseFloat(minRatingStr, 64); err == nil && minRating > 0 {
			filter.MinRating = minRating
		}
	}

	feed, err := h.recipeService.ListRecipes(filter, page, pageSize)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, feed)
}

// GetRecipe returns one recipe with author, stats and discussion.
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	recipeID := c.MustGet("recipeID").(uint)

	detail, err := h.recipeService.GetRecipe(recipeID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// CreateRecipe creates a recipe authored by the current user.
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe, err := h.recipeService.CreateRecipe(user.ID, req.toInput())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, recipe)
}

// UpdateRecipe replaces a recipe's content. Author only.
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	user := middleware.CurrentUser(c)
	recipeID := c.MustGet("recipeID").(uint)

	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe, err := h.recipeService.UpdateRecipe(user.ID, recipeID, req.toInput())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, recipe)
}

// DeleteRecipe removes a recipe. Author only.
func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	user := middleware.CurrentUser(c)
	recipeID := c.MustGet("recipeID").(uint)

	if err := h.recipeService.DeleteRecipe(user.ID, recipeID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Recipe deleted successfully"})
}

// handleServiceError maps service errors to HTTP responses.
func handleServiceError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrConflict) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrUnauthorized) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrForbidden) {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	} else {
		log.Printf("ERROR: Internal server error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

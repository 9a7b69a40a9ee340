package repository

import (
	"github.com/yourusername/platera-api/internal/domain/entity"
)

// SavedRecipeRepository defines persistence for bookmarks.
type SavedRecipeRepository interface {
	// Save bookmarks a recipe; saving an already-saved recipe is a no-op.
	Save(userID, recipeID uint) error
	Unsave(userID, recipeID uint) error
	ListByUser(userID uint) ([]entity.SavedRecipe, error)
	IsSaved(userID, recipeID uint) (bool, error)
}

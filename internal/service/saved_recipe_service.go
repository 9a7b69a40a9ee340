package service

import (
	"github.com/yourusername/platera-api/internal/domain/entity"
	"github.com/yourusername/platera-api/internal/domain/repository"
)

// SavedRecipeService provides bookmarks.
type SavedRecipeService struct {
	savedRepo  repository.SavedRecipeRepository
	recipeRepo repository.RecipeRepository
}

// NewSavedRecipeService creates a new bookmark service.
func NewSavedRecipeService(savedRepo repository.SavedRecipeRepository, recipeRepo repository.RecipeRepository) *SavedRecipeService {
	return &SavedRecipeService{
		savedRepo:  savedRepo,
		recipeRepo: recipeRepo,
	}
}

// SaveRecipe bookmarks a recipe. Saving twice is a no-op.
func (s *SavedRecipeService) SaveRecipe(userID, recipeID uint) error {
	if _, err := s.recipeRepo.GetByID(recipeID); err != nil {
		return err
	}
	return s.savedRepo.Save(userID, recipeID)
}

// UnsaveRecipe removes a bookmark. Removing a missing one is a no-op.
func (s *SavedRecipeService) UnsaveRecipe(userID, recipeID uint) error {
	return s.savedRepo.Unsave(userID, recipeID)
}

// ListSaved returns the caller's bookmarks, newest first.
func (s *SavedRecipeService) ListSaved(userID uint) ([]entity.SavedRecipe, error) {
	return s.savedRepo.ListByUser(userID)
}

// IsSaved reports whether the caller bookmarked the recipe.
func (s *SavedRecipeService) IsSaved(userID, recipeID uint) (bool, error) {
	return s.savedRepo.IsSaved(userID, recipeID)
}

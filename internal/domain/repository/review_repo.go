package repository

import (
	"github.com/yourusername/platera-api/internal/domain/entity"
)

// ReviewRepository defines persistence for recipe reviews.
type ReviewRepository interface {
	// Upsert creates the review or, when the caller already reviewed the
	// recipe, replaces rating and body in place.
	Upsert(review *entity.Review) error
	GetByUserAndRecipe(userID, recipeID uint) (*entity.Review, error)
	ListByRecipe(recipeID uint) ([]entity.Review, error)
	Delete(userID, recipeID uint) error
	// Stats returns the average rating and review count for a recipe.
	Stats(recipeID uint) (float64, int64, error)
}

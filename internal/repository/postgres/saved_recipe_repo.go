package postgres

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yourusername/platera-api/internal/domain/entity"
)

// SavedRecipeRepo implements repository.SavedRecipeRepository.
type SavedRecipeRepo struct {
	db *gorm.DB
}

// NewSavedRecipeRepo creates a new bookmark repository.
func NewSavedRecipeRepo(db *gorm.DB) *SavedRecipeRepo {
	return &SavedRecipeRepo{db: db}
}

// Save bookmarks a recipe. Saving twice is a no-op thanks to the
// (user_id, recipe_id) unique index and DO NOTHING on conflict.
func (r *SavedRecipeRepo) Save(userID, recipeID uint) error {
	saved := entity.SavedRecipe{UserID: userID, RecipeID: recipeID}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "recipe_id"}},
		DoNothing: true,
	}).Create(&saved).Error
}

// Unsave removes a bookmark. Removing a missing bookmark is a no-op.
func (r *SavedRecipeRepo) Unsave(userID, recipeID uint) error {
	return r.db.Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&entity.SavedRecipe{}).Error
}

// ListByUser returns a user's bookmarks, newest first, with recipes.
func (r *SavedRecipeRepo) ListByUser(userID uint) ([]entity.SavedRecipe, error) {
	var saved []entity.SavedRecipe
	err := r.db.Preload("Recipe").Preload("Recipe.Author").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&saved).Error
	return saved, err
}

// IsSaved reports whether the user bookmarked the recipe.
func (r *SavedRecipeRepo) IsSaved(userID, recipeID uint) (bool, error) {
	var count int64
	err := r.db.Model(&entity.SavedRecipe{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error
	return count > 0, err
}

package postgres

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yourusername/platera-api/internal/domain/entity"
	apperrors "github.com/yourusername/platera-api/internal/pkg/errors"
)

// ReviewRepo implements repository.ReviewRepository.
type ReviewRepo struct {
	db *gorm.DB
}

// NewReviewRepo creates a new review repository.
func NewReviewRepo(db *gorm.DB) *ReviewRepo {
	return &ReviewRepo{db: db}
}

// Upsert creates the review or replaces rating and body when the caller
// already reviewed the recipe. Relies on the (user_id, recipe_id) unique
// index, so a concurrent double submit cannot produce two rows.
func (r *ReviewRepo) Upsert(review *entity.Review) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "recipe_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"rating", "body", "updated_at"}),
	}).Create(review).Error
}

// GetByUserAndRecipe returns one user's review of a recipe.
func (r *ReviewRepo) GetByUserAndRecipe(userID, recipeID uint) (*entity.Review, error) {
	var review entity.Review
	err := r.db.Where("user_id = ? AND recipe_id = ?", userID, recipeID).First(&review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &review, nil
}

// ListByRecipe returns all reviews of a recipe, newest first, with users.
func (r *ReviewRepo) ListByRecipe(recipeID uint) ([]entity.Review, error) {
	var reviews []entity.Review
	err := r.db.Preload("User").
		Where("recipe_id = ?", recipeID).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

// Delete removes one user's review of a recipe.
func (r *ReviewRepo) Delete(userID, recipeID uint) error {
	return r.db.Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&entity.Review{}).Error
}

// Stats returns the average rating and review count for a recipe.
func (r *ReviewRepo) Stats(recipeID uint) (float64, int64, error) {
	var stats struct {
		AvgRating   float64
		ReviewCount int64
	}
	err := r.db.Model(&entity.Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg_rating, COUNT(*) AS review_count").
		Where("recipe_id = ?", recipeID).
		Scan(&stats).Error
	if err != nil {
		return 0, 0, err
	}
	return stats.AvgRating, stats.ReviewCount, nil
}

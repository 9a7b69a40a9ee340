package service

import (
	"fmt"
	"strings"

	"github.com/yourusername/platera-api/internal/domain/entity"
	"github.com/yourusername/platera-api/internal/domain/repository"
	apperrors "github.com/yourusername/platera-api/internal/pkg/errors"
)

// ReviewService provides recipe ratings.
type ReviewService struct {
	reviewRepo repository.ReviewRepository
	recipeRepo repository.RecipeRepository
}

// NewReviewService creates a new review service.
func NewReviewService(reviewRepo repository.ReviewRepository, recipeRepo repository.RecipeRepository) *ReviewService {
	return &ReviewService{
		reviewRepo: reviewRepo,
		recipeRepo: recipeRepo,
	}
}

// SubmitReview creates or replaces the caller's review of a recipe.
// Rating own recipes is not allowed.
func (s *ReviewService) SubmitReview(userID, recipeID uint, rating int, body string) (*entity.Review, error) {
	if rating < entity.MinRating || rating > entity.MaxRating {
		return nil, fmt.Errorf("%w: rating must be between %d and %d", apperrors.ErrValidation, entity.MinRating, entity.MaxRating)
	}

	recipe, err := s.recipeRepo.GetByID(recipeID)
	if err != nil {
		return nil, err
	}
	if recipe.AuthorID == userID {
		return nil, fmt.Errorf("%w: you cannot review your own recipe", apperrors.ErrForbidden)
	}

	review := &entity.Review{
		UserID:   userID,
		RecipeID: recipeID,
		Rating:   rating,
		Body:     strings.TrimSpace(body),
	}
	if err := s.reviewRepo.Upsert(review); err != nil {
		return nil, err
	}
	return review, nil
}

// GetOwnReview returns the caller's review of a recipe, if any.
func (s *ReviewService) GetOwnReview(userID, recipeID uint) (*entity.Review, error) {
	return s.reviewRepo.GetByUserAndRecipe(userID, recipeID)
}

// DeleteReview removes the caller's review of a recipe.
func (s *ReviewService) DeleteReview(userID, recipeID uint) error {
	return s.reviewRepo.Delete(userID, recipeID)
}

package service

import (
	"fmt"
	"strings"

	"github.com/yourusername/platera-api/internal/domain/entity"
	"github.com/yourusername/platera-api/internal/domain/repository"
	apperrors "github.com/yourusername/platera-api/internal/pkg/errors"
)

// CommentService provides recipe discussion.
type CommentService struct {
	commentRepo repository.CommentRepository
	recipeRepo  repository.RecipeRepository
}

// NewCommentService creates a new comment service.
func NewCommentService(commentRepo repository.CommentRepository, recipeRepo repository.RecipeRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		recipeRepo:  recipeRepo,
	}
}

// AddComment posts a comment under a recipe.
func (s *CommentService) AddComment(userID, recipeID uint, body string) (*entity.Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, fmt.Errorf("%w: comment body is required", apperrors.ErrValidation)
	}
	if len(body) > 2000 {
		return nil, fmt.Errorf("%w: comment is too long", apperrors.ErrValidation)
	}

	// The recipe must exist; a comment on a deleted recipe is a 404.
	if _, err := s.recipeRepo.GetByID(recipeID); err != nil {
		return nil, err
	}

	comment := &entity.Comment{
		UserID:   userID,
		RecipeID: recipeID,
		Body:     body,
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// ListComments returns all comments of a recipe, newest first.
func (s *CommentService) ListComments(recipeID uint) ([]entity.Comment, error) {
	return s.commentRepo.ListByRecipe(recipeID)
}

// DeleteComment removes a comment. Only its author may delete it.
func (s *CommentService) DeleteComment(userID, commentID uint) error {
	comment, err := s.commentRepo.GetByID(commentID)
	if err != nil {
		return err
	}
	if comment.UserID != userID {
		return fmt.Errorf("%w: only the author can delete a comment", apperrors.ErrForbidden)
	}
	return s.commentRepo.Delete(commentID)
}

package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/platera-api/internal/domain/entity"
	apperrors "github.com/yourusername/platera-api/internal/pkg/errors"
)

func TestAddComment(t *testing.T) {
	commentRepo := new(MockCommentRepository)
	recipeRepo := new(MockRecipeRepository)
	svc := NewCommentService(commentRepo, recipeRepo)

	recipeRepo.On("GetByID", uint(1)).Return(&entity.Recipe{ID: 1}, nil)
	commentRepo.On("Create", mock.MatchedBy(func(c *entity.Comment) bool {
		return c.UserID == 7 && c.RecipeID == 1 && c.Body == "Lovely"
	})).Return(nil)

	comment, err := svc.AddComment(7, 1, "  Lovely  ")
	require.NoError(t, err)
	assert.Equal(t, "Lovely", comment.Body)
}

func TestAddComment_Validation(t *testing.T) {
	commentRepo := new(MockCommentRepository)
	svc := NewCommentService(commentRepo, new(MockRecipeRepository))

	_, err := svc.AddComment(7, 1, "   ")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.AddComment(7, 1, strings.Repeat("x", 2001))
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	commentRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestAddComment_RecipeGone(t *testing.T) {
	recipeRepo := new(MockRecipeRepository)
	svc := NewCommentService(new(MockCommentRepository), recipeRepo)

	recipeRepo.On("GetByID", uint(99)).Return(nil, apperrors.ErrNotFound)

	_, err := svc.AddComment(7, 99, "hello")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDeleteComment_OwnerOnly(t *testing.T) {
	commentRepo := new(MockCommentRepository)
	svc := NewCommentService(commentRepo, new(MockRecipeRepository))

	commentRepo.On("GetByID", uint(5)).Return(&entity.Comment{ID: 5, UserID: 2}, nil)

	err := svc.DeleteComment(7, 5)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	commentRepo.AssertNotCalled(t, "Delete", mock.Anything)
}

func TestDeleteComment(t *testing.T) {
	commentRepo := new(MockCommentRepository)
	svc := NewCommentService(commentRepo, new(MockRecipeRepository))

	commentRepo.On("GetByID", uint(5)).Return(&entity.Comment{ID: 5, UserID: 7}, nil)
	commentRepo.On("Delete", uint(5)).Return(nil)

	require.NoError(t, svc.DeleteComment(7, 5))
	commentRepo.AssertExpectations(t)
}

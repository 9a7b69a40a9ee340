package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/platera-api/internal/domain/entity"
	apperrors "github.com/yourusername/platera-api/internal/pkg/errors"
)

// MockSavedRecipeRepository implements repository.SavedRecipeRepository
type MockSavedRecipeRepository struct {
	mock.Mock
}

func (m *MockSavedRecipeRepository) Save(userID, recipeID uint) error {
	args := m.Called(userID, recipeID)
	return args.Error(0)
}

func (m *MockSavedRecipeRepository) Unsave(userID, recipeID uint) error {
	args := m.Called(userID, recipeID)
	return args.Error(0)
}

func (m *MockSavedRecipeRepository) ListByUser(userID uint) ([]entity.SavedRecipe, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.SavedRecipe), args.Error(1)
}

func (m *MockSavedRecipeRepository) IsSaved(userID, recipeID uint) (bool, error) {
	args := m.Called(userID, recipeID)
	return args.Bool(0), args.Error(1)
}

func TestSaveRecipe(t *testing.T) {
	savedRepo := new(MockSavedRecipeRepository)
	recipeRepo := new(MockRecipeRepository)
	svc := NewSavedRecipeService(savedRepo, recipeRepo)

	recipeRepo.On("GetByID", uint(1)).Return(&entity.Recipe{ID: 1}, nil)
	savedRepo.On("Save", uint(7), uint(1)).Return(nil)

	require.NoError(t, svc.SaveRecipe(7, 1))
	savedRepo.AssertExpectations(t)
}

func TestSaveRecipe_RecipeGone(t *testing.T) {
	savedRepo := new(MockSavedRecipeRepository)
	recipeRepo := new(MockRecipeRepository)
	svc := NewSavedRecipeService(savedRepo, recipeRepo)

	recipeRepo.On("GetByID", uint(99)).Return(nil, apperrors.ErrNotFound)

	err := svc.SaveRecipe(7, 99)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	savedRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestUnsaveRecipe(t *testing.T) {
	savedRepo := new(MockSavedRecipeRepository)
	svc := NewSavedRecipeService(savedRepo, new(MockRecipeRepository))

	savedRepo.On("Unsave", uint(7), uint(1)).Return(nil)
	require.NoError(t, svc.UnsaveRecipe(7, 1))
}

func TestListSaved(t *testing.T) {
	savedRepo := new(MockSavedRecipeRepository)
	svc := NewSavedRecipeService(savedRepo, new(MockRecipeRepository))

	savedRepo.On("ListByUser", uint(7)).Return([]entity.SavedRecipe{{ID: 1, UserID: 7, RecipeID: 3}}, nil)

	saved, err := svc.ListSaved(7)
	require.NoError(t, err)
	assert.Len(t, saved, 1)
}

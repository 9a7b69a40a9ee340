package service

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/yourusername/platera-api/internal/domain/entity"
	"github.com/yourusername/platera-api/internal/domain/repository"
	"github.com/yourusername/platera-api/internal/handler/dto"
	apperrors "github.com/yourusername/platera-api/internal/pkg/errors"
)

const (
	// feedCacheKey holds the first unfiltered feed page.
	feedCacheKey = "feed:first_page"
	feedCacheTTL = 60 * time.Second

	maxRecipeImages = 5
)

// RecipeInput carries the user-supplied fields of a recipe.
type RecipeInput struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Category    string                `json:"category"`
	Servings    int                   `json:"servings"`
	PrepTimeMin int                   `json:"prep_time_min"`
	CookTimeMin int                   `json:"cook_time_min"`
	Ingredients entity.IngredientList `json:"ingredients"`
	Steps       entity.StringArray    `json:"steps"`
	Images      entity.StringArray    `json:"images"`
}

// RecipeService provides recipe publishing and the community feed.
type RecipeService struct {
	recipeRepo  repository.RecipeRepository
	reviewRepo  repository.ReviewRepository
	commentRepo repository.CommentRepository
	cacheRepo   repository.CacheRepository
}

// NewRecipeService creates a new recipe service.
func NewRecipeService(
	recipeRepo repository.RecipeRepository,
	reviewRepo repository.ReviewRepository,
	commentRepo repository.CommentRepository,
	cacheRepo repository.CacheRepository,
) *RecipeService {
	return &RecipeService{
		recipeRepo:  recipeRepo,
		reviewRepo:  reviewRepo,
		commentRepo: commentRepo,
		cacheRepo:   cacheRepo,
	}
}

func (s *RecipeService) validateInput(input *RecipeInput) error {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)

	if len(input.Title) < 3 || len(input.Title) > 150 {
		return fmt.Errorf("%w: title must be between 3 and 150 characters", apperrors.ErrValidation)
	}
	if !entity.ValidCategory(input.Category) {
		return fmt.Errorf("%w: unknown category %q", apperrors.ErrValidation, input.Category)
	}
	if input.Servings < 1 {
		return fmt.Errorf("%w: servings must be at least 1", apperrors.ErrValidation)
	}
	if input.PrepTimeMin < 0 || input.CookTimeMin < 0 {
		return fmt.Errorf("%w: times cannot be negative", apperrors.ErrValidation)
	}
	if len(input.Ingredients) == 0 {
		return fmt.Errorf("%w: at least one ingredient is required", apperrors.ErrValidation)
	}
	if len(input.Steps) == 0 {
		return fmt.Errorf("%w: at least one step is required", apperrors.ErrValidation)
	}
	if len(input.Images) > maxRecipeImages {
		return fmt.Errorf("%w: maximum %d images allowed", apperrors.ErrValidation, maxRecipeImages)
	}
	return nil
}

// CreateRecipe publishes a recipe owned by authorID.
func (s *RecipeService) CreateRecipe(authorID uint, input RecipeInput) (*entity.Recipe, error) {
	if err := s.validateInput(&input); err != nil {
		return nil, err
	}

	recipe := &entity.Recipe{
		AuthorID:     authorID,
		Title:        input.Title,
		Description:  input.Description,
		Category:     input.Category,
		Servings:     input.Servings,
		PrepTimeMin:  input.PrepTimeMin,
		CookTimeMin:  input.CookTimeMin,
		TotalTimeMin: input.PrepTimeMin + input.CookTimeMin,
		Ingredients:  input.Ingredients,
		Steps:        input.Steps,
		Images:       input.Images,
	}
	if err := s.recipeRepo.Create(recipe); err != nil {
		return nil, err
	}

	s.invalidateFeedCache()
	return recipe, nil
}

// GetRecipe returns one recipe with author, stats and discussion.
func (s *RecipeService) GetRecipe(id uint) (*dto.RecipeDetailResponse, error) {
	recipe, err := s.recipeRepo.GetWithAuthor(id)
	if err != nil {
		return nil, err
	}

	avg, count, err := s.reviewRepo.Stats(id)
	if err != nil {
		return nil, err
	}

	reviews, err := s.reviewRepo.ListByRecipe(id)
	if err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.ListByRecipe(id)
	if err != nil {
		return nil, err
	}

	resp := &dto.RecipeDetailResponse{
		Recipe:       recipe,
		Author:       dto.NewUserSummary(recipe.Author),
		AvgRating:    avg,
		ReviewCount:  count,
		Reviews:      make([]dto.ReviewDTO, len(reviews)),
		Comments:     make([]dto.CommentDTO, len(comments)),
		CommentCount: len(comments),
	}
	for i, rv := range reviews {
		resp.Reviews[i] = dto.ReviewDTO{
			ID:        rv.ID,
			Rating:    rv.Rating,
			Body:      rv.Body,
			User:      dto.NewUserSummary(rv.User),
			CreatedAt: rv.CreatedAt.Format(time.RFC3339),
		}
	}
	for i, cm := range comments {
		resp.Comments[i] = dto.CommentDTO{
			ID:        cm.ID,
			Body:      cm.Body,
			User:      dto.NewUserSummary(cm.User),
			CreatedAt: cm.CreatedAt.Format(time.RFC3339),
		}
	}
	return resp, nil
}

// ListRecipes returns a paginated feed page for the given filter. The first
// unfiltered page is served from cache when possible.
func (s *RecipeService) ListRecipes(filter repository.RecipeFilter, page, pageSize int) (*dto.RecipeFeedResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 12
	} else if pageSize > 50 {
		pageSize = 50
	}
	filter.Limit = pageSize
	filter.Offset = (page - 1) * pageSize

	cacheable := s.cacheRepo != nil && page == 1 && isDefaultFilter(filter)
	if cacheable {
		var cached dto.RecipeFeedResponse
		if err := s.cacheRepo.GetJSON(feedCacheKey, &cached); err == nil && cached.PerPage == pageSize {
			return &cached, nil
		}
	}

	items, total, err := s.recipeRepo.List(filter)
	if err != nil {
		return nil, err
	}

	resp := &dto.RecipeFeedResponse{
		Recipes: items,
		Total:   total,
		Page:    page,
		PerPage: pageSize,
	}

	if cacheable {
		if err := s.cacheRepo.SetJSON(feedCacheKey, resp, feedCacheTTL); err != nil {
			log.Printf("[RecipeService] feed cache write failed: %v", err)
		}
	}
	return resp, nil
}

func isDefaultFilter(filter repository.RecipeFilter) bool {
	return filter.Category == "" &&
		filter.MaxTime == 0 &&
		filter.MinRating == 0 &&
		strings.TrimSpace(filter.Search) == "" &&
		(filter.SortBy == "" || filter.SortBy == repository.SortNewest)
}

// ListByAuthor returns all of one author's recipes with stats.
func (s *RecipeService) ListByAuthor(authorID uint) ([]repository.RecipeFeedItem, error) {
	return s.recipeRepo.ListByAuthor(authorID)
}

// UpdateRecipe applies input to an existing recipe. Only the author may
// update it.
func (s *RecipeService) UpdateRecipe(userID, recipeID uint, input RecipeInput) (*entity.Recipe, error) {
	recipe, err := s.recipeRepo.GetByID(recipeID)
	if err != nil {
		return nil, err
	}
	if recipe.AuthorID != userID {
		return nil, fmt.Errorf("%w: only the author can update a recipe", apperrors.ErrForbidden)
	}
	if err := s.validateInput(&input); err != nil {
		return nil, err
	}

	recipe.Title = input.Title
	recipe.Description = input.Description
	recipe.Category = input.Category
	recipe.Servings = input.Servings
	recipe.PrepTimeMin = input.PrepTimeMin
	recipe.CookTimeMin = input.CookTimeMin
	recipe.TotalTimeMin = input.PrepTimeMin + input.CookTimeMin
	recipe.Ingredients = input.Ingredients
	recipe.Steps = input.Steps
	recipe.Images = input.Images

	if err := s.recipeRepo.Update(recipe); err != nil {
		return nil, err
	}

	s.invalidateFeedCache()
	return recipe, nil
}

// DeleteRecipe removes a recipe. Only the author may delete it.
func (s *RecipeService) DeleteRecipe(userID, recipeID uint) error {
	recipe, err := s.recipeRepo.GetByID(recipeID)
	if err != nil {
		return err
	}
	if recipe.AuthorID != userID {
		return fmt.Errorf("%w: only the author can delete a recipe", apperrors.ErrForbidden)
	}
	if err := s.recipeRepo.Delete(recipeID); err != nil {
		return err
	}

	s.invalidateFeedCache()
	return nil
}

func (s *RecipeService) invalidateFeedCache() {
	if s.cacheRepo == nil {
		return
	}
	if err := s.cacheRepo.Delete(feedCacheKey); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		log.Printf("[RecipeService] feed cache invalidation failed: %v", err)
	}
}

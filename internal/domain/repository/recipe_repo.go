package repository

import (
	"github.com/yourusername/platera-api/internal/domain/entity"
)

// Feed sort orders accepted by RecipeFilter.SortBy.
const (
	SortNewest   = "newest"
	SortOldest   = "oldest"
	SortPopular  = "popular"
	SortQuickest = "quickest"
)

// RecipeFilter narrows and orders the community feed.
type RecipeFilter struct {
	Category  string // VEG, NON_VEG or EGG; empty matches all
	MaxTime   int    // max total_time_min; 0 disables
	MinRating float64
	Search    string // matches title/description, case-insensitive
	SortBy    string
	Limit     int
	Offset    int
}

// RecipeFeedItem is a recipe row decorated with aggregate review stats.
type RecipeFeedItem struct {
	entity.Recipe
	AvgRating    float64 `json:"avg_rating"`
	ReviewCount  int64   `json:"review_count"`
	CommentCount int64   `json:"comment_count"`
}

// RecipeRepository defines persistence for recipes.
type RecipeRepository interface {
	Create(recipe *entity.Recipe) error
	GetByID(id uint) (*entity.Recipe, error)
	// GetWithAuthor preloads the author relation.
	GetWithAuthor(id uint) (*entity.Recipe, error)
	List(filter RecipeFilter) ([]RecipeFeedItem, int64, error)
	ListByAuthor(authorID uint) ([]RecipeFeedItem, error)
	Update(recipe *entity.Recipe) error
	Delete(id uint) error
}

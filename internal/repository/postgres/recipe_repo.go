package postgres

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/yourusername/platera-api/internal/domain/entity"
	"github.com/yourusername/platera-api/internal/domain/repository"
	apperrors "github.com/yourusername/platera-api/internal/pkg/errors"
)

// RecipeRepo implements repository.RecipeRepository.
type RecipeRepo struct {
	db *gorm.DB
}

// NewRecipeRepo creates a new recipe repository.
func NewRecipeRepo(db *gorm.DB) *RecipeRepo {
	return &RecipeRepo{db: db}
}

// Create inserts a new recipe.
func (r *RecipeRepo) Create(recipe *entity.Recipe) error {
	return r.db.Create(recipe).Error
}

// GetByID returns a recipe by primary key.
func (r *RecipeRepo) GetByID(id uint) (*entity.Recipe, error) {
	var recipe entity.Recipe
	err := r.db.First(&recipe, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// GetWithAuthor returns a recipe with its author preloaded.
func (r *RecipeRepo) GetWithAuthor(id uint) (*entity.Recipe, error) {
	var recipe entity.Recipe
	err := r.db.Preload("Author").First(&recipe, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// feedQuery builds the base feed select with aggregate review stats.
func (r *RecipeRepo) feedQuery() *gorm.DB {
	return r.db.Model(&entity.Recipe{}).
		Select("recipes.*, " +
			"COALESCE(AVG(reviews.rating), 0) AS avg_rating, " +
			"COUNT(DISTINCT reviews.id) AS review_count, " +
			"COUNT(DISTINCT comments.id) AS comment_count").
		Joins("LEFT JOIN reviews ON reviews.recipe_id = recipes.id").
		Joins("LEFT JOIN comments ON comments.recipe_id = recipes.id").
		Group("recipes.id")
}

// List returns the filtered, ordered community feed plus the total match
// count for pagination.
func (r *RecipeRepo) List(filter repository.RecipeFilter) ([]repository.RecipeFeedItem, int64, error) {
	query := r.feedQuery()

	if filter.Category != "" {
		query = query.Where("recipes.category = ?", filter.Category)
	}
	if filter.MaxTime > 0 {
		query = query.Where("recipes.total_time_min <= ?", filter.MaxTime)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("recipes.title ILIKE ? OR recipes.description ILIKE ?", pattern, pattern)
	}
	if filter.MinRating > 0 {
		query = query.Having("COALESCE(AVG(reviews.rating), 0) >= ?", filter.MinRating)
	}

	// Count over the grouped query as a subselect; grouped counts would
	// otherwise return one count per recipe.
	var total int64
	countQuery := query.Session(&gorm.Session{})
	if err := r.db.Table("(?) AS feed", countQuery).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch filter.SortBy {
	case repository.SortOldest:
		query = query.Order("recipes.created_at ASC")
	case repository.SortPopular:
		query = query.Order("avg_rating DESC, review_count DESC, recipes.id ASC")
	case repository.SortQuickest:
		query = query.Order("recipes.total_time_min ASC, recipes.id ASC")
	default:
		query = query.Order("recipes.created_at DESC")
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var items []repository.RecipeFeedItem
	if err := query.Scan(&items).Error; err != nil {
		return nil, 0, err
	}

	if err := r.attachAuthors(items); err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

// ListByAuthor returns all recipes of one author with stats, newest first.
func (r *RecipeRepo) ListByAuthor(authorID uint) ([]repository.RecipeFeedItem, error) {
	var items []repository.RecipeFeedItem
	err := r.feedQuery().
		Where("recipes.author_id = ?", authorID).
		Order("recipes.created_at DESC").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	if err := r.attachAuthors(items); err != nil {
		return nil, err
	}
	return items, nil
}

// attachAuthors loads author rows for the feed in one query. Scan into the
// aggregate read model bypasses gorm preloading, so the relation is filled
// by hand.
func (r *RecipeRepo) attachAuthors(items []repository.RecipeFeedItem) error {
	if len(items) == 0 {
		return nil
	}

	idSet := make(map[uint]struct{}, len(items))
	ids := make([]uint, 0, len(items))
	for _, item := range items {
		if _, ok := idSet[item.AuthorID]; !ok {
			idSet[item.AuthorID] = struct{}{}
			ids = append(ids, item.AuthorID)
		}
	}

	var authors []entity.User
	if err := r.db.Where("id IN ?", ids).Find(&authors).Error; err != nil {
		return err
	}

	byID := make(map[uint]*entity.User, len(authors))
	for i := range authors {
		byID[authors[i].ID] = &authors[i]
	}
	for i := range items {
		items[i].Author = byID[items[i].AuthorID]
	}
	return nil
}

// Update saves a full recipe row.
func (r *RecipeRepo) Update(recipe *entity.Recipe) error {
	return r.db.Save(recipe).Error
}

// Delete removes a recipe. Reviews, comments and bookmarks referencing it are
// removed by the ON DELETE CASCADE constraints.
func (r *RecipeRepo) Delete(id uint) error {
	return r.db.Delete(&entity.Recipe{}, id).Error
}

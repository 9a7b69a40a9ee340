package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/platera-api/internal/domain/entity"
	apperrors "github.com/yourusername/platera-api/internal/pkg/errors"
)

// CommentRepo implements repository.CommentRepository.
type CommentRepo struct {
	db *gorm.DB
}

// NewCommentRepo creates a new comment repository.
func NewCommentRepo(db *gorm.DB) *CommentRepo {
	return &CommentRepo{db: db}
}

// Create inserts a new comment.
func (r *CommentRepo) Create(comment *entity.Comment) error {
	return r.db.Create(comment).Error
}

// GetByID returns a comment by primary key.
func (r *CommentRepo) GetByID(id uint) (*entity.Comment, error) {
	var comment entity.Comment
	err := r.db.First(&comment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &comment, nil
}

// ListByRecipe returns all comments of a recipe, newest first, with users.
func (r *CommentRepo) ListByRecipe(recipeID uint) ([]entity.Comment, error) {
	var comments []entity.Comment
	err := r.db.Preload("User").
		Where("recipe_id = ?", recipeID).
		Order("created_at DESC").
		Find(&comments).Error
	return comments, err
}

// Delete removes a comment.
func (r *CommentRepo) Delete(id uint) error {
	return r.db.Delete(&entity.Comment{}, id).Error
}

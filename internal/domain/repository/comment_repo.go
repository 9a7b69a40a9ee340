package repository

import (
	"github.com/yourusername/platera-api/internal/domain/entity"
)

// CommentRepository defines persistence for recipe comments.
type CommentRepository interface {
	Create(comment *entity.Comment) error
	GetByID(id uint) (*entity.Comment, error)
	ListByRecipe(recipeID uint) ([]entity.Comment, error)
	Delete(id uint) error
}

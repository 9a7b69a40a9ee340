package dto

import (
	"github.com/yourusername/platera-api/internal/domain/entity"
	"github.com/yourusername/platera-api/internal/domain/repository"
)

// UserSummaryDTO is the public slice of a user shown next to content.
type UserSummaryDTO struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	ProfileImage string `json:"profile_image,omitempty"`
}

// NewUserSummary builds a UserSummaryDTO, tolerating a missing user.
func NewUserSummary(user *entity.User) *UserSummaryDTO {
	if user == nil {
		return nil
	}
	return &UserSummaryDTO{
		ID:           user.ID,
		Name:         user.Name,
		ProfileImage: user.ProfileImage,
	}
}

// ReviewDTO is one review with its author summary.
type ReviewDTO struct {
	ID        uint            `json:"id"`
	Rating    int             `json:"rating"`
	Body      string          `json:"body,omitempty"`
	User      *UserSummaryDTO `json:"user,omitempty"`
	CreatedAt string          `json:"created_at"`
}

// CommentDTO is one comment with its author summary.
type CommentDTO struct {
	ID        uint            `json:"id"`
	Body      string          `json:"body"`
	User      *UserSummaryDTO `json:"user,omitempty"`
	CreatedAt string          `json:"created_at"`
}

// RecipeFeedResponse is a paginated feed page.
type RecipeFeedResponse struct {
	Recipes []repository.RecipeFeedItem `json:"recipes"`
	Total   int64                       `json:"total"`
	Page    int                         `json:"page"`
	PerPage int                         `json:"per_page"`
}

// RecipeDetailResponse is one recipe with author, stats and discussion.
type RecipeDetailResponse struct {
	Recipe       *entity.Recipe  `json:"recipe"`
	Author       *UserSummaryDTO `json:"author,omitempty"`
	AvgRating    float64         `json:"avg_rating"`
	ReviewCount  int64           `json:"review_count"`
	Reviews      []ReviewDTO     `json:"reviews"`
	Comments     []CommentDTO    `json:"comments"`
	CommentCount int             `json:"comment_count"`
}

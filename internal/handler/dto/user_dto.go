package dto

import (
	"time"

	"github.com/yourusername/platera-api/internal/domain/entity"
	"github.com/yourusername/platera-api/internal/domain/repository"
)

// UserProfileResponse is the current user's own account view.
type UserProfileResponse struct {
	ID           uint   `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	ProfileImage string `json:"profile_image,omitempty"`
	CreatedAt    string `json:"created_at"`
}

// NewUserProfileResponse builds the profile view from an account.
func NewUserProfileResponse(user *entity.User) *UserProfileResponse {
	return &UserProfileResponse{
		ID:           user.ID,
		Email:        user.Email,
		Name:         user.Name,
		ProfileImage: user.ProfileImage,
		CreatedAt:    user.CreatedAt.Format(time.RFC3339),
	}
}

// DashboardResponse aggregates the current user's recipes and bookmarks.
type DashboardResponse struct {
	Recipes     []repository.RecipeFeedItem `json:"recipes"`
	RecipeCount int                         `json:"recipe_count"`
	Saved       []entity.SavedRecipe        `json:"saved"`
	SavedCount  int                         `json:"saved_count"`
}

package entity

import "time"

// Rating bounds for reviews.
const (
	MinRating = 1
	MaxRating = 5
)

// Review is a star rating with an optional text body. One review per user
// per recipe, enforced by a unique index on (user_id, recipe_id).
type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_reviews_user_recipe,priority:1" json:"user_id"`
	RecipeID  uint      `gorm:"not null;uniqueIndex:idx_reviews_user_recipe,priority:2;index" json:"recipe_id"`
	Rating    int       `gorm:"not null" json:"rating"`
	Body      string    `gorm:"size:2000;not null;default:''" json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName sets the GORM table name.
func (Review) TableName() string {
	return "reviews"
}

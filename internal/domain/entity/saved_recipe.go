package entity

import "time"

// SavedRecipe is a bookmark. Unique per (user_id, recipe_id); during an
// account merge bookmarks of the absorbed user are dropped rather than moved,
// so the uniqueness cannot be violated against the surviving user's own rows.
type SavedRecipe struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_saved_user_recipe,priority:1" json:"user_id"`
	RecipeID  uint      `gorm:"not null;uniqueIndex:idx_saved_user_recipe,priority:2;index" json:"recipe_id"`
	CreatedAt time.Time `json:"created_at"`

	Recipe *Recipe `gorm:"foreignKey:RecipeID" json:"recipe,omitempty"`
}

// TableName sets the GORM table name.
func (SavedRecipe) TableName() string {
	return "saved_recipes"
}

package entity

import "time"

// Recipe categories.
const (
	CategoryVeg    = "VEG"
	CategoryNonVeg = "NON_VEG"
	CategoryEgg    = "EGG"
)

// ValidCategory reports whether c is one of the known recipe categories.
func ValidCategory(c string) bool {
	switch c {
	case CategoryVeg, CategoryNonVeg, CategoryEgg:
		return true
	}
	return false
}

// Recipe is a published recipe owned by a user.
type Recipe struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	AuthorID     uint           `gorm:"not null;index" json:"author_id"`
	Title        string         `gorm:"size:150;not null" json:"title"`
	Description  string         `gorm:"size:2000;not null;default:''" json:"description"`
	Category     string         `gorm:"size:20;not null;index" json:"category"`
	Servings     int            `gorm:"not null;default:1" json:"servings"`
	PrepTimeMin  int            `gorm:"not null;default:0" json:"prep_time_min"`
	CookTimeMin  int            `gorm:"not null;default:0" json:"cook_time_min"`
	TotalTimeMin int            `gorm:"not null;default:0;index" json:"total_time_min"`
	Ingredients  IngredientList `gorm:"type:jsonb;not null" json:"ingredients"`
	Steps        StringArray    `gorm:"type:jsonb;not null" json:"steps"`
	Images       StringArray    `gorm:"type:jsonb;not null" json:"images"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`

	Author *User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

// TableName sets the GORM table name.
func (Recipe) TableName() string {
	return "recipes"
}

package entity

import (
	"strings"
	"time"
)

// DefaultUserName is used when the identity provider supplies no name parts.
const DefaultUserName = "Chef"

// User represents one person. Rows are created lazily on first session
// resolution or by the identity webhook; email is the business key.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ClerkID      *string   `gorm:"size:255;uniqueIndex" json:"clerk_id,omitempty"`
	Email        string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Name         string    `gorm:"size:100;not null;default:''" json:"name"`
	ProfileImage string    `gorm:"size:512;not null;default:''" json:"profile_image,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName sets the GORM table name.
func (User) TableName() string {
	return "users"
}

// DisplayName builds the stored name from provider name parts, falling back
// to DefaultUserName when both are blank.
func DisplayName(firstName, lastName string) string {
	name := strings.TrimSpace(strings.TrimSpace(firstName) + " " + strings.TrimSpace(lastName))
	if name == "" {
		return DefaultUserName
	}
	return name
}

package repository

import (
	"github.com/yourusername/platera-api/internal/domain/entity"
)

// UserRepository defines persistence for user accounts.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id uint) (*entity.User, error)
	GetByClerkID(clerkID string) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	// FindAllByEmail returns every row holding the email, oldest first.
	// More than one row means the at-most-one-user-per-email invariant is
	// broken and a merge is due.
	FindAllByEmail(email string) ([]entity.User, error)
	// AttachClerkID links an external identity id to an existing row.
	AttachClerkID(userID uint, clerkID string) error
	UpdateProfile(userID uint, updates map[string]interface{}) error
	DeleteByClerkID(clerkID string) error
	// MergeInto moves all dependent rows of the stale user to the master and
	// deletes the stale row, atomically.
	MergeInto(staleID, masterID uint) error
	// DuplicateEmails returns emails that currently hold more than one row.
	DuplicateEmails() ([]string, error)
}

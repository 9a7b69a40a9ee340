package postgres

import (
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/yourusername/platera-api/internal/domain/entity"
	apperrors "github.com/yourusername/platera-api/internal/pkg/errors"
)

// UserRepo implements repository.UserRepository.
type UserRepo struct {
	db *gorm.DB
}

// NewUserRepo creates a new user repository.
func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create inserts a new user. A unique violation on email or clerk_id is
// reported as apperrors.ErrConflict so the caller can re-fetch the winner.
func (r *UserRepo) Create(user *entity.User) error {
	if err := r.db.Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %v", apperrors.ErrConflict, err)
		}
		return err
	}
	return nil
}

// GetByID returns a user by primary key.
func (r *UserRepo) GetByID(id uint) (*entity.User, error) {
	var user entity.User
	err := r.db.First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByClerkID returns the user linked to an external identity id.
// This is the hot path of session resolution, one indexed lookup.
func (r *UserRepo) GetByClerkID(clerkID string) (*entity.User, error) {
	var user entity.User
	err := r.db.Where("clerk_id = ?", clerkID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByEmail returns a user by email.
func (r *UserRepo) GetByEmail(email string) (*entity.User, error) {
	var user entity.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindAllByEmail returns every row holding the email, oldest first.
func (r *UserRepo) FindAllByEmail(email string) ([]entity.User, error) {
	var users []entity.User
	err := r.db.Where("email = ?", email).Order("id").Find(&users).Error
	return users, err
}

// AttachClerkID links an external identity id to an existing row.
func (r *UserRepo) AttachClerkID(userID uint, clerkID string) error {
	return r.db.Model(&entity.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"clerk_id":   clerkID,
			"updated_at": time.Now(),
		}).Error
}

// UpdateProfile updates the given columns of a user row.
func (r *UserRepo) UpdateProfile(userID uint, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()
	return r.db.Model(&entity.User{}).Where("id = ?", userID).Updates(updates).Error
}

// DeleteByClerkID removes the user linked to an external identity id.
// Dependent rows are removed by the ON DELETE CASCADE constraints.
func (r *UserRepo) DeleteByClerkID(clerkID string) error {
	return r.db.Where("clerk_id = ?", clerkID).Delete(&entity.User{}).Error
}

// MergeInto moves every dependent row of the stale user to the master and
// deletes the stale row, all inside one transaction: a crash mid-merge can
// never leave recipes orphaned or double-owned. Bookmarks of the stale user
// are deleted, not moved, so the (user_id, recipe_id) uniqueness cannot
// collide with the master's own bookmarks. Reviews carry the same composite
// uniqueness, so stale reviews on recipes the master already reviewed are
// dropped first and only the rest are repointed; the master's review wins.
// Re-running on an already merged pair updates zero rows and deletes nothing.
func (r *UserRepo) MergeInto(staleID, masterID uint) error {
	if staleID == masterID {
		return fmt.Errorf("%w: cannot merge a user into itself", apperrors.ErrValidation)
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entity.Recipe{}).
			Where("author_id = ?", staleID).
			Update("author_id", masterID).Error; err != nil {
			return fmt.Errorf("failed to repoint recipes: %w", err)
		}

		masterReviewed := tx.Session(&gorm.Session{NewDB: true}).
			Model(&entity.Review{}).
			Select("recipe_id").
			Where("user_id = ?", masterID)
		if err := tx.Where("user_id = ? AND recipe_id IN (?)", staleID, masterReviewed).
			Delete(&entity.Review{}).Error; err != nil {
			return fmt.Errorf("failed to drop conflicting reviews: %w", err)
		}

		if err := tx.Model(&entity.Review{}).
			Where("user_id = ?", staleID).
			Update("user_id", masterID).Error; err != nil {
			return fmt.Errorf("failed to repoint reviews: %w", err)
		}

		if err := tx.Where("user_id = ?", staleID).
			Delete(&entity.SavedRecipe{}).Error; err != nil {
			return fmt.Errorf("failed to drop stale bookmarks: %w", err)
		}

		if err := tx.Model(&entity.Comment{}).
			Where("user_id = ?", staleID).
			Update("user_id", masterID).Error; err != nil {
			return fmt.Errorf("failed to repoint comments: %w", err)
		}

		if err := tx.Delete(&entity.User{}, staleID).Error; err != nil {
			return fmt.Errorf("failed to delete stale user: %w", err)
		}

		return nil
	})
}

// DuplicateEmails returns emails currently held by more than one row.
func (r *UserRepo) DuplicateEmails() ([]string, error) {
	var emails []string
	err := r.db.Model(&entity.User{}).
		Select("email").
		Group("email").
		Having("COUNT(*) > 1").
		Pluck("email", &emails).Error
	return emails, err
}

// isUniqueViolation detects a Postgres unique violation (23505) for both the
// pgx and lib/pq drivers.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	return false
}

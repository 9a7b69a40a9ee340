package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/yourusername/platera-api/internal/domain/entity"
	"github.com/yourusername/platera-api/internal/domain/repository"
	"github.com/yourusername/platera-api/internal/identity"
	apperrors "github.com/yourusername/platera-api/internal/pkg/errors"
)

// IdentityProvider is the slice of the provider client the account service
// needs: profile lookup for lazy sync.
type IdentityProvider interface {
	FetchUser(ctx context.Context, externalID string) (*identity.Profile, error)
}

// AccountService resolves the local user account for an authenticated
// session, creating or linking rows lazily and healing duplicate accounts
// that share one email.
type AccountService struct {
	userRepo repository.UserRepository
	provider IdentityProvider
	email    EmailService
}

// NewAccountService creates a new account service.
func NewAccountService(userRepo repository.UserRepository, provider IdentityProvider, email EmailService) *AccountService {
	if email == nil {
		email = &NoopEmailService{}
	}
	return &AccountService{
		userRepo: userRepo,
		provider: provider,
		email:    email,
	}
}

// CurrentUser returns exactly one local user for the external identity id of
// the active session, or nil when there is no session. Absence is not an
// error: every failure past the indexed hot-path lookup is logged and the
// caller receives whatever user could be resolved, possibly nil.
//
// The common case (id already linked) is a single indexed lookup. On a miss
// the profile is fetched from the provider and the account is created, or
// linked to an existing row with the same email if one exists. Finally any
// duplicate rows sharing the resolved email are merged into the session's
// user.
func (s *AccountService) CurrentUser(ctx context.Context, clerkID string) (*entity.User, error) {
	clerkID = strings.TrimSpace(clerkID)
	if clerkID == "" {
		return nil, nil
	}

	user, err := s.userRepo.GetByClerkID(clerkID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		log.Printf("[AccountService] lookup by external id failed: %v", err)
		user = nil
	}

	if user == nil {
		user = s.lazySync(ctx, clerkID)
	}

	if user != nil && user.Email != "" {
		if err := s.reconcileDuplicates(user); err != nil {
			// Best-effort: a failed merge must never block the session.
			log.Printf("[AccountService] duplicate merge for email %s failed: %v", user.Email, err)
		}
	}

	return user, nil
}

// lazySync materializes a local row for a provider identity seen for the
// first time. All failures are logged and swallowed; the degraded result is
// a nil user.
func (s *AccountService) lazySync(ctx context.Context, clerkID string) *entity.User {
	profile, err := s.provider.FetchUser(ctx, clerkID)
	if err != nil {
		log.Printf("[AccountService] lazy sync: provider fetch failed for %s: %v", clerkID, err)
		return nil
	}
	if profile == nil || profile.Email == "" {
		// No email means no business key to create or link by.
		log.Printf("[AccountService] lazy sync: no email for external id %s, skipping", clerkID)
		return nil
	}

	existing, err := s.userRepo.GetByEmail(profile.Email)
	if err == nil {
		// Row created by another flow (e.g. the webhook) without the
		// external id attached. Link, don't duplicate.
		if err := s.userRepo.AttachClerkID(existing.ID, clerkID); err != nil {
			log.Printf("[AccountService] lazy sync: failed to link external id to user %d: %v", existing.ID, err)
			return nil
		}
		existing.ClerkID = &clerkID
		return existing
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		log.Printf("[AccountService] lazy sync: lookup by email failed: %v", err)
		return nil
	}

	user := &entity.User{
		ClerkID:      &clerkID,
		Email:        profile.Email,
		Name:         entity.DisplayName(profile.FirstName, profile.LastName),
		ProfileImage: profile.ImageURL,
	}
	err = s.userRepo.Create(user)
	if err == nil {
		return user
	}
	if errors.Is(err, apperrors.ErrConflict) {
		// Lost a concurrent create race on the email unique constraint.
		// Re-fetch the winner and link to it.
		winner, fetchErr := s.userRepo.GetByEmail(profile.Email)
		if fetchErr != nil {
			log.Printf("[AccountService] lazy sync: conflict recovery failed for %s: %v", profile.Email, fetchErr)
			return nil
		}
		if winner.ClerkID == nil {
			if linkErr := s.userRepo.AttachClerkID(winner.ID, clerkID); linkErr != nil {
				log.Printf("[AccountService] lazy sync: conflict link failed for user %d: %v", winner.ID, linkErr)
				return nil
			}
			winner.ClerkID = &clerkID
		}
		return winner
	}

	log.Printf("[AccountService] lazy sync: create failed for %s: %v", profile.Email, err)
	return nil
}

// reconcileDuplicates merges every other row holding the master's email into
// the master. The session's user always survives; each stale row is merged
// in its own transaction, so a failure for one does not undo the others.
func (s *AccountService) reconcileDuplicates(master *entity.User) error {
	duplicates, err := s.userRepo.FindAllByEmail(master.Email)
	if err != nil {
		return err
	}
	if len(duplicates) <= 1 {
		return nil
	}

	log.Printf("[AccountService] found %d users for email %s, merging into %d",
		len(duplicates), master.Email, master.ID)

	var firstErr error
	for _, stale := range duplicates {
		if stale.ID == master.ID {
			continue
		}
		if err := s.userRepo.MergeInto(stale.ID, master.ID); err != nil {
			log.Printf("[AccountService] merge of user %d into %d failed: %v", stale.ID, master.ID, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		log.Printf("[AccountService] merged stale user %d into %d", stale.ID, master.ID)
	}
	return firstErr
}

// SyncFromProvider upserts a local user from an identity change event.
// Events without an email are ignored. Returns the affected user and whether
// a new row was created.
func (s *AccountService) SyncFromProvider(ctx context.Context, clerkID, email, firstName, lastName, imageURL string) (*entity.User, bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, false, nil
	}
	name := entity.DisplayName(firstName, lastName)

	existing, err := s.userRepo.GetByEmail(email)
	if err == nil {
		updates := map[string]interface{}{
			"clerk_id":      clerkID,
			"name":          name,
			"profile_image": imageURL,
		}
		if err := s.userRepo.UpdateProfile(existing.ID, updates); err != nil {
			return nil, false, err
		}
		existing.ClerkID = &clerkID
		existing.Name = name
		existing.ProfileImage = imageURL
		return existing, false, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, false, err
	}

	user := &entity.User{
		ClerkID:      &clerkID,
		Email:        email,
		Name:         name,
		ProfileImage: imageURL,
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			// Concurrent create from another event or a session: retry as an
			// update against the winner.
			return s.SyncFromProvider(ctx, clerkID, email, firstName, lastName, imageURL)
		}
		return nil, false, err
	}

	if err := s.email.SendWelcome(ctx, user.Email, user.Name); err != nil {
		// Welcome mail is a courtesy, never a failure of the sync.
		log.Printf("[AccountService] welcome email to %s failed: %v", user.Email, err)
	}

	return user, true, nil
}

// DeleteByClerkID removes the local user when the provider reports deletion.
// Dependent rows go with it via the cascading foreign keys.
func (s *AccountService) DeleteByClerkID(clerkID string) error {
	clerkID = strings.TrimSpace(clerkID)
	if clerkID == "" {
		return nil
	}
	return s.userRepo.DeleteByClerkID(clerkID)
}

// ReconcileAllDuplicates sweeps the whole store for emails held by more than
// one row and merges each group. Used by the offline reconcile command; the
// surviving row is the one with an external id attached, else the oldest.
// Returns the number of stale rows merged away.
func (s *AccountService) ReconcileAllDuplicates() (int, error) {
	emails, err := s.userRepo.DuplicateEmails()
	if err != nil {
		return 0, err
	}

	merged := 0
	for _, email := range emails {
		rows, err := s.userRepo.FindAllByEmail(email)
		if err != nil {
			log.Printf("[AccountService] reconcile: listing %s failed: %v", email, err)
			continue
		}
		if len(rows) <= 1 {
			continue
		}

		master := rows[0] // oldest
		for _, row := range rows {
			if row.ClerkID != nil {
				master = row
				break
			}
		}

		for _, stale := range rows {
			if stale.ID == master.ID {
				continue
			}
			if err := s.userRepo.MergeInto(stale.ID, master.ID); err != nil {
				log.Printf("[AccountService] reconcile: merge of user %d into %d failed: %v", stale.ID, master.ID, err)
				continue
			}
			merged++
		}
	}
	return merged, nil
}

package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/redmonkez12/go-task-api/internal/logging"
)

// Store is the credential store used by the profile service.
type Store interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, name, email string) (*User, error)
}

// Service handles profile reads and updates for the authenticated user.
type Service struct {
	store  Store
	cache  ProfileCache
	logger *logging.Logger
}

func NewService(store Store, cache ProfileCache, logger *logging.Logger) *Service {
	return &Service{store: store, cache: cache, logger: logger}
}

// GetProfile returns the public view of the user, reading through the cache.
// Cache failures fall back to the store. The fill never overwrites an entry
// written by UpdateProfile in the meantime.
func (s *Service) GetProfile(ctx context.Context, id uuid.UUID) (*PublicUser, error) {
	cached, err := s.cache.Get(ctx, id)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		s.logger.Warn("profile cache read failed", "user_id", id, "error", err)
	}

	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	public := u.Public()
	if err := s.cache.Add(ctx, public); err != nil {
		s.logger.Warn("profile cache write failed", "user_id", id, "error", err)
	}

	return public, nil
}

// UpdateProfile changes name and email. An email owned by another account
// yields ErrDuplicateEmail.
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, in UpdateProfileInput) (*PublicUser, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	owner, err := s.store.GetByEmail(ctx, in.Email)
	switch {
	case err == nil && owner.ID != id:
		return nil, ErrDuplicateEmail
	case err != nil && !errors.Is(err, ErrNotFound):
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	updated, err := s.store.UpdateProfile(ctx, id, in.Name, in.Email)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	public := updated.Public()
	if err := s.cache.Set(ctx, public); err != nil {
		s.logger.Warn("profile cache write failed, evicting", "user_id", id, "error", err)
		if err := s.cache.Delete(ctx, id); err != nil {
			s.logger.Warn("profile cache evict failed", "user_id", id, "error", err)
		}
	}

	return public, nil
}

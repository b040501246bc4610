package app

import (
	"context"
	"strings"

	"github.com/nhle/momentum/internal/model"
	"github.com/nhle/momentum/internal/store"
)

// Profile returns the stored profile of userID.
func (s *Service) Profile(ctx context.Context, userID string) (*model.UserProfile, error) {
	return s.store.GetProfile(ctx, userID)
}

// PutProfile creates or updates a profile. CreatedAt is kept from the
// stored copy.
func (s *Service) PutProfile(ctx context.Context, p model.UserProfile) (*model.UserProfile, error) {
	p.UserID = strings.TrimSpace(p.UserID)
	p.Hobbies = dedupe(p.Hobbies)
	if err := validate(&p); err != nil {
		return nil, err
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.clock.Now()
	}

	if err := s.write(ctx, "put profile", func(r store.Repo) error {
		return r.PutProfile(ctx, &p)
	}); err != nil {
		return nil, err
	}
	return s.store.GetProfile(ctx, p.UserID)
}

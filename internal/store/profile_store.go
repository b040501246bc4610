package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nhle/momentum/internal/model"
)

type profileRow struct {
	model.UserProfile
	HobbiesJSON     string `db:"hobbies"`
	SocialLinksJSON string `db:"social_links"`
	PreferencesJSON string `db:"preferences"`
}

const profileColumns = `user_id, display_name, avatar, bio, location,
	hobbies, social_links, preferences, created_at, updated_at`

// PutProfile inserts or replaces a user profile. CreatedAt is kept from
// the first write; UpdatedAt is always refreshed.
func (r *repo) PutProfile(ctx context.Context, profile *model.UserProfile) error {
	now := time.Now().UTC()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.CreatedAt = profile.CreatedAt.UTC()
	profile.UpdatedAt = now

	hobbies, err := encodeJSON(profile.Hobbies, "[]")
	if err != nil {
		return fmt.Errorf("encoding hobbies for profile %s: %w", profile.UserID, err)
	}
	links, err := encodeJSON(profile.SocialLinks, "{}")
	if err != nil {
		return fmt.Errorf("encoding social links for profile %s: %w", profile.UserID, err)
	}
	prefs, err := encodeJSON(profile.Preferences, "{}")
	if err != nil {
		return fmt.Errorf("encoding preferences for profile %s: %w", profile.UserID, err)
	}

	_, err = r.q.ExecContext(ctx, `
		INSERT INTO user_profiles (`+profileColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			display_name = excluded.display_name, avatar = excluded.avatar,
			bio = excluded.bio, location = excluded.location,
			hobbies = excluded.hobbies, social_links = excluded.social_links,
			preferences = excluded.preferences, updated_at = excluded.updated_at`,
		profile.UserID, profile.DisplayName, profile.Avatar, profile.Bio, profile.Location,
		hobbies, links, prefs, profile.CreatedAt, profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("saving profile %s: %w", profile.UserID, err)
	}
	return nil
}

// GetProfile retrieves the profile for userID.
func (r *repo) GetProfile(ctx context.Context, userID string) (*model.UserProfile, error) {
	var row profileRow
	err := r.q.GetContext(ctx, &row,
		"SELECT "+profileColumns+" FROM user_profiles WHERE user_id = ?", userID)
	if err != nil {
		return nil, notFound(err, "profile", userID)
	}

	p := row.UserProfile
	if p.Hobbies, err = decodeStrings(row.HobbiesJSON); err != nil {
		return nil, fmt.Errorf("decoding hobbies for profile %s: %w", userID, err)
	}
	p.SocialLinks = map[string]string{}
	if err := json.Unmarshal([]byte(row.SocialLinksJSON), &p.SocialLinks); err != nil {
		return nil, fmt.Errorf("decoding social links for profile %s: %w", userID, err)
	}
	p.Preferences = map[string]string{}
	if err := json.Unmarshal([]byte(row.PreferencesJSON), &p.Preferences); err != nil {
		return nil, fmt.Errorf("decoding preferences for profile %s: %w", userID, err)
	}
	return &p, nil
}

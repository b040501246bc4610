package model

import "time"

// UserProfile is the locally stored profile of an authenticated user.
type UserProfile struct {
	UserID      string            `json:"user_id" db:"user_id" validate:"required"`
	DisplayName string            `json:"display_name" db:"display_name"`
	Avatar      string            `json:"avatar,omitempty" db:"avatar"`
	Bio         string            `json:"bio,omitempty" db:"bio"`
	Location    string            `json:"location,omitempty" db:"location"`
	Hobbies     []string          `json:"hobbies" db:"-"`
	SocialLinks map[string]string `json:"social_links" db:"-"`
	Preferences map[string]string `json:"preferences" db:"-"`
	CreatedAt   time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at" db:"updated_at"`
}

package models

import (
	"strings"
	"time"
)

// Profile holds the public presentation of a user. ID equals the user's uid.
type Profile struct {
	ID          string         `bson:"id" json:"-"`
	DisplayName string         `bson:"displayName" json:"displayName"`
	Bio         string         `bson:"bio" json:"bio"`
	LocationOpt *string        `bson:"locationOpt" json:"locationOpt"`
	Preferences map[string]any `bson:"preferences" json:"preferences"`
	UpdatedAt   time.Time      `bson:"updatedAt" json:"updatedAt"`
}

// UpsertProfileInput replaces the caller's profile fields.
type UpsertProfileInput struct {
	DisplayName string         `json:"displayName" validate:"min=2,max=60"`
	Bio         *string        `json:"bio" validate:"omitempty,max=500"`
	LocationOpt *string        `json:"locationOpt" validate:"omitempty,max=120"`
	Preferences map[string]any `json:"preferences"`
}

func (in *UpsertProfileInput) Normalize() {
	in.DisplayName = strings.TrimSpace(in.DisplayName)
}

// DefaultDisplayName derives a display name from the local part of an email.
func DefaultDisplayName(email string) string {
	local, _, _ := strings.Cut(email, "@")
	local = strings.TrimSpace(local)
	if len([]rune(local)) < 2 {
		return "Member"
	}
	if r := []rune(local); len(r) > 60 {
		return string(r[:60])
	}
	return local
}

// ValidPreferences reports whether every value is a string, number, boolean or list of strings.
func ValidPreferences(prefs map[string]any) bool {
	for _, v := range prefs {
		switch val := v.(type) {
		case string, float64, bool:
		case []any:
			for _, el := range val {
				if _, ok := el.(string); !ok {
					return false
				}
			}
		default:
			return false
		}
	}
	return true
}

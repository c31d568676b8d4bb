package models

import (
	"strings"
	"time"
)

// ThemeWeek is a weekly community theme. Ranges never overlap.
type ThemeWeek struct {
	ID               string    `bson:"id" json:"id"`
	WeekStart        time.Time `bson:"weekStart" json:"weekStart"`
	WeekEnd          time.Time `bson:"weekEnd" json:"weekEnd"`
	ThemeSlug        string    `bson:"themeSlug" json:"themeSlug"`
	Title            string    `bson:"title" json:"title"`
	EcoImpactSummary string    `bson:"ecoImpactSummary" json:"ecoImpactSummary"`
	CreatedAt        time.Time `bson:"createdAt" json:"createdAt"`
}

// Contains reports whether t falls inside the inclusive week range.
func (t ThemeWeek) Contains(at time.Time) bool {
	return !t.WeekStart.After(at) && !t.WeekEnd.Before(at)
}

type CreateThemeWeekInput struct {
	WeekStartISO     string `json:"weekStartIso" validate:"isodatetime"`
	WeekEndISO       string `json:"weekEndIso" validate:"isodatetime"`
	ThemeSlug        string `json:"themeSlug" validate:"min=3,max=80,themeslug"`
	Title            string `json:"title" validate:"min=3,max=120"`
	EcoImpactSummary string `json:"ecoImpactSummary" validate:"max=1000"`
}

func (in *CreateThemeWeekInput) Normalize() {
	in.ThemeSlug = strings.TrimSpace(in.ThemeSlug)
	in.Title = strings.TrimSpace(in.Title)
	in.EcoImpactSummary = strings.TrimSpace(in.EcoImpactSummary)
}

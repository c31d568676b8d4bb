package models

import "time"

// AISuggestion is a generated exchange idea awaiting or past moderation.
type AISuggestion struct {
	ID             string          `bson:"id" json:"id"`
	ThemeWeekID    string          `bson:"themeWeekId" json:"themeWeekId"`
	Title          string          `bson:"title" json:"title"`
	Rationale      string          `bson:"rationale" json:"rationale"`
	Tags           []string        `bson:"tags" json:"tags"`
	CategoryHints  []string        `bson:"categoryHints" json:"categoryHints"`
	DiversityFlags map[string]bool `bson:"diversityFlags" json:"diversityFlags"`
	CreatedAt      time.Time       `bson:"createdAt" json:"createdAt"`
	Published      bool            `bson:"published" json:"published"`
	ApprovedBy     *string         `bson:"approvedBy" json:"approvedBy"`
}

// SuggestionDraft is one provider-produced suggestion before persistence.
type SuggestionDraft struct {
	Title          string          `json:"title" validate:"min=3,max=120"`
	Rationale      string          `json:"rationale" validate:"min=12,max=600"`
	Tags           []string        `json:"tags" validate:"min=2,max=8,dive,min=2,max=30"`
	CategoryHints  []string        `json:"categoryHints" validate:"min=1,max=5,dive,min=2,max=40"`
	DiversityFlags map[string]bool `json:"diversityFlags" validate:"required"`
}

type SuggestionFilter struct {
	Published   bool
	ThemeWeekID string
}

type SuggestionIDInput struct {
	SuggestionID string `json:"suggestionId" validate:"min=1"`
}

// GenerateSuggestionsInput is the admin command body for a manual run.
type GenerateSuggestionsInput struct {
	Force             *bool   `json:"force"`
	DesiredCount      *int    `json:"desiredCount" validate:"omitempty,min=3,max=20"`
	Language          *string `json:"language" validate:"omitempty,min=2,max=10"`
	FallbackThemeSlug *string `json:"fallbackThemeSlug" validate:"omitempty,min=3,max=80,themeslug"`
}

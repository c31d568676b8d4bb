package models

import (
	"strings"
	"time"
)

type EcoContentType string

const (
	EcoArticle EcoContentType = "article"
	EcoVideo   EcoContentType = "video"
	EcoStat    EcoContentType = "stat"
)

// EcoContent is an educational article, video or statistic. It is visible to the
// public once PublishedAt has passed.
type EcoContent struct {
	ID          string         `bson:"id" json:"id"`
	ThemeWeekID *string        `bson:"themeWeekId" json:"themeWeekId"`
	Type        EcoContentType `bson:"type" json:"type"`
	Title       string         `bson:"title" json:"title"`
	Summary     string         `bson:"summary" json:"summary"`
	SourceURL   string         `bson:"sourceUrl" json:"sourceUrl"`
	Tags        []string       `bson:"tags" json:"tags"`
	Lang        string         `bson:"lang" json:"lang"`
	PublishedAt time.Time      `bson:"publishedAt" json:"publishedAt"`
	CreatedAt   time.Time      `bson:"createdAt" json:"createdAt"`
}

// IsPublished reports whether the content is publicly visible at now.
func (e EcoContent) IsPublished(now time.Time) bool {
	return !e.PublishedAt.IsZero() && !e.PublishedAt.After(now)
}

// EcoView is an append-only view event.
type EcoView struct {
	ID          string    `bson:"id" json:"id"`
	ContentID   string    `bson:"contentId" json:"contentId"`
	ThemeWeekID *string   `bson:"themeWeekId" json:"themeWeekId"`
	Timestamp   time.Time `bson:"timestamp" json:"timestamp"`
}

type CreateEcoContentInput struct {
	ThemeWeekID    *string        `json:"themeWeekId" validate:"omitempty,min=1"`
	Type           EcoContentType `json:"type" validate:"oneof=article video stat"`
	Title          string         `json:"title" validate:"min=3,max=180"`
	Summary        string         `json:"summary" validate:"min=10,max=1000"`
	SourceURL      string         `json:"sourceUrl" validate:"url"`
	Tags           []string       `json:"tags" validate:"min=1,max=10,dive,min=2,max=30"`
	Lang           string         `json:"lang" validate:"min=2,max=10"`
	PublishedAtISO *string        `json:"publishedAtIso" validate:"omitempty,isodatetime"`
}

func (in *CreateEcoContentInput) Normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Summary = strings.TrimSpace(in.Summary)
	in.Lang = strings.TrimSpace(in.Lang)
	for i, tag := range in.Tags {
		in.Tags[i] = strings.TrimSpace(tag)
	}
}

type TrackEcoViewInput struct {
	ContentID   string  `json:"contentId" validate:"min=1"`
	ThemeWeekID *string `json:"themeWeekId" validate:"omitempty,min=1"`
}

// EcoFilter narrows eco content listings. Zero values mean no filter.
type EcoFilter struct {
	Type        EcoContentType
	Tag         string
	ThemeWeekID string
	Lang        string
}

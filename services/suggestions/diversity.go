package suggestions

import (
	"errors"
	"fmt"
	"strings"

	"secondlife/models"
)

// MinDistinctCategoryHints is the smallest number of distinct category hints a batch may carry.
const MinDistinctCategoryHints = 3

var (
	ErrMissingVintage   = errors.New("Weekly AI suggestions must include at least one vintage item.")
	ErrMissingArtisanal = errors.New("Weekly AI suggestions must include at least one artisanal item.")
)

// DiversitySummary counts the traits of a generated batch.
type DiversitySummary struct {
	VintageCount          int
	ArtisanalCount        int
	DistinctCategoryHints []string
}

// SummarizeDiversity tallies flags and the trimmed, lower-cased category hints.
func SummarizeDiversity(drafts []models.SuggestionDraft) DiversitySummary {
	var summary DiversitySummary
	seen := map[string]bool{}
	for _, d := range drafts {
		if d.DiversityFlags["vintage"] {
			summary.VintageCount++
		}
		if d.DiversityFlags["artisanal"] {
			summary.ArtisanalCount++
		}
		for _, hint := range d.CategoryHints {
			key := strings.ToLower(strings.TrimSpace(hint))
			if !seen[key] {
				seen[key] = true
				summary.DistinctCategoryHints = append(summary.DistinctCategoryHints, key)
			}
		}
	}
	return summary
}

// AssertDiversity fails when the batch lacks a vintage item, an artisanal item,
// or enough distinct category hints. The first violation wins.
func AssertDiversity(drafts []models.SuggestionDraft, minDistinctHints int) error {
	summary := SummarizeDiversity(drafts)
	switch {
	case summary.VintageCount < 1:
		return ErrMissingVintage
	case summary.ArtisanalCount < 1:
		return ErrMissingArtisanal
	case len(summary.DistinctCategoryHints) < minDistinctHints:
		return fmt.Errorf("Weekly AI suggestions must include at least %d distinct category hints.", minDistinctHints)
	}
	return nil
}

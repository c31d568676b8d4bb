package ai

import (
	"encoding/json"
	"fmt"
	"testing"

	"secondlife/models"

	"github.com/stretchr/testify/require"
)

func validInput() WeeklySuggestionsInput {
	return WeeklySuggestionsInput{
		ThemeTitle:   "Repair week",
		ThemeSlug:    "repair-week",
		WeekStartISO: "2026-03-02T00:00:00Z",
		WeekEndISO:   "2026-03-08T23:59:59Z",
		DesiredCount: 3,
		Language:     "fr",
	}
}

func draft(i int, flags map[string]bool, hints ...string) models.SuggestionDraft {
	return models.SuggestionDraft{
		Title:          fmt.Sprintf("Suggestion %d", i),
		Rationale:      "Keeps a useful object in circulation.",
		Tags:           []string{"repair", "reuse"},
		CategoryHints:  hints,
		DiversityFlags: flags,
	}
}

func validOutput() WeeklySuggestionsOutput {
	return WeeklySuggestionsOutput{Suggestions: []models.SuggestionDraft{
		draft(1, map[string]bool{"vintage": true, "artisanal": false}, "furniture"),
		draft(2, map[string]bool{"vintage": false, "artisanal": true, "localCraft": true}, "textile"),
		draft(3, map[string]bool{"vintage": false, "artisanal": false}, "kitchen"),
	}}
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return string(raw)
}

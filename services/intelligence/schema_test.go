package ai

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOutputAcceptsWrappedJSON(t *testing.T) {
	text := "```json\n" + mustJSON(t, validOutput()) + "\n```"

	out, err := ParseOutput(text)
	require.NoError(t, err)
	assert.Len(t, out.Suggestions, 3)
	assert.True(t, out.Suggestions[1].DiversityFlags["localCraft"])
}

func TestParseOutputRejectsUnknownFields(t *testing.T) {
	text := strings.Replace(mustJSON(t, validOutput()), `"title"`, `"extra":1,"title"`, 1)

	_, err := ParseOutput(text)
	assert.Error(t, err)
}

func TestParseOutputRejectsNonBooleanFlags(t *testing.T) {
	text := strings.Replace(mustJSON(t, validOutput()), `"vintage":true`, `"vintage":"yes"`, 1)

	_, err := ParseOutput(text)
	assert.Error(t, err)
}

func TestParseOutputRequiresVintageAndArtisanalFlags(t *testing.T) {
	out := validOutput()
	delete(out.Suggestions[2].DiversityFlags, "artisanal")

	_, err := ParseOutput(mustJSON(t, out))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "artisanal")
}

func TestParseOutputEnforcesBounds(t *testing.T) {
	tooFew := validOutput()
	tooFew.Suggestions = tooFew.Suggestions[:2]
	_, err := ParseOutput(mustJSON(t, tooFew))
	assert.Error(t, err)

	shortRationale := validOutput()
	shortRationale.Suggestions[0].Rationale = "too short"
	_, err = ParseOutput(mustJSON(t, shortRationale))
	assert.Error(t, err)

	oneTag := validOutput()
	oneTag.Suggestions[0].Tags = []string{"solo"}
	_, err = ParseOutput(mustJSON(t, oneTag))
	assert.Error(t, err)
}

func TestValidateInput(t *testing.T) {
	assert.NoError(t, validateInput(validInput()))

	bad := validInput()
	bad.ThemeSlug = "Repair Week"
	assert.Error(t, validateInput(bad))

	bad = validInput()
	bad.DesiredCount = 21
	assert.Error(t, validateInput(bad))

	bad = validInput()
	bad.WeekStartISO = "next monday"
	assert.Error(t, validateInput(bad))
}

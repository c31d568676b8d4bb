package ai

import (
	"fmt"
	"strings"
)

// responseShape documents the JSON object the providers must return.
const responseShape = `{
  "suggestions": [
    {
      "title": "string",
      "rationale": "string",
      "tags": [
        "string"
      ],
      "categoryHints": [
        "string"
      ],
      "diversityFlags": {
        "vintage": true,
        "artisanal": true,
        "upcycled": true,
        "repairable": true,
        "localCraft": true
      }
    }
  ]
}`

const diversityInstruction = "Diversity constraints: include at least one vintage and one artisanal suggestion."

const openAISystemPrompt = "You generate second-hand item suggestions and must answer using strict JSON only."

func geminiPrompt(in WeeklySuggestionsInput) string {
	return strings.Join([]string{
		"You generate second-hand exchange object suggestions.",
		"Return STRICT JSON only with no markdown and no extra text.",
		"Expected JSON shape:",
		responseShape,
		fmt.Sprintf("Theme context: %s (%s)", in.ThemeTitle, in.ThemeSlug),
		fmt.Sprintf("Week range: %s -> %s", in.WeekStartISO, in.WeekEndISO),
		fmt.Sprintf("Language: %s", in.Language),
		fmt.Sprintf("Suggestion count: %d", in.DesiredCount),
		diversityInstruction,
		"Cover multiple categories and include practical, repairable, and low-impact ideas.",
	}, "\n")
}

func openAIUserPrompt(in WeeklySuggestionsInput) string {
	return strings.Join([]string{
		"Expected JSON shape:",
		responseShape,
		fmt.Sprintf("Theme: %s (%s)", in.ThemeTitle, in.ThemeSlug),
		fmt.Sprintf("Week: %s -> %s", in.WeekStartISO, in.WeekEndISO),
		fmt.Sprintf("Language: %s", in.Language),
		fmt.Sprintf("Count: %d", in.DesiredCount),
		diversityInstruction,
	}, "\n")
}

package ai

import (
	"bytes"
	"encoding/json"
	"fmt"

	"secondlife/utils"
)

// requiredFlags must be present on every suggestion's diversityFlags.
var requiredFlags = []string{"vintage", "artisanal"}

func validateInput(in WeeklySuggestionsInput) error {
	if err := utils.Validator().Struct(in); err != nil {
		return fmt.Errorf("invalid provider input: %v", err)
	}
	return nil
}

// ParseOutput extracts, strictly decodes and validates a provider answer.
func ParseOutput(text string) (*WeeklySuggestionsOutput, error) {
	raw, err := ExtractJSON(text)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.DisallowUnknownFields()
	var out WeeklySuggestionsOutput
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode provider output: %w", err)
	}

	if err := utils.Validator().Struct(out); err != nil {
		return nil, fmt.Errorf("provider output failed validation: %v", err)
	}
	for i, s := range out.Suggestions {
		for _, flag := range requiredFlags {
			if _, ok := s.DiversityFlags[flag]; !ok {
				return nil, fmt.Errorf("provider output failed validation: suggestions[%d].diversityFlags.%s is required", i, flag)
			}
		}
	}
	return &out, nil
}

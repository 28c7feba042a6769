package generator

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	minLengthRatio = 0.5
	maxLengthRatio = 2.0
)

type rewriteResponse struct {
	Paragraph string `json:"paragraph"`
}

type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Errors, "; "))
}

// ParseResponse extracts the rewritten paragraph from a model response,
// tolerating markdown code fences.
func ParseResponse(responseBody string) (string, error) {
	cleaned := stripCodeFences(responseBody)

	var resp rewriteResponse
	if err := json.Unmarshal([]byte(cleaned), &resp); err != nil {
		return "", fmt.Errorf("failed to parse JSON response: %w", err)
	}
	return strings.TrimSpace(resp.Paragraph), nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimSpace(s)
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSpace(s)
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}
	return s
}

// ValidateRewrite checks a rewrite against its source. Lengths are compared
// in runes.
func ValidateRewrite(source, rewritten, marker string) error {
	var errs []string

	if rewritten == "" {
		return &ValidationError{Errors: []string{"rewrite is empty"}}
	}

	if rewritten == strings.TrimSpace(source) {
		errs = append(errs, "rewrite is identical to the source")
	}

	srcLen := utf8.RuneCountInString(strings.TrimSpace(source))
	if srcLen > 0 {
		ratio := float64(utf8.RuneCountInString(rewritten)) / float64(srcLen)
		if ratio < minLengthRatio || ratio > maxLengthRatio {
			errs = append(errs, fmt.Sprintf("length ratio %.2f outside [%.1f, %.1f]", ratio, minLengthRatio, maxLengthRatio))
		}
	}

	if marker != "" {
		want := strings.Count(source, marker)
		if got := strings.Count(rewritten, marker); got != want {
			errs = append(errs, fmt.Sprintf("mask token %s appears %d times, want %d", marker, got, want))
		}
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

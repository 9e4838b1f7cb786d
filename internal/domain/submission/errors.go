// internal/domain/submission/errors.go

package submission

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound indicates the requested trend does not exist
	ErrNotFound = errors.New("trend not found")

	// ErrUnsupportedPlatform indicates the URL matches no allow-listed platform
	ErrUnsupportedPlatform = errors.New("unsupported platform")

	// ErrAlreadySubmitted indicates the trend was previously accepted for
	// this spotter (unique violation on the canonical URL or submission key)
	ErrAlreadySubmitted = errors.New("trend already submitted")

	// ErrSubmitInFlight indicates a submit is already in progress for this
	// spotter; the second attempt is rejected without a network write
	ErrSubmitInFlight = errors.New("submission already in progress")

	// ErrTimeout indicates the submit write exceeded its deadline
	ErrTimeout = errors.New("submission timed out")
)

// ValidationError carries field-level messages for user-correctable input
// problems. It never reaches the storage layer.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "invalid submission"
	}
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)
	return fmt.Sprintf("invalid submission: %s", strings.Join(names, ", "))
}

// Validate checks the draft against the submission invariants and returns a
// ValidationError describing every violation, or nil when the draft is
// complete enough to submit.
func (d Draft) Validate() error {
	fields := map[string]string{}

	if strings.TrimSpace(d.URL) == "" {
		fields["url"] = "url is required"
	}
	if len(strings.TrimSpace(d.Title)) < 3 {
		fields["title"] = "title must be at least 3 characters"
	}
	if d.Platform == "" {
		fields["platform"] = "platform is required"
	} else if !KnownPlatform(d.Platform) {
		fields["platform"] = fmt.Sprintf("unknown platform %q", d.Platform)
	}
	if d.Category == "" {
		fields["category"] = "category is required"
	} else if !KnownCategory(d.Category) {
		fields["category"] = fmt.Sprintf("unknown category %q", d.Category)
	}
	if d.Likes < 0 || d.Comments < 0 || d.Shares < 0 || d.Views < 0 {
		fields["counts"] = "engagement counts must be non-negative"
	}
	if d.WaveScore < 0 || d.WaveScore > 100 {
		fields["wave_score"] = "wave score must be between 0 and 100"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

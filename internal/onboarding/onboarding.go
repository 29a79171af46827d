package onboarding

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/wavelit/creatorhub/internal/models"
)

// Validation errors
var (
	ErrWrongURLCount = errors.New("wrong number of content URLs")
	ErrInvalidURL    = errors.New("content URL must point to tiktok.com or instagram.com")
	ErrDuplicateURL  = errors.New("content URLs must be distinct")
)

// Step is a creator's position in the onboarding sequence
type Step string

const (
	StepSubmitURLs      Step = "submit_urls"
	StepConnectAccounts Step = "connect_accounts"
	StepDone            Step = "done"
)

// ParseStep parses an explicitly requested step, e.g. from a query parameter
// when resuming after an external OAuth redirect. Unknown values are
// ignored.
func ParseStep(s string) (Step, bool) {
	switch Step(s) {
	case StepSubmitURLs, StepConnectAccounts, StepDone:
		return Step(s), true
	}
	return "", false
}

var contentURLPattern = regexp.MustCompile(`^https?://(www\.)?(tiktok\.com|instagram\.com)/.+$`)

// ResolveStep decides the creator's current onboarding step from persisted
// profile flags, confirmed social connection state and an optionally
// requested step.
//
// A creator is done once their URLs are in and they have either connected a
// social account or explicitly skipped that step. SkipConnect is a named,
// deliberate bypass of the connection requirement, not an oversight: a
// creator who skipped stays done even though no account is connected.
func ResolveStep(profile *models.CreatorProfile, social models.SocialStatus, requested Step, requiredURLs int) Step {
	urlsComplete := profile.URLsSubmitted && len(profile.SubmittedURLs) >= requiredURLs

	if urlsComplete && (social.AnyConnected() || profile.ConnectSkipped) {
		return StepDone
	}

	// Honor an explicitly requested step so a creator returning from an
	// external redirect resumes where they left off.
	if requested != "" {
		return requested
	}

	if len(profile.SubmittedURLs) >= requiredURLs {
		return StepConnectAccounts
	}

	return StepSubmitURLs
}

// ValidateContentURLs checks a submitted URL set: exactly required entries,
// each independently matching the supported platforms, all pairwise
// distinct. The step cannot advance until every check passes.
func ValidateContentURLs(urls []string, required int) error {
	if len(urls) != required {
		return fmt.Errorf("%w: expected %d, got %d", ErrWrongURLCount, required, len(urls))
	}

	seen := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		if !contentURLPattern.MatchString(u) {
			return fmt.Errorf("%w: %q", ErrInvalidURL, u)
		}
		if _, dup := seen[u]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateURL, u)
		}
		seen[u] = struct{}{}
	}

	return nil
}

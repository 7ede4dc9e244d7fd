package crashkeys

import (
	"github.com/moby/patternmatcher"
)

// Scrubber filters crash-key names against a denylist of glob-style
// patterns (e.g. "*token*", "secret*"). Matching keys are never
// attached to a report.
type Scrubber struct {
	matcher *patternmatcher.PatternMatcher
}

// NewScrubber compiles a scrub-pattern list. An empty list yields a
// scrubber that matches nothing.
func NewScrubber(patterns []string) (*Scrubber, error) {
	pm, err := patternmatcher.New(patterns)
	if err != nil {
		return nil, err
	}
	return &Scrubber{matcher: pm}, nil
}

// Matches reports whether name hits a scrub pattern. Pattern errors
// count as no match; a broken pattern must not block diagnostics.
func (s *Scrubber) Matches(name string) bool {
	if s == nil || s.matcher == nil {
		return false
	}
	ok, err := s.matcher.MatchesOrParentMatches(name)
	if err != nil {
		return false
	}
	return ok
}

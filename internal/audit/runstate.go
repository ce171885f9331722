package audit

import "github.com/ostafen/extfix/internal/classify"

// RunState remembers which unknown extensions and which category warnings
// were already reported during one run, so that repeated identical lines
// are suppressed. A RunState must not be shared by concurrent runs.
type RunState struct {
	verbose      bool
	seenUnknown  map[string]struct{}
	seenWarnings map[string]struct{}
}

func NewRunState(verbose bool) *RunState {
	return &RunState{
		verbose:      verbose,
		seenUnknown:  make(map[string]struct{}),
		seenWarnings: make(map[string]struct{}),
	}
}

// WarningKey builds the deduplication key of a category warning.
func WarningKey(ext, category string) string {
	return ext + ":" + category
}

// ShouldLog reports whether an outcome of the given kind must be logged,
// and records key as seen when the kind is subject to deduplication.
//
// For Unknown the key is the file extension, for MatchedCategoryWarn it is
// WarningKey(ext, category). The key is ignored for other kinds.
func (s *RunState) ShouldLog(kind classify.Kind, key string) bool {
	switch kind {
	case classify.MatchedCorrect, classify.MatchedCategoryOk:
		return s.verbose
	case classify.MismatchSuggestRename:
		return true
	case classify.Unknown:
		return s.firstTime(s.seenUnknown, key)
	case classify.MatchedCategoryWarn:
		return s.firstTime(s.seenWarnings, key)
	}
	return true
}

func (s *RunState) firstTime(seen map[string]struct{}, key string) bool {
	_, ok := seen[key]
	seen[key] = struct{}{}
	return !ok || s.verbose
}

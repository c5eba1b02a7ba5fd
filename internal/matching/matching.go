// Package matching scores candidate skills against role requirements.
package matching

import (
	"sort"

	"github.com/spigell/resume-matcher/internal/catalog"
)

// SuggestionThreshold is the minimal score of an alternative role.
const SuggestionThreshold = 40.0

type Band string

const (
	BandExcellent Band = "excellent"
	BandGood      Band = "good"
	BandLow       Band = "low"
)

// Label returns the human readable verdict for the band.
func (b Band) Label() string {
	switch b {
	case BandExcellent:
		return "Excellent Match"
	case BandGood:
		return "Good Match"
	default:
		return "Low Match"
	}
}

// BandFor classifies a score: 70 and above is excellent, 50 and above is
// good, everything else is low.
func BandFor(score float64) Band {
	switch {
	case score >= 70:
		return BandExcellent
	case score >= 50:
		return BandGood
	default:
		return BandLow
	}
}

type Result struct {
	Score   float64  `json:"score" yaml:"score"`
	Matched []string `json:"matched" yaml:"matched"`
	Missing []string `json:"missing" yaml:"missing"`
}

type Suggestion struct {
	Role  string  `json:"role" yaml:"role"`
	Score float64 `json:"score" yaml:"score"`
}

// Score returns the percentage of required skills present in candidate.
// Both arguments are treated as sets. An empty requirement scores 0.
func Score(candidate, required []string) float64 {
	req := toSet(required)
	if len(req) == 0 {
		return 0
	}

	have := toSet(candidate)
	matched := 0
	for skill := range req {
		if _, ok := have[skill]; ok {
			matched++
		}
	}

	return 100 * float64(matched) / float64(len(req))
}

// Match scores candidate against required and splits the requirement into
// matched and missing skills, both sorted.
func Match(candidate, required []string) Result {
	have := toSet(candidate)

	matched := make([]string, 0)
	missing := make([]string, 0)
	for skill := range toSet(required) {
		if _, ok := have[skill]; ok {
			matched = append(matched, skill)
		} else {
			missing = append(missing, skill)
		}
	}
	sort.Strings(matched)
	sort.Strings(missing)

	return Result{
		Score:   Score(candidate, required),
		Matched: matched,
		Missing: missing,
	}
}

// Qualifies reports whether a score is high enough for a suggestion.
func Qualifies(score float64) bool {
	return score >= SuggestionThreshold
}

// Suggest scores every role except selected and returns the qualifying ones
// in catalog order.
func Suggest(cat *catalog.Catalog, candidate []string, selected string) []Suggestion {
	suggestions := make([]Suggestion, 0)
	for _, role := range cat.Roles() {
		if role.Name == selected {
			continue
		}

		score := Score(candidate, role.Skills)
		if Qualifies(score) {
			suggestions = append(suggestions, Suggestion{Role: role.Name, Score: score})
		}
	}

	return suggestions
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}

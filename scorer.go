package categorizer

import (
	"regexp"
	"sync"
)

// keywordWeight is the score contribution of a single keyword occurrence.
const keywordWeight = 0.1

// patternCache holds compiled whole-word patterns keyed by keyword. The
// dictionaries are small and fixed, so the cache never grows unbounded.
var patternCache sync.Map // string -> *regexp.Regexp

// wordPattern returns a case-insensitive, word-boundary-anchored pattern for
// the given keyword.
func wordPattern(keyword string) *regexp.Regexp {
	if cached, ok := patternCache.Load(keyword); ok {
		return cached.(*regexp.Regexp)
	}
	re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(keyword) + `\b`)
	patternCache.Store(keyword, re)
	return re
}

// countWholeWord counts whole-word, case-insensitive occurrences of keyword
// in text. A keyword embedded in a longer word does not count.
func countWholeWord(text, keyword string) int {
	if text == "" || keyword == "" {
		return 0
	}
	return len(wordPattern(keyword).FindAllStringIndex(text, -1))
}

// scoreKeywords scores text against a keyword dictionary. Each whole-word
// occurrence contributes keywordWeight to its category; after all categories
// are scored the results are normalized by the maximum raw score, so every
// value lands in [0,1] with at least one category at 1.0 unless nothing
// matched at all. The order slice fixes iteration order for callers that
// break ties by first declaration.
func scoreKeywords(text string, order []string, keywords map[string][]string) map[string]float64 {
	scores := make(map[string]float64, len(order))

	maxScore := 0.0
	for _, category := range order {
		score := 0.0
		for _, keyword := range keywords[category] {
			score += float64(countWholeWord(text, keyword)) * keywordWeight
		}
		scores[category] = score
		if score > maxScore {
			maxScore = score
		}
	}

	if maxScore > 0 {
		for category := range scores {
			scores[category] /= maxScore
		}
	}

	return scores
}

// topCategory picks the category with the strictly highest score. Ties
// resolve to the category declared first in order; when every score is zero
// the first declared category is the fallback.
func topCategory(scores map[string]float64, order []string) (string, float64) {
	best := order[0]
	bestScore := scores[best]
	for _, category := range order[1:] {
		if scores[category] > bestScore {
			best = category
			bestScore = scores[category]
		}
	}
	return best, bestScore
}

package categorizer

import (
	"testing"
)

func TestCountWholeWord(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		keyword string
		want    int
	}{
		{
			name:    "single match",
			text:    "bank loan today",
			keyword: "bank",
			want:    1,
		},
		{
			name:    "embedded word does not match",
			text:    "nonbanking services",
			keyword: "bank",
			want:    0,
		},
		{
			name:    "case insensitive",
			text:    "Bank of BANK",
			keyword: "bank",
			want:    2,
		},
		{
			name:    "multi word keyword",
			text:    "find real estate listings",
			keyword: "real estate",
			want:    1,
		},
		{
			name:    "punctuation boundary",
			text:    "visit the bank, then the clinic.",
			keyword: "bank",
			want:    1,
		},
		{
			name:    "empty text",
			text:    "",
			keyword: "bank",
			want:    0,
		},
		{
			name:    "empty keyword",
			text:    "bank",
			keyword: "",
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := countWholeWord(tt.text, tt.keyword); got != tt.want {
				t.Errorf("countWholeWord(%q, %q) = %d, want %d", tt.text, tt.keyword, got, tt.want)
			}
		})
	}
}

func TestScoreKeywordsNormalization(t *testing.T) {
	text := "bank loan mortgage credit hospital"
	scores := scoreKeywords(text, industryOrder, industryKeywords)

	if len(scores) != len(industryOrder) {
		t.Fatalf("expected a score for every category, got %d of %d", len(scores), len(industryOrder))
	}

	sawOne := false
	for category, score := range scores {
		if score < 0 || score > 1 {
			t.Errorf("score for %s out of range: %f", category, score)
		}
		if score == 1.0 {
			sawOne = true
		}
	}
	if !sawOne {
		t.Error("expected at least one category at 1.0 after normalization")
	}

	if scores["banking"] != 1.0 {
		t.Errorf("expected banking to dominate, got %f", scores["banking"])
	}
	if scores["healthcare"] >= scores["banking"] {
		t.Errorf("expected healthcare below banking, got %f", scores["healthcare"])
	}
}

func TestScoreKeywordsNoMatches(t *testing.T) {
	scores := scoreKeywords("zzz qqq xxx", industryOrder, industryKeywords)
	for category, score := range scores {
		if score != 0 {
			t.Errorf("expected zero score for %s, got %f", category, score)
		}
	}
}

func TestTopCategory(t *testing.T) {
	order := []string{"a", "b", "c"}

	tests := []struct {
		name      string
		scores    map[string]float64
		want      string
		wantScore float64
	}{
		{
			name:      "clear winner",
			scores:    map[string]float64{"a": 0.2, "b": 1.0, "c": 0.5},
			want:      "b",
			wantScore: 1.0,
		},
		{
			name:      "tie resolves to first declared",
			scores:    map[string]float64{"a": 1.0, "b": 1.0, "c": 0.1},
			want:      "a",
			wantScore: 1.0,
		},
		{
			name:      "later tie does not displace earlier winner",
			scores:    map[string]float64{"a": 0.3, "b": 0.9, "c": 0.9},
			want:      "b",
			wantScore: 0.9,
		},
		{
			name:      "all zero falls back to first",
			scores:    map[string]float64{"a": 0, "b": 0, "c": 0},
			want:      "a",
			wantScore: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, gotScore := topCategory(tt.scores, order)
			if got != tt.want || gotScore != tt.wantScore {
				t.Errorf("topCategory() = (%s, %f), want (%s, %f)", got, gotScore, tt.want, tt.wantScore)
			}
		})
	}
}

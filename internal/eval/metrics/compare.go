package metrics

import (
	"strings"
	"unicode"
)

// CaptionMatch scores a generated caption against a reference caption
type CaptionMatch struct {
	Score  float64
	Method string
}

// CompareCaptions scores generated against reference. Normalized exact
// matches score 1.0; otherwise the score is the token-level F1 between
// the two captions, bucketed into a match method for reporting.
func CompareCaptions(generated, reference string) CaptionMatch {
	genNorm := normalizeCaption(generated)
	refNorm := normalizeCaption(reference)

	if genNorm == "" && refNorm == "" {
		return CaptionMatch{Score: 0.0, Method: "both_missing"}
	}
	if genNorm == "" || refNorm == "" {
		return CaptionMatch{Score: 0.0, Method: "no_match"}
	}

	if genNorm == refNorm {
		return CaptionMatch{Score: 1.0, Method: "exact"}
	}

	f1 := tokenF1(genNorm, refNorm)

	switch {
	case f1 >= 0.8:
		return CaptionMatch{Score: f1, Method: "fuzzy_high"}
	case f1 >= 0.5:
		return CaptionMatch{Score: f1, Method: "fuzzy_medium"}
	case strings.Contains(genNorm, refNorm) || strings.Contains(refNorm, genNorm):
		return CaptionMatch{Score: f1, Method: "substring"}
	case f1 > 0:
		return CaptionMatch{Score: f1, Method: "fuzzy_low"}
	default:
		return CaptionMatch{Score: 0.0, Method: "no_match"}
	}
}

// normalizeCaption lowercases and strips punctuation, collapsing runs of
// whitespace to single spaces
func normalizeCaption(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// tokenF1 computes the harmonic mean of token precision and recall
func tokenF1(a, b string) float64 {
	aTokens := strings.Fields(a)
	bTokens := strings.Fields(b)

	if len(aTokens) == 0 || len(bTokens) == 0 {
		return 0.0
	}

	bCounts := make(map[string]int, len(bTokens))
	for _, tok := range bTokens {
		bCounts[tok]++
	}

	overlap := 0
	for _, tok := range aTokens {
		if bCounts[tok] > 0 {
			bCounts[tok]--
			overlap++
		}
	}

	if overlap == 0 {
		return 0.0
	}

	precision := float64(overlap) / float64(len(aTokens))
	recall := float64(overlap) / float64(len(bTokens))

	return 2 * precision * recall / (precision + recall)
}

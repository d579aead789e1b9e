package metrics

import (
	"math"
	"strings"
	"testing"
	"time"
)

func TestAggregateEvaluationResults(t *testing.T) {
	results := []EvaluationResult{
		{
			ID:               "img_001",
			ImageSource:      "images/001.jpg",
			GeneratedCaption: "A dog on a beach",
			ReferenceCaption: "A dog on a beach",
			ProcessingTime:   5 * time.Second,
			Match:            &CaptionMatch{Score: 1.0, Method: "exact"},
		},
		{
			ID:               "img_002",
			ImageSource:      "images/002.jpg",
			GeneratedCaption: "A brown dog running on the beach",
			ReferenceCaption: "A brown dog runs on the beach",
			ProcessingTime:   3 * time.Second,
			Match:            &CaptionMatch{Score: 0.85, Method: "fuzzy_high"},
		},
		{
			ID:               "img_003",
			ImageSource:      "images/003.jpg",
			GeneratedCaption: "Skyscrapers at night",
			ReferenceCaption: "A bowl of fruit",
			ProcessingTime:   4 * time.Second,
			Match:            &CaptionMatch{Score: 0.0, Method: "no_match"},
		},
		{
			ID:             "img_004",
			ImageSource:    "images/004.jpg",
			Error:          "failed to generate caption",
			ProcessingTime: 1 * time.Second,
		},
	}

	agg := AggregateEvaluationResults(results, "ollama", "llava:13b")

	// Check basic stats
	if agg.TotalRecords != 4 {
		t.Errorf("Expected TotalRecords=4, got %d", agg.TotalRecords)
	}

	if agg.SuccessCount != 3 {
		t.Errorf("Expected SuccessCount=3, got %d", agg.SuccessCount)
	}

	if agg.FailureCount != 1 {
		t.Errorf("Expected FailureCount=1, got %d", agg.FailureCount)
	}

	// Check provider/model
	if agg.Provider != "ollama" {
		t.Errorf("Expected Provider=ollama, got %s", agg.Provider)
	}

	if agg.Model != "llava:13b" {
		t.Errorf("Expected Model=llava:13b, got %s", agg.Model)
	}

	// Check match buckets
	if agg.ExactMatches != 1 {
		t.Errorf("Expected ExactMatches=1, got %d", agg.ExactMatches)
	}

	if agg.FuzzyMatches != 1 {
		t.Errorf("Expected FuzzyMatches=1, got %d", agg.FuzzyMatches)
	}

	if agg.NoMatches != 1 {
		t.Errorf("Expected NoMatches=1, got %d", agg.NoMatches)
	}

	// Average score over successful evaluations: (1.0 + 0.85 + 0.0) / 3
	expectedAvg := 1.85 / 3.0
	if math.Abs(agg.AverageScore-expectedAvg) > 1e-9 {
		t.Errorf("Expected AverageScore=%.4f, got %.4f", expectedAvg, agg.AverageScore)
	}

	// Timing: total over all records, average over successful ones
	if agg.TotalProcessingTime != 13*time.Second {
		t.Errorf("Expected TotalProcessingTime=13s, got %s", agg.TotalProcessingTime)
	}

	if agg.AverageProcessingTime != 4*time.Second {
		t.Errorf("Expected AverageProcessingTime=4s, got %s", agg.AverageProcessingTime)
	}
}

func TestAggregateEvaluationResultsEmpty(t *testing.T) {
	agg := AggregateEvaluationResults(nil, "openai", "gpt-4o")

	if agg.TotalRecords != 0 {
		t.Errorf("Expected TotalRecords=0, got %d", agg.TotalRecords)
	}
	if agg.AverageScore != 0 {
		t.Errorf("Expected AverageScore=0, got %.4f", agg.AverageScore)
	}
}

func TestSummaryIncludesKeyFields(t *testing.T) {
	results := []EvaluationResult{
		{
			ID:    "img_001",
			Match: &CaptionMatch{Score: 1.0, Method: "exact"},
		},
	}

	agg := AggregateEvaluationResults(results, "gemini", "gemini-1.5-flash")
	summary := agg.Summary()

	for _, want := range []string{"gemini", "gemini-1.5-flash", "Average score"} {
		if !strings.Contains(summary, want) {
			t.Errorf("Expected summary to contain %q:\n%s", want, summary)
		}
	}
}

package metrics

import (
	"fmt"
	"strings"
	"time"
)

// EvaluationResult represents the results for a single image evaluation
type EvaluationResult struct {
	ID               string
	ImageSource      string
	GeneratedCaption string
	ReferenceCaption string
	Match            *CaptionMatch
	ProcessingTime   time.Duration
	Error            string // If generation failed
}

// AggregateResults represents aggregated evaluation metrics
type AggregateResults struct {
	TotalRecords int
	SuccessCount int
	FailureCount int

	// Match method counts across successful evaluations
	ExactMatches int
	FuzzyMatches int
	NoMatches    int

	// Overall
	AverageScore float64

	// Timing
	AverageProcessingTime time.Duration
	TotalProcessingTime   time.Duration

	// Detailed results
	Results []EvaluationResult

	// Metadata
	EvaluationDate time.Time
	Provider       string
	Model          string
	SampleSize     int
}

// AggregateEvaluationResults aggregates multiple evaluation results
func AggregateEvaluationResults(results []EvaluationResult, provider, model string) *AggregateResults {
	agg := &AggregateResults{
		TotalRecords:   len(results),
		Results:        results,
		EvaluationDate: time.Now(),
		Provider:       provider,
		Model:          model,
		SampleSize:     len(results),
	}

	totalScore := 0.0
	var totalDuration time.Duration
	var successDuration time.Duration

	for _, result := range results {
		totalDuration += result.ProcessingTime

		if result.Error != "" {
			agg.FailureCount++
			continue
		}

		agg.SuccessCount++
		successDuration += result.ProcessingTime

		if result.Match == nil {
			continue
		}

		switch result.Match.Method {
		case "exact":
			agg.ExactMatches++
		case "fuzzy_high", "fuzzy_medium", "fuzzy_low", "substring":
			agg.FuzzyMatches++
		default:
			agg.NoMatches++
		}

		totalScore += result.Match.Score
	}

	if agg.SuccessCount > 0 {
		agg.AverageScore = totalScore / float64(agg.SuccessCount)
		agg.AverageProcessingTime = successDuration / time.Duration(agg.SuccessCount)
	}
	agg.TotalProcessingTime = totalDuration

	return agg
}

// Summary returns a human-readable summary of the aggregate results
func (agg *AggregateResults) Summary() string {
	var b strings.Builder

	b.WriteString("Caption Evaluation Summary\n")
	b.WriteString("==========================\n")
	fmt.Fprintf(&b, "Provider:        %s\n", agg.Provider)
	fmt.Fprintf(&b, "Model:           %s\n", agg.Model)
	fmt.Fprintf(&b, "Records:         %d (%d ok, %d failed)\n", agg.TotalRecords, agg.SuccessCount, agg.FailureCount)
	fmt.Fprintf(&b, "Average score:   %.3f\n", agg.AverageScore)
	fmt.Fprintf(&b, "Exact matches:   %d\n", agg.ExactMatches)
	fmt.Fprintf(&b, "Fuzzy matches:   %d\n", agg.FuzzyMatches)
	fmt.Fprintf(&b, "No matches:      %d\n", agg.NoMatches)
	fmt.Fprintf(&b, "Avg processing:  %s\n", agg.AverageProcessingTime.Round(time.Millisecond))
	fmt.Fprintf(&b, "Total time:      %s\n", agg.TotalProcessingTime.Round(time.Millisecond))

	return b.String()
}

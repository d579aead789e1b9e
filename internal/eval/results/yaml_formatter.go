package results

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/captionworks/captioner/internal/eval/metrics"
	"gopkg.in/yaml.v3"
)

// EvalConfig represents the configuration section of the eval YAML
type EvalConfig struct {
	Provider    string `yaml:"provider"`
	Model       string `yaml:"model"`
	DatasetPath string `yaml:"datasetpath"`
	SampleSize  int    `yaml:"samplesize"`
	Timestamp   string `yaml:"timestamp"`
}

// EvalResult represents a single evaluation result
type EvalResult struct {
	Identifier       string  `yaml:"identifier"`
	ImageSource      string  `yaml:"imagesource"`
	GeneratedCaption string  `yaml:"generatedcaption"`
	ReferenceCaption string  `yaml:"referencecaption"`
	Score            float64 `yaml:"score"`
	Method           string  `yaml:"method"`
}

// EvalSpec represents the complete evaluation specification
type EvalSpec struct {
	Config  EvalConfig   `yaml:"config"`
	Results []EvalResult `yaml:"results"`
}

// SaveToYAML saves evaluation results to a YAML file in evals/ directory
func SaveToYAML(provider, model, datasetPath string, sampleSize int, results []metrics.EvaluationResult) error {
	// Create evals directory
	if err := os.MkdirAll("evals", 0755); err != nil {
		return fmt.Errorf("failed to create evals directory: %w", err)
	}

	// Generate timestamp
	timestamp := time.Now().Format("2006-01-02_15-04-05")

	// Create eval spec
	spec := EvalSpec{
		Config: EvalConfig{
			Provider:    provider,
			Model:       model,
			DatasetPath: datasetPath,
			SampleSize:  sampleSize,
			Timestamp:   timestamp,
		},
		Results: make([]EvalResult, 0, len(results)),
	}

	// Convert results
	for _, r := range results {
		if r.Error != "" {
			continue // Skip failed evaluations
		}

		evalResult := EvalResult{
			Identifier:       r.ID,
			ImageSource:      r.ImageSource,
			GeneratedCaption: r.GeneratedCaption,
			ReferenceCaption: r.ReferenceCaption,
		}

		if r.Match != nil {
			evalResult.Score = r.Match.Score
			evalResult.Method = r.Match.Method
		}

		spec.Results = append(spec.Results, evalResult)
	}

	// Generate filename
	filename := fmt.Sprintf("evals/%s-%s.yaml", model, timestamp)

	// Write YAML
	data, err := yaml.Marshal(&spec)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write YAML file: %w", err)
	}

	absPath, _ := filepath.Abs(filename)
	fmt.Printf("\nEvaluation results saved to: %s\n", absPath)

	return nil
}

package evalcmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/captionworks/captioner/internal/captioning"
	"github.com/captionworks/captioner/internal/eval/dataset"
	"github.com/captionworks/captioner/internal/eval/metrics"
	"github.com/captionworks/captioner/internal/eval/results"
	"github.com/captionworks/captioner/internal/images"
	"github.com/spf13/cobra"
)

// NewRunCmd creates the run command for evaluating caption quality
func NewRunCmd() *cobra.Command {
	var datasetPath string
	var sampleSize int
	var provider string
	var model string
	var concurrency int
	var verbose bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a caption evaluation against a reference dataset",
		Long: `Evaluate caption quality using a dataset of images with reference captions.

The dataset is a Parquet or JSONL file where each record carries an image
(local path or URL) and a human-written reference caption. Each image is
captioned through the selected provider and the generated caption is scored
against the reference.`,
		Example: `  # Evaluate 10 records with Ollama
  captioner eval run --dataset ./captions.parquet --sample 10 --provider ollama

  # Evaluate 100 records with OpenAI
  captioner eval run --dataset ./captions.parquet --sample 100 --provider openai --model gpt-4o

  # Evaluate the full dataset
  captioner eval run --dataset ./captions.jsonl --sample -1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				slog.SetLogLoggerLevel(slog.LevelDebug)
			}

			// Check if dataset file exists
			if _, err := os.Stat(datasetPath); os.IsNotExist(err) {
				return fmt.Errorf("dataset file not found: %s", datasetPath)
			}

			return executeRun(cmd.Context(), datasetPath, provider, model, sampleSize, concurrency)
		},
	}

	cmd.Flags().StringVar(&datasetPath, "dataset", "", "Path to caption dataset file (required)")
	cmd.Flags().IntVar(&sampleSize, "sample", 10, "Number of records to evaluate (-1 for all)")
	cmd.Flags().StringVar(&provider, "provider", "ollama", "LLM provider (ollama, openai, or gemini)")
	cmd.Flags().StringVar(&model, "model", "", "Model name (defaults to provider's default)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 2, "Number of captions to generate in parallel")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Verbose logging")

	_ = cmd.MarkFlagRequired("dataset")
	return cmd
}

func executeRun(ctx context.Context, datasetPath, provider, model string, sampleSize, concurrency int) error {
	slog.Info("Starting evaluation run", "dataset", datasetPath, "provider", provider, "model", model)

	// Load dataset
	loader := dataset.NewLoader(datasetPath)
	records, err := loader.LoadSample(sampleSize)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	slog.Info("Dataset loaded", "records", len(records))

	captionService := captioning.NewService()
	fetcher := images.NewFetcher()

	// Process records with concurrency control
	slog.Info("Processing records", "concurrency", concurrency)

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, concurrency)
	resultsChan := make(chan metrics.EvaluationResult, len(records))

	for _, record := range records {
		wg.Add(1)
		go func(record dataset.CaptionRecord) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			resultsChan <- evaluateRecord(ctx, captionService, fetcher, loader.BaseDir(), record, provider, model)
		}(record)
	}

	wg.Wait()
	close(resultsChan)

	evalResults := make([]metrics.EvaluationResult, 0, len(records))
	for result := range resultsChan {
		evalResults = append(evalResults, result)
	}

	sort.Slice(evalResults, func(i, j int) bool {
		return evalResults[i].ID < evalResults[j].ID
	})

	agg := metrics.AggregateEvaluationResults(evalResults, provider, model)
	fmt.Println(agg.Summary())

	return results.SaveToYAML(provider, model, datasetPath, sampleSize, evalResults)
}

func evaluateRecord(ctx context.Context, service *captioning.Service, fetcher *images.Fetcher, baseDir string, record dataset.CaptionRecord, provider, model string) metrics.EvaluationResult {
	result := metrics.EvaluationResult{
		ID:               record.ID,
		ReferenceCaption: record.ReferenceCaption(),
	}

	if !record.HasImage() {
		result.Error = "record has no image path or URL"
		return result
	}

	start := time.Now()

	var imageData []byte
	var mimeType string
	var err error

	if record.ImagePath != "" {
		result.ImageSource = record.ResolveImagePath(baseDir)
		imageData, err = os.ReadFile(result.ImageSource)
		if err == nil {
			mimeType = http.DetectContentType(imageData)
		}
	} else {
		result.ImageSource = record.ImageURL
		imageData, mimeType, err = fetcher.Fetch(ctx, record.ImageURL)
	}
	if err != nil {
		result.Error = fmt.Sprintf("failed to load image: %v", err)
		result.ProcessingTime = time.Since(start)
		return result
	}

	caption, err := service.Caption(ctx, captioning.Request{
		ImageData: imageData,
		MimeType:  mimeType,
		Provider:  provider,
		Model:     model,
	})
	result.ProcessingTime = time.Since(start)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	result.GeneratedCaption = caption
	match := metrics.CompareCaptions(caption, result.ReferenceCaption)
	result.Match = &match

	slog.Debug("Evaluated record", "id", record.ID, "score", match.Score, "method", match.Method)

	return result
}

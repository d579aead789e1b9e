package evalcmd

import (
	"fmt"

	"github.com/captionworks/captioner/internal/eval/dataset"
	"github.com/spf13/cobra"
)

// NewInspectCmd creates the inspect command
func NewInspectCmd() *cobra.Command {
	var datasetPath string
	var limit int

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Inspect dataset records",
		Long: `Inspect records from a parquet or jsonl caption dataset file.

This command is useful for verifying image paths and reference captions
before running an evaluation.`,
		Example: `  # Inspect first 5 records
  captioner eval inspect --dataset ./captions.parquet --limit 5

  # Inspect all records (no limit)
  captioner eval inspect --dataset ./captions.parquet --limit 0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeInspect(datasetPath, limit)
		},
	}

	cmd.Flags().StringVar(&datasetPath, "dataset", "", "Path to parquet or jsonl dataset file (required)")
	cmd.Flags().IntVar(&limit, "limit", 10, "Number of records to inspect (0 for all)")

	_ = cmd.MarkFlagRequired("dataset")

	return cmd
}

func executeInspect(datasetPath string, limit int) error {
	loader := dataset.NewLoader(datasetPath)

	var records []dataset.CaptionRecord
	var err error

	if limit > 0 {
		records, err = loader.LoadSample(limit)
	} else {
		records, err = loader.Load()
	}

	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	for i, record := range records {
		fmt.Printf("--- Record %d ---\n", i+1)
		fmt.Printf("ID:        %s\n", record.ID)
		if record.ImagePath != "" {
			fmt.Printf("Image:     %s\n", record.ResolveImagePath(loader.BaseDir()))
		}
		if record.ImageURL != "" {
			fmt.Printf("Image URL: %s\n", record.ImageURL)
		}
		fmt.Printf("Caption:   %s\n\n", record.ReferenceCaption())
	}

	fmt.Printf("Total records shown: %d\n", len(records))
	return nil
}

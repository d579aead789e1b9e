package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "captioner",
		Short: "Image captioning service backed by vision-capable LLMs",
		Long: `Captioner generates natural-language descriptions of images using
vision-capable LLMs (Ollama, OpenAI, or Gemini).

It ships an HTTP API for uploading images, a one-shot CLI for captioning
local files, and an evaluation harness for scoring generated captions
against reference datasets.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	// Add subcommands
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newCaptionCmd())
	cmd.AddCommand(newEvalCmd())

	return cmd
}

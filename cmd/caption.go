package cmd

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/captionworks/captioner/internal/captioning"
	"github.com/captionworks/captioner/internal/images"
	"github.com/spf13/cobra"
)

func newCaptionCmd() *cobra.Command {
	var provider string
	var model string
	var prompt string

	cmd := &cobra.Command{
		Use:   "caption [image file or URL]",
		Short: "Caption a single image from the command line",
		Long: `Generates a caption for a local image file or a remote image URL
and prints it to stdout.`,
		Example: `  # Caption a local file with the default provider
  captioner caption ./photo.jpg

  # Caption a remote image with OpenAI
  captioner caption https://example.com/photo.jpg --provider openai

  # Ask a specific question about the image
  captioner caption ./photo.jpg --prompt "What breed is this dog?"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := args[0]

			var imageData []byte
			var mimeType string
			var err error

			if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
				fetcher := images.NewFetcher()
				imageData, mimeType, err = fetcher.Fetch(cmd.Context(), source)
				if err != nil {
					return fmt.Errorf("failed to fetch image: %w", err)
				}
			} else {
				imageData, err = os.ReadFile(source)
				if err != nil {
					return fmt.Errorf("failed to read image: %w", err)
				}
				mimeType = http.DetectContentType(imageData)
			}

			service := captioning.NewService()
			caption, err := service.Caption(cmd.Context(), captioning.Request{
				ImageData: imageData,
				MimeType:  mimeType,
				Prompt:    prompt,
				Provider:  provider,
				Model:     model,
			})
			if err != nil {
				return err
			}

			fmt.Println(caption)
			return nil
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "LLM provider (ollama, openai, or gemini)")
	cmd.Flags().StringVar(&model, "model", "", "Model name (defaults to provider's default)")
	cmd.Flags().StringVar(&prompt, "prompt", "", "Caption instruction (defaults to a generic description prompt)")

	return cmd
}

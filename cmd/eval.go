package cmd

import (
	"github.com/captionworks/captioner/internal/evalcmd"
	"github.com/spf13/cobra"
)

func newEvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Caption quality evaluation tools",
		Long: `Evaluation tools for measuring the quality of LLM-generated captions.

Supports running evaluations against reference caption datasets and
generating detailed per-image comparison reports.`,
	}

	// Add eval subcommands
	cmd.AddCommand(evalcmd.NewRunCmd())
	cmd.AddCommand(evalcmd.NewInspectCmd())

	return cmd
}

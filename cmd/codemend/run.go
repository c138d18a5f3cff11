package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lmeira/codemend/internal/presentation/tui"
	"github.com/lmeira/codemend/pkg/domain"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Generate and execute code for a single prompt",
	Long: `Runs the full pipeline once: the model generates Python code for the
prompt, the code is linted, executed in an isolated interpreter session
and automatically repaired when it fails.`,
	Run: func(cmd *cobra.Command, args []string) {
		prompt, _ := cmd.Flags().GetString("prompt")
		if prompt == "" && len(args) > 0 {
			prompt = args[0]
		}
		if prompt == "" {
			fmt.Println("Error: --prompt is required")
			os.Exit(1)
		}
		requirements, _ := cmd.Flags().GetString("requirements")
		verbose, _ := cmd.Flags().GetBool("verbose")

		engine, _, _, err := buildEngine(cmd, true)
		if err != nil {
			fmt.Printf("Error initializing pipeline: %v\n", err)
			os.Exit(1)
		}

		tui.PrintBanner()
		fmt.Printf("Prompt: %s\n\n", prompt)

		report, state := engine.Run(context.Background(), prompt, requirements)

		render := tui.NewRenderer()
		if report.Status == domain.StatusCompleted {
			fmt.Println("Code generation completed successfully.")
			fmt.Println(render(report.FinalResult))
		} else {
			fmt.Println("Code generation failed.")
			if msg := state.Execution.Error; msg != "" {
				fmt.Printf("Error: %s\n", msg)
			}
			fmt.Println(render(report.FinalResult))
		}

		if verbose {
			fmt.Println("Node history:")
			for _, n := range state.History {
				fmt.Printf("  %s\n", n)
			}
			fmt.Printf("Rectification attempts: %d\n", state.RectificationAttempts)
		}

		if report.Status != domain.StatusCompleted {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("prompt", "p", "", "What the generated code should do")
	runCmd.Flags().StringP("requirements", "r", "", "Additional constraints for the generated code")

	rootCmd.Run = runCmd.Run
	rootCmd.Flags().AddFlagSet(runCmd.Flags())
}

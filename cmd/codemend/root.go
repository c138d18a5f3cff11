package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "codemend",
	Short: "Codemend generates, executes and automatically repairs Python code",
	Long: `Codemend drives a language model through a generate / lint / execute /
rectify loop until the produced Python code runs cleanly or the repair
budget is exhausted.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file (env vars override it)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
}

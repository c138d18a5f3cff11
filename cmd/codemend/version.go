package main

import (
	"fmt"

	"github.com/lmeira/codemend"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of codemend",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("codemend version %s\n", codemend.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

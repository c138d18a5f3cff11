package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lmeira/codemend"
	mcpAdapter "github.com/lmeira/codemend/pkg/adapters/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Model Context Protocol server",
	Long: `Exposes code generation as an MCP tool so agent hosts can call the
pipeline. Defaults to stdio transport; use --sse to serve over HTTP.`,
	Run: func(cmd *cobra.Command, args []string) {
		sse, _ := cmd.Flags().GetBool("sse")
		port, _ := cmd.Flags().GetInt("port")

		engine, _, logger, err := buildEngine(cmd, false)
		if err != nil {
			fmt.Printf("Error initializing pipeline: %v\n", err)
			os.Exit(1)
		}

		server := mcpAdapter.NewServer(engine, codemend.Version, logger)

		if sse {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := server.ServeSSE(ctx, port); err != nil {
				fmt.Printf("MCP server error: %v\n", err)
				os.Exit(1)
			}
			return
		}

		if err := server.ServeStdio(); err != nil {
			fmt.Printf("MCP server error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().Bool("sse", false, "Serve over SSE instead of stdio")
	mcpCmd.Flags().Int("port", 8765, "Port for SSE transport")
}

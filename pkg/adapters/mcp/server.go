// Package mcp exposes the pipeline as a Model Context Protocol server so
// agent hosts can call code generation as a tool.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/lmeira/codemend/internal/logging"
	"github.com/lmeira/codemend/pkg/domain"
)

// GenerateResult is the structured output of the generate_code tool.
type GenerateResult struct {
	Success               bool                  `json:"success" jsonschema_description:"Whether the run finished in the completed status"`
	WorkflowStatus        domain.WorkflowStatus `json:"workflow_status" jsonschema_description:"Terminal status of the run"`
	Code                  string                `json:"code" jsonschema_description:"The final generated Python code"`
	Output                string                `json:"output,omitempty" jsonschema_description:"Stdout captured during execution"`
	Error                 string                `json:"error,omitempty" jsonschema_description:"Execution or generation error, if any"`
	RectificationAttempts int                   `json:"rectification_attempts" jsonschema_description:"Automated repair attempts used"`
	Report                string                `json:"report" jsonschema_description:"Full markdown report of the run"`
}

// Engine is the pipeline surface the MCP server needs.
type Engine interface {
	Run(ctx context.Context, prompt, requirements string) (domain.Report, domain.State)
}

// Server wraps the pipeline engine and exposes it as an MCP server.
type Server struct {
	engine    Engine
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates the MCP surface. version is reported during the MCP
// handshake.
func NewServer(engine Engine, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		engine:    engine,
		logger:    logger,
		mcpServer: server.NewMCPServer("codemend-mcp", version),
	}
	s.registerTools()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and blocks until
// ctx is canceled or the listener fails.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("mcp server listening (sse)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	generateTool := mcp.NewTool("generate_code",
		mcp.WithDescription("Generate, lint, execute and automatically repair Python code for a natural language request."),
		mcp.WithString("prompt", mcp.Required(), mcp.Description("What the code should do")),
		mcp.WithString("requirements", mcp.Description("Additional constraints, e.g. libraries to use or interfaces to match")),
		mcp.WithOutputSchema[GenerateResult](),
	)
	s.mcpServer.AddTool(generateTool, mcp.NewStructuredToolHandler(s.handleGenerate))
}

func (s *Server) handleGenerate(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (GenerateResult, error) {
	prompt, _ := args["prompt"].(string)
	if prompt == "" {
		return GenerateResult{}, fmt.Errorf("prompt is required")
	}
	requirements, _ := args["requirements"].(string)

	rep, state := s.engine.Run(ctx, prompt, requirements)

	return GenerateResult{
		Success:               rep.Status == domain.StatusCompleted,
		WorkflowStatus:        rep.Status,
		Code:                  state.ActiveCode(),
		Output:                state.Execution.Output,
		Error:                 state.Execution.Error,
		RectificationAttempts: state.RectificationAttempts,
		Report:                rep.FinalResult,
	}, nil
}

package main

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/lmeira/codemend"
	"github.com/lmeira/codemend/internal/config"
	"github.com/lmeira/codemend/internal/logging"
	"github.com/lmeira/codemend/internal/observability"
	"github.com/lmeira/codemend/pkg/adapters/llm"
	"github.com/lmeira/codemend/pkg/adapters/memory"
	redisstore "github.com/lmeira/codemend/pkg/adapters/redis"
	"github.com/lmeira/codemend/pkg/adapters/sandbox"
	"github.com/lmeira/codemend/pkg/domain"
	"github.com/lmeira/codemend/pkg/ports"
)

// loadConfig reads the shared flags and builds the config plus a logger.
func loadConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")

	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return cfg, logging.New(level), nil
}

// sessionStore picks Redis when configured, in-process memory otherwise.
func sessionStore(cfg *config.Config) ports.SessionStore {
	if cfg.RedisAddr != "" {
		return redisstore.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	}
	return memory.NewStore()
}

// newBackend builds the execution backend. Interactive callers get the
// isolated session interpreter, falling back to the restricted evaluator
// when no usable Python binary is found.
func newBackend(cfg *config.Config, logger *slog.Logger, interactive bool) ports.ExecutionBackend {
	if interactive {
		session, err := sandbox.NewSession(cfg.Python, sessionStore(cfg), uuid.NewString(),
			sandbox.WithSessionTimeout(cfg.ToolTimeout),
			sandbox.WithSessionLogger(logger),
		)
		if err == nil {
			return session
		}
		logger.Warn("isolated session unavailable, using restricted evaluator", "err", err)
	}
	return sandbox.NewRestricted(cfg.Python,
		sandbox.WithRestrictedTimeout(cfg.ToolTimeout),
		sandbox.WithRestrictedLogger(logger),
	)
}

// buildEngine wires the full pipeline for a command invocation.
func buildEngine(cmd *cobra.Command, interactive bool) (*codemend.Engine, *config.Config, *slog.Logger, error) {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, nil, err
	}

	model, err := llm.New(cfg.APIKey, cfg.BaseURL,
		llm.WithModel(cfg.Model),
		llm.WithTimeout(cfg.ModelTimeout),
		llm.WithLogger(logger),
	)
	if err != nil {
		return nil, nil, nil, err
	}

	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
	hooks := observability.Merge(metrics.Hooks(), domain.LifecycleHooks{
		OnRunEnd: func(_ context.Context, e *domain.RunEvent) {
			logger.Info("run finished",
				"run_id", e.RunID,
				"status", e.Status,
				"attempts", e.Attempts,
				"duration", e.Duration,
			)
		},
	})
	backend := newBackend(cfg, logger, interactive)

	engine, err := codemend.New(model,
		codemend.WithLogger(logger),
		codemend.WithBackend(backend),
		codemend.WithLifecycleHooks(hooks),
	)
	if err != nil {
		return nil, nil, nil, err
	}
	return engine, cfg, logger, nil
}

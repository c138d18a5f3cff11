// Package config loads runtime settings from the environment, optionally
// overlaid by a YAML file. The API key is the only hard requirement: a run
// cannot start without the model collaborator.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults for the Groq OpenAI-compatible endpoint.
const (
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	DefaultModel   = "moonshotai/kimi-k2-instruct"
)

// Config holds all tunables for the pipeline and its adapters.
type Config struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`

	// ModelTimeout bounds each language model call.
	ModelTimeout time.Duration `yaml:"model_timeout"`

	// ToolTimeout bounds each linter/formatter/interpreter invocation.
	ToolTimeout time.Duration `yaml:"tool_timeout"`

	// Python is the interpreter binary used by the sandbox backends.
	Python string `yaml:"python"`

	// RedisAddr enables the Redis session store when non-empty.
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
}

// Load builds a Config from the environment. If path is non-empty the YAML
// file is read first and env vars override it.
func Load(path string) (*Config, error) {
	cfg := &Config{
		BaseURL:      DefaultBaseURL,
		Model:        DefaultModel,
		ModelTimeout: 60 * time.Second,
		ToolTimeout:  30 * time.Second,
		Python:       "python3",
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	overlayEnv(cfg)

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GROQ_API_KEY environment variable is required")
	}

	return cfg, nil
}

func overlayEnv(cfg *Config) {
	if v := os.Getenv("GROQ_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("CODEMEND_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("CODEMEND_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("CODEMEND_PYTHON"); v != "" {
		cfg.Python = v
	}
	if v := os.Getenv("CODEMEND_REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("CODEMEND_REDIS_PASSWORD"); v != "" {
		cfg.RedisPassword = v
	}
	if v := os.Getenv("CODEMEND_REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			cfg.RedisDB = db
		}
	}
	if v := os.Getenv("CODEMEND_MODEL_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.ModelTimeout = d
		}
	}
	if v := os.Getenv("CODEMEND_TOOL_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.ToolTimeout = d
		}
	}
}

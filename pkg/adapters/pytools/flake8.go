// Package pytools wraps the external Python tooling the syntax checker
// relies on: flake8 for diagnostics and black/autopep8 for reformatting.
// Every tool is best effort; an absent binary never fails the pipeline.
package pytools

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/lmeira/codemend/internal/logging"
)

// Flake8 implements ports.Linter by running flake8 over a temp file.
type Flake8 struct {
	binary  string
	timeout time.Duration
	logger  *slog.Logger
}

// Flake8Option configures the linter.
type Flake8Option func(*Flake8)

// WithFlake8Timeout bounds each lint call.
func WithFlake8Timeout(d time.Duration) Flake8Option {
	return func(f *Flake8) {
		f.timeout = d
	}
}

// WithFlake8Logger sets a structured logger.
func WithFlake8Logger(logger *slog.Logger) Flake8Option {
	return func(f *Flake8) {
		f.logger = logger
	}
}

// NewFlake8 creates the linter adapter.
func NewFlake8(opts ...Flake8Option) *Flake8 {
	f := &Flake8{
		binary:  "flake8",
		timeout: 30 * time.Second,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Lint writes the code to a temp file and collects flake8 diagnostics, one
// per line. A missing flake8 binary yields zero diagnostics.
func (f *Flake8) Lint(ctx context.Context, code string) ([]string, error) {
	if _, err := exec.LookPath(f.binary); err != nil {
		f.logger.Debug("flake8 not available, skipping lint")
		return nil, nil
	}

	tmp, err := os.CreateTemp("", "codemend-*.py")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(code); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to write temp file: %w", err)
	}
	tmp.Close()

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, f.binary,
		"--max-line-length=88", "--extend-ignore=E203,W503", tmp.Name())

	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	// flake8 exits non-zero when it finds anything; that is not a failure.
	_ = cmd.Run()

	var diags []string
	base := filepath.Base(tmp.Name())
	for _, line := range strings.Split(stdout.String(), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		// Strip the temp path so diagnostics read like "<line>:<col>: ...".
		if i := strings.Index(line, base); i >= 0 {
			line = strings.TrimPrefix(line[i+len(base):], ":")
		}
		diags = append(diags, line)
	}
	return diags, nil
}

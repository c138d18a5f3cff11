package pytools

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/lmeira/codemend/internal/logging"
	"github.com/lmeira/codemend/pkg/ports"
)

// cmdFormatter runs an external formatter that reads code from stdin and
// writes the result to stdout.
type cmdFormatter struct {
	name    string
	binary  string
	args    []string
	timeout time.Duration
}

func (c *cmdFormatter) Name() string { return c.name }

func (c *cmdFormatter) Available() bool {
	_, err := exec.LookPath(c.binary)
	return err == nil
}

func (c *cmdFormatter) Format(ctx context.Context, code string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.binary, c.args...)
	cmd.Stdin = strings.NewReader(code)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s failed: %v: %s", c.name, err, strings.TrimSpace(stderr.String()))
	}
	if stdout.Len() == 0 {
		return "", fmt.Errorf("%s produced no output", c.name)
	}
	return stdout.String(), nil
}

// NewBlack creates the primary formatter.
func NewBlack(timeout time.Duration) ports.Formatter {
	return &cmdFormatter{
		name:    "black",
		binary:  "black",
		args:    []string{"--line-length=88", "--quiet", "-"},
		timeout: timeout,
	}
}

// NewAutopep8 creates the fallback formatter.
func NewAutopep8(timeout time.Duration) ports.Formatter {
	return &cmdFormatter{
		name:    "autopep8",
		binary:  "autopep8",
		args:    []string{"--aggressive", "--aggressive", "--max-line-length=88", "-"},
		timeout: timeout,
	}
}

// Chain tries each formatter in order and returns the first successful
// result. When every provider is unavailable or fails, the input comes
// back unchanged: reformatting is cosmetic, never fatal.
type Chain struct {
	formatters []ports.Formatter
	logger     *slog.Logger
}

// NewChain builds a fallback chain in the given priority order.
func NewChain(logger *slog.Logger, formatters ...ports.Formatter) *Chain {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Chain{formatters: formatters, logger: logger}
}

// Format returns the reformatted code, or the input unchanged when no
// provider could handle it.
func (c *Chain) Format(ctx context.Context, code string) string {
	for _, f := range c.formatters {
		if !f.Available() {
			c.logger.Debug("formatter unavailable", "formatter", f.Name())
			continue
		}
		out, err := f.Format(ctx, code)
		if err != nil {
			c.logger.Debug("formatter failed, trying next", "formatter", f.Name(), "err", err)
			continue
		}
		return out
	}
	return code
}

package sandbox

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/lmeira/codemend/internal/logging"
	"github.com/lmeira/codemend/pkg/domain"
	"github.com/lmeira/codemend/pkg/ports"
)

// sessionHarness replays the serialized snapshot silently, then executes
// the new snippet against the accumulated namespace. Exit codes: 0 success,
// 1 snippet failure, 2 corrupt snapshot.
const sessionHarness = `
import io, json, sys, traceback
from contextlib import redirect_stdout, redirect_stderr

_doc = json.load(sys.stdin)
_g = {}

if _doc.get("snapshot"):
    try:
        with redirect_stdout(io.StringIO()), redirect_stderr(io.StringIO()):
            exec(compile(_doc["snapshot"], "<session>", "exec"), _g)
    except BaseException:
        traceback.print_exc()
        sys.exit(2)

try:
    exec(compile(_doc["code"], "<generated>", "exec"), _g)
except BaseException:
    traceback.print_exc()
    sys.exit(1)
`

var importRe = regexp.MustCompile(`^\s*(?:import\s+(\w+)|from\s+(\w+)\s+import)`)

// Session is the isolated interpreter backend. Each call replays the
// session snapshot in a fresh interpreter process, so later statements see
// the variables and imports of earlier successful ones. The snapshot lives
// in a SessionStore; calls on one instance are serialized by a mutex to
// keep session continuity intact.
type Session struct {
	python    string
	store     ports.SessionStore
	sessionID string
	timeout   time.Duration
	logger    *slog.Logger

	mu sync.Mutex
}

// SessionOption configures the backend.
type SessionOption func(*Session)

// WithSessionTimeout bounds each Execute call.
func WithSessionTimeout(d time.Duration) SessionOption {
	return func(s *Session) {
		s.timeout = d
	}
}

// WithSessionLogger sets a structured logger.
func WithSessionLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) {
		s.logger = logger
	}
}

// NewSession creates the isolated backend. It fails when the interpreter
// binary cannot be found, letting the caller degrade to the restricted
// backend for the process lifetime.
func NewSession(python string, store ports.SessionStore, sessionID string, opts ...SessionOption) (*Session, error) {
	if python == "" {
		python = "python3"
	}
	if _, err := exec.LookPath(python); err != nil {
		return nil, fmt.Errorf("interpreter %q not available: %w", python, err)
	}
	if store == nil {
		return nil, fmt.Errorf("session store is required")
	}

	s := &Session{
		python:    python,
		store:     store,
		sessionID: sessionID,
		timeout:   30 * time.Second,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Session) Name() string { return "isolated-session" }

// Execute runs the snippet with session continuity. On success the snippet
// is appended to the snapshot for the next call.
func (s *Session) Execute(ctx context.Context, code string) (domain.ExecutionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()

	sess, err := s.store.Load(ctx, s.sessionID)
	if err != nil {
		if !errors.Is(err, domain.ErrSessionNotFound) {
			return domain.ExecutionResult{}, fmt.Errorf("failed to load session: %w", err)
		}
		sess = &ports.Session{}
	}

	doc, err := json.Marshal(map[string]string{
		"snapshot": sess.Snapshot,
		"code":     code,
	})
	if err != nil {
		return domain.ExecutionResult{}, fmt.Errorf("failed to encode harness input: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, s.python, "-I", "-c", sessionHarness)
	cmd.Stdin = bytes.NewReader(doc)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	elapsed := time.Since(start)

	if runErr == nil {
		s.remember(ctx, sess, code)
		return domain.ExecutionResult{
			Success:       true,
			Output:        stdout.String(),
			ExecutionTime: elapsed,
		}, nil
	}

	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) && exitErr.ExitCode() == 2 {
		// Snapshot no longer replays; drop it so the next call starts clean.
		s.logger.Warn("session snapshot corrupt, resetting", "session_id", s.sessionID)
		if err := s.store.Delete(ctx, s.sessionID); err != nil {
			s.logger.Warn("failed to reset session", "err", err)
		}
	}

	msg := strings.TrimSpace(stderr.String())
	if msg == "" {
		msg = fmt.Sprintf("execution failed: %v", runErr)
	}
	return domain.ExecutionResult{
		Success:       false,
		Output:        stdout.String(),
		Error:         msg,
		ExecutionTime: elapsed,
	}, nil
}

// Reset discards the session snapshot.
func (s *Session) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Delete(ctx, s.sessionID)
}

// remember appends the successful snippet to the snapshot and records the
// modules it imports.
func (s *Session) remember(ctx context.Context, sess *ports.Session, code string) {
	if sess.Snapshot != "" {
		sess.Snapshot += "\n"
	}
	sess.Snapshot += code

	seen := make(map[string]bool, len(sess.Packages))
	for _, p := range sess.Packages {
		seen[p] = true
	}
	for _, line := range strings.Split(code, "\n") {
		if m := importRe.FindStringSubmatch(line); m != nil {
			pkg := m[1]
			if pkg == "" {
				pkg = m[2]
			}
			if !seen[pkg] {
				seen[pkg] = true
				sess.Packages = append(sess.Packages, pkg)
			}
		}
	}

	if err := s.store.Save(ctx, s.sessionID, sess); err != nil {
		s.logger.Warn("failed to persist session", "session_id", s.sessionID, "err", err)
	}
}

package pytools

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// stubFormatter is a scriptable in-process formatter.
type stubFormatter struct {
	name      string
	available bool
	out       string
	err       error
	calls     int
}

func (s *stubFormatter) Name() string    { return s.name }
func (s *stubFormatter) Available() bool { return s.available }

func (s *stubFormatter) Format(_ context.Context, _ string) (string, error) {
	s.calls++
	return s.out, s.err
}

func TestChain_UsesFirstAvailableFormatter(t *testing.T) {
	primary := &stubFormatter{name: "primary", available: true, out: "formatted"}
	fallback := &stubFormatter{name: "fallback", available: true, out: "other"}

	chain := NewChain(nil, primary, fallback)
	got := chain.Format(context.Background(), "raw")

	assert.Equal(t, "formatted", got)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 0, fallback.calls)
}

func TestChain_FallsBackWhenPrimaryUnavailable(t *testing.T) {
	primary := &stubFormatter{name: "primary", available: false}
	fallback := &stubFormatter{name: "fallback", available: true, out: "fallback formatted"}

	chain := NewChain(nil, primary, fallback)
	got := chain.Format(context.Background(), "raw")

	assert.Equal(t, "fallback formatted", got)
	assert.Equal(t, 0, primary.calls)
}

func TestChain_FallsBackWhenPrimaryFails(t *testing.T) {
	primary := &stubFormatter{name: "primary", available: true, err: fmt.Errorf("crashed")}
	fallback := &stubFormatter{name: "fallback", available: true, out: "rescued"}

	chain := NewChain(nil, primary, fallback)
	got := chain.Format(context.Background(), "raw")

	assert.Equal(t, "rescued", got)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, fallback.calls)
}

func TestChain_ReturnsInputWhenEverythingFails(t *testing.T) {
	a := &stubFormatter{name: "a", available: false}
	b := &stubFormatter{name: "b", available: true, err: fmt.Errorf("nope")}

	chain := NewChain(nil, a, b)
	got := chain.Format(context.Background(), "def f():\n    pass\n")

	assert.Equal(t, "def f():\n    pass\n", got)
}

func TestChain_EmptyChainIsANoop(t *testing.T) {
	chain := NewChain(nil)
	assert.Equal(t, "x = 1", chain.Format(context.Background(), "x = 1"))
}

package sandbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmeira/codemend/pkg/adapters/memory"
)

func TestNewSession_FailsWithoutInterpreter(t *testing.T) {
	_, err := NewSession("definitely-not-a-real-python-binary", memory.NewStore(), "s1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not available")
}

func TestNewSession_RequiresStore(t *testing.T) {
	// Use a binary guaranteed to resolve so the store check is reached.
	_, err := NewSession("sh", nil, "s1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session store is required")
}

func TestImportRe_RecognizesImportForms(t *testing.T) {
	cases := []struct {
		line string
		pkg  string
	}{
		{"import math", "math"},
		{"    import json", "json"},
		{"from collections import deque", "collections"},
		{"import numpy as np", "numpy"},
		{"x = 1", ""},
		{"# import os", ""},
	}

	for _, tc := range cases {
		m := importRe.FindStringSubmatch(tc.line)
		if tc.pkg == "" {
			assert.Nil(t, m, tc.line)
			continue
		}
		require.NotNil(t, m, tc.line)
		pkg := m[1]
		if pkg == "" {
			pkg = m[2]
		}
		assert.Equal(t, tc.pkg, pkg, tc.line)
	}
}

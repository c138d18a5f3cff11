package rectifier

import (
	"fmt"
	"strings"

	"github.com/lmeira/codemend/pkg/domain"
)

// patternFix is a deterministic repair. It returns the modified code, the
// human-readable changes, and a confidence in [0,1]. A fix that does not
// apply returns the input unchanged with confidence 0.
type patternFix func(code, errorMessage string) (string, []string, float64)

// catalogEntry pairs a trigger with a fix. An entry matches when its
// trigger substring occurs (case-insensitively) in the error message, or
// when its name equals the classified kind.
type catalogEntry struct {
	name    string
	trigger string
	fix     patternFix
}

// The catalog is ordered; the first matching entry is applied. Only a
// subset of kinds has deterministic handling, the rest are placeholders
// that yield confidence 0 and defer to the model.
var catalog = []catalogEntry{
	{name: "FutureImports", trigger: "from __future__ imports must occur at the beginning", fix: fixFutureImports},
	{name: string(domain.KindSyntaxError), trigger: "SyntaxError", fix: fixInvalidSyntax},
	{name: string(domain.KindNameError), trigger: "NameError", fix: fixNameError},
	{name: string(domain.KindImportError), trigger: "ImportError", fix: noFix},
	{name: "ModuleNotFoundError", trigger: "ModuleNotFoundError", fix: noFix},
	{name: string(domain.KindIndentation), trigger: "IndentationError", fix: fixIndentation},
	{name: string(domain.KindAttributeError), trigger: "AttributeError", fix: noFix},
	{name: string(domain.KindTypeError), trigger: "TypeError", fix: noFix},
	{name: string(domain.KindValueError), trigger: "ValueError", fix: noFix},
	{name: "KeyError", trigger: "KeyError", fix: noFix},
	{name: "IndexError", trigger: "IndexError", fix: noFix},
}

// applyPatternFixes walks the catalog and applies the first matching entry.
func applyPatternFixes(code, errorMessage string, kind domain.ErrorKind) (string, []string, float64) {
	lowered := strings.ToLower(errorMessage)
	for _, entry := range catalog {
		if strings.Contains(lowered, strings.ToLower(entry.trigger)) || entry.name == string(kind) {
			return entry.fix(code, errorMessage)
		}
	}
	return code, nil, 0
}

func noFix(code, _ string) (string, []string, float64) {
	return code, nil, 0
}

// fixFutureImports moves every `from __future__ import` line to the top of
// the file, directly after a shebang line if one is present.
func fixFutureImports(code, _ string) (string, []string, float64) {
	lines := strings.Split(code, "\n")

	var shebang string
	var futures, rest []string
	for i, line := range lines {
		switch {
		case i == 0 && strings.HasPrefix(line, "#!"):
			shebang = line
		case strings.Contains(strings.TrimSpace(line), "from __future__ import"):
			futures = append(futures, line)
		default:
			rest = append(rest, line)
		}
	}

	var out []string
	if shebang != "" {
		out = append(out, shebang)
	}
	out = append(out, futures...)
	out = append(out, rest...)

	return strings.Join(out, "\n"),
		[]string{"Moved __future__ imports to the beginning of the file"},
		0.95
}

var blockKeywords = []string{
	"if ", "elif ", "else", "for ", "while ", "def ", "class ",
	"try", "except", "finally", "with ",
}

// fixInvalidSyntax appends the missing trailing colon to block-opening
// statements.
func fixInvalidSyntax(code, _ string) (string, []string, float64) {
	lines := strings.Split(code, "\n")
	var changes []string

	for i, line := range lines {
		stripped := strings.TrimSpace(line)
		if stripped == "" || strings.HasSuffix(stripped, ":") {
			continue
		}
		for _, kw := range blockKeywords {
			if strings.HasPrefix(stripped, kw) {
				lines[i] = line + ":"
				changes = append(changes, fmt.Sprintf("Added missing colon on line %d", i+1))
				break
			}
		}
	}

	if len(changes) == 0 {
		return code, nil, 0
	}
	return strings.Join(lines, "\n"), changes, 0.8
}

// commonImports maps undefined names to the import statement that defines
// them. Deliberately small: only names a generated program plausibly uses.
var commonImports = map[string]string{
	"math":        "import math",
	"os":          "import os",
	"sys":         "import sys",
	"random":      "import random",
	"datetime":    "import datetime",
	"re":          "import re",
	"json":        "import json",
	"time":        "import time",
	"collections": "import collections",
	"itertools":   "import itertools",
	"np":          "import numpy as np",
	"pd":          "import pandas as pd",
	"plt":         "import matplotlib.pyplot as plt",
}

// fixNameError injects the import for a recognized undefined name, placed
// before the first non-comment, non-blank, non-future-import line.
func fixNameError(code, errorMessage string) (string, []string, float64) {
	m := nameRe.FindStringSubmatch(errorMessage)
	if m == nil {
		return code, nil, 0
	}
	importLine, ok := commonImports[m[1]]
	if !ok {
		return code, nil, 0
	}

	lines := strings.Split(code, "\n")
	insert := 0
scan:
	for i, line := range lines {
		stripped := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(stripped, "from __future__"):
			insert = i + 1
		case stripped == "" || strings.HasPrefix(stripped, "#"):
			continue
		default:
			break scan
		}
	}

	out := make([]string, 0, len(lines)+1)
	out = append(out, lines[:insert]...)
	out = append(out, importLine)
	out = append(out, lines[insert:]...)

	return strings.Join(out, "\n"),
		[]string{fmt.Sprintf("Added missing import: %s", importLine)},
		0.9
}

// fixIndentation normalizes leading tabs to 4-space indents.
func fixIndentation(code, _ string) (string, []string, float64) {
	lines := strings.Split(code, "\n")
	var changes []string

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indentLen := len(line) - len(strings.TrimLeft(line, " \t"))
		indent := line[:indentLen]
		if !strings.Contains(indent, "\t") {
			continue
		}
		tabs := strings.Count(indent, "\t")
		spaces := strings.Count(indent, " ")
		lines[i] = strings.Repeat("    ", tabs) + strings.Repeat(" ", spaces) + line[indentLen:]
		changes = append(changes, fmt.Sprintf("Normalized indentation on line %d", i+1))
	}

	if len(changes) == 0 {
		return code, nil, 0
	}
	return strings.Join(lines, "\n"), changes, 0.8
}

package rectifier

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/lmeira/codemend/pkg/domain"
)

// classification order is a behavioral contract: kinds are probed in this
// sequence and the first positive match wins.
var kindMarkers = []struct {
	kind    domain.ErrorKind
	markers []string
}{
	{domain.KindSyntaxError, []string{"SyntaxError"}},
	{domain.KindNameError, []string{"NameError"}},
	{domain.KindImportError, []string{"ImportError", "ModuleNotFoundError"}},
	{domain.KindIndentation, []string{"IndentationError"}},
	{domain.KindAttributeError, []string{"AttributeError"}},
	{domain.KindTypeError, []string{"TypeError"}},
	{domain.KindValueError, []string{"ValueError"}},
}

var lineRe = regexp.MustCompile(`line (\d+)`)

// Analyze classifies an error message into a kind and extracts the source
// line number if the message carries one.
func Analyze(errorMessage string) domain.ErrorAnalysis {
	analysis := domain.ErrorAnalysis{
		Kind:        domain.KindUnknown,
		Description: errorMessage,
	}

	for _, entry := range kindMarkers {
		for _, marker := range entry.markers {
			if strings.Contains(errorMessage, marker) {
				analysis.Kind = entry.kind
				break
			}
		}
		if analysis.Kind != domain.KindUnknown {
			break
		}
	}

	if m := lineRe.FindStringSubmatch(errorMessage); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			analysis.Line = n
		}
	}

	return analysis
}

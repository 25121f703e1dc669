package checks

import (
	"fmt"
	"strings"
)

// DefaultMarker tags the diagnostic lines lint emits for unused resources.
const DefaultMarker = "[UnusedResources]"

// MarkerParser keeps the stdout lines that contain Marker as a literal,
// case-sensitive substring. Stderr and the tool's exit code are ignored.
type MarkerParser struct {
	Marker string
}

func (p *MarkerParser) Parse(stdout string, stderr string, exitCode int) ParseResult {
	marker := p.Marker
	if marker == "" {
		marker = DefaultMarker
	}

	var matches []string
	for _, line := range strings.Split(stdout, "\n") {
		if strings.Contains(line, marker) {
			matches = append(matches, line)
		}
	}

	if len(matches) == 0 {
		return ParseResult{Passed: true, Summary: "no unused resources"}
	}
	return ParseResult{
		Passed:   false,
		Summary:  fmt.Sprintf("%d unused resource(s)", len(matches)),
		Findings: matches,
	}
}

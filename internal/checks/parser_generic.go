package checks

import (
	"fmt"
	"strings"
)

// GenericParser is the fallback parser that decides on the exit code alone.
type GenericParser struct{}

// maxFindings caps how many output lines the generic parser retains.
const maxFindings = 200

func (p *GenericParser) Parse(stdout string, stderr string, exitCode int) ParseResult {
	if exitCode == 0 {
		return ParseResult{Passed: true, Summary: "passed (exit code 0)"}
	}

	var lines []string
	for _, stream := range []string{stdout, stderr} {
		for _, line := range strings.Split(stream, "\n") {
			if strings.TrimSpace(line) != "" {
				lines = append(lines, line)
			}
		}
	}
	// Keep the tail; tools usually summarize at the end.
	if len(lines) > maxFindings {
		lines = lines[len(lines)-maxFindings:]
	}

	return ParseResult{
		Passed:   false,
		Summary:  fmt.Sprintf("exit code %d, stdout=%d bytes, stderr=%d bytes", exitCode, len(stdout), len(stderr)),
		Findings: lines,
	}
}

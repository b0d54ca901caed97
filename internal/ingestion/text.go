package ingestion

import (
	"regexp"
	"strings"
)

var (
	inlineSpace = regexp.MustCompile(`[ \t\f\v\x{00a0}]+`)
	blankLines  = regexp.MustCompile(`\n{3,}`)
)

// CleanText normalizes extracted text while keeping its line structure:
// line endings become LF, runs of spaces collapse, lines are trimmed, and
// more than one blank line in a row is reduced to one.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = strings.ReplaceAll(content, "\x00", "")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = cleanLine(line)
	}

	result := strings.Join(lines, "\n")
	result = blankLines.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}

// cleanLine collapses inline whitespace and normalizes bullet glyphs to "- ".
func cleanLine(line string) string {
	line = strings.TrimSpace(inlineSpace.ReplaceAllString(line, " "))
	for _, bullet := range []string{"• ", "· ", "▪ ", "* "} {
		if strings.HasPrefix(line, bullet) {
			return "- " + strings.TrimSpace(strings.TrimPrefix(line, bullet))
		}
	}
	return line
}

package llm

import "strings"

// CleanJSONBlock strips a markdown code fence around a JSON response and any
// chatter before the opening or after the closing brace or bracket.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.Index(text, "\n"); idx >= 0 {
			lang := text[:idx]
			if len(lang) < 20 && !strings.ContainsAny(lang, " {[") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return text
	}
	text = text[start:]
	closer := "}"
	if text[0] == '[' {
		closer = "]"
	}
	if end := strings.LastIndex(text, closer); end >= 0 {
		text = text[:end+1]
	}
	return text
}

package rendering

import "strings"

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	"*", `\*`,
	"_", `\_`,
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
	">", `\>`,
	"|", `\|`,
	"#", `\#`,
)

// EscapeMarkdown escapes characters that would otherwise change Markdown
// formatting, so skill names like "c#" or user text render literally.
// Newlines collapse to spaces to keep list items on one line.
func EscapeMarkdown(text string) string {
	if text == "" {
		return ""
	}
	text = strings.Join(strings.Fields(text), " ")
	return markdownEscaper.Replace(text)
}

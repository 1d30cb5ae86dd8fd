package sugg

import (
	"strings"

	"hone/internal/source"
)

// Snippets resolves both text and line indentation.
type Snippets interface {
	SourceAccess
	LineIndent(sp source.Span) string
}

// SnippetBlock returns the text of a multi-line block re-indented so it can
// replace code that starts on the line of indentLine: lines after the first
// lose their common indentation and take the indentation of that line.
func SnippetBlock(src Snippets, sp source.Span, fallback string, indentLine source.Span) string {
	text := src.SourceText(sp, fallback)
	return Reindent(text, src.LineIndent(indentLine))
}

// Reindent shifts lines 2..n of text to the given indentation, keeping
// their relative layout.
func Reindent(text, indent string) string {
	lines := strings.Split(text, "\n")
	if len(lines) == 1 {
		return text
	}
	common := -1
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if common < 0 || n < common {
			common = n
		}
	}
	if common < 0 {
		common = 0
	}
	for i := 1; i < len(lines); i++ {
		line := lines[i]
		if strings.TrimSpace(line) == "" {
			lines[i] = ""
			continue
		}
		lines[i] = indent + line[common:]
	}
	return strings.Join(lines, "\n")
}

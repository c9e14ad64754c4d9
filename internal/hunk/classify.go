package hunk

import "strings"

// Classification tags for hunk content.
const (
	TagImports   = "imports"
	TagFunctions = "functions"
	TagStyles    = "styles"
)

// Classify tags a hunk by the kind of content its changed lines touch.
// It is a pure function over the hunk's added and removed lines and has
// no effect on how the hunk is applied.
func Classify(h Hunk) []string {
	var imports, functions, styles bool
	for _, l := range h.Lines {
		if l.Kind == Context {
			continue
		}
		text := l.Text
		if strings.Contains(text, "import ") || strings.Contains(text, "require(") {
			imports = true
		}
		if strings.Contains(text, "function ") || strings.Contains(text, "func ") || strings.Contains(text, "=>") {
			functions = true
		}
		if strings.Contains(text, "className") || strings.Contains(text, "style") || strings.Contains(text, "css") {
			styles = true
		}
	}
	var tags []string
	if imports {
		tags = append(tags, TagImports)
	}
	if functions {
		tags = append(tags, TagFunctions)
	}
	if styles {
		tags = append(tags, TagStyles)
	}
	return tags
}

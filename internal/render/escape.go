package render

import "strings"

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// Escape replaces the five HTML-significant characters with named entities.
// Named entities keep digits out of the output, so the number pass of the
// tokenizers can never split one.
func Escape(text string) string {
	return htmlEscaper.Replace(text)
}

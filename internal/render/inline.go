package render

import "regexp"

type inlineRule struct {
	pattern     *regexp.Regexp
	replacement string
}

// inlineRules run in order, each over the whole text. "." never crosses a newline.
var inlineRules = []inlineRule{
	{regexp.MustCompile(`\*\*(.*?)\*\*`), "<strong>${1}</strong>"},
	{regexp.MustCompile(`__(.*?)__`), "<strong>${1}</strong>"},
	{regexp.MustCompile(`\*(.*?)\*`), "<em>${1}</em>"},
	{regexp.MustCompile(`_(.*?)_`), "<em>${1}</em>"},
	{regexp.MustCompile(`~~(.*?)~~`), "<del>${1}</del>"},
	{regexp.MustCompile("`([^`]+)`"), `<code class="inline-code">${1}</code>`},
	{regexp.MustCompile(`[\x{1F300}-\x{1F6FF}]`), `<span class="emoji">${0}</span>`},
}

// ApplyInlineMarkup converts the inline directives in already-escaped text
// into tags. Markers without a partner stay as literal text.
func ApplyInlineMarkup(escaped string) string {
	for _, rule := range inlineRules {
		escaped = rule.pattern.ReplaceAllString(escaped, rule.replacement)
	}
	return escaped
}

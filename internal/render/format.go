package render

import "strings"

// Format renders raw message text as HTML. Code blocks are extracted first so
// neither escaping nor inline markup can reach them; each is then escaped,
// tokenized for its language and wrapped in a copyable block.
func Format(raw string) string {
	if raw == "" {
		return ""
	}
	ex := ExtractCodeBlocks(raw)
	text := ApplyInlineMarkup(Escape(ex.Text))
	return ex.Reinsert(text, RenderCodeBlock)
}

// RenderCodeBlock renders one extracted block
func RenderCodeBlock(block CodeBlock) string {
	escaped := Escape(block.Code)
	language := Escape(block.Language)

	var b strings.Builder
	b.WriteString(`<div class="code-block-wrapper"><div class="code-header"><span class="code-language">`)
	b.WriteString(language)
	b.WriteString(`</span><button class="copy-code-btn" data-code="`)
	b.WriteString(escaped)
	b.WriteString(`"><i class="fas fa-copy"></i> Copy</button></div><pre><code class="language-`)
	b.WriteString(language)
	b.WriteString(`">`)
	b.WriteString(Highlight(block.Language, escaped))
	b.WriteString(`</code></pre></div>`)
	return b.String()
}

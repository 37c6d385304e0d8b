package render

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// DefaultLanguage labels fenced blocks that name no language
const DefaultLanguage = "plaintext"

var fencePattern = regexp.MustCompile("```(\\w*)\\n([\\s\\S]*?)```")

// CodeBlock is a fenced region pulled out of a message
type CodeBlock struct {
	Language string
	Code     string
}

// Extraction is message text with its code blocks replaced by placeholders
type Extraction struct {
	Text   string
	Blocks []CodeBlock
	nonce  string
}

// ExtractCodeBlocks replaces every fenced block with a placeholder. The
// placeholder carries a random nonce so text typed by a user can never be
// mistaken for one. Unterminated fences are left as literal text.
func ExtractCodeBlocks(text string) Extraction {
	ex := Extraction{nonce: strings.ReplaceAll(uuid.NewString(), "-", "")}

	matches := fencePattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		ex.Text = text
		return ex
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		language := text[m[2]:m[3]]
		if language == "" {
			language = DefaultLanguage
		}
		ex.Blocks = append(ex.Blocks, CodeBlock{
			Language: language,
			Code:     strings.TrimSpace(text[m[4]:m[5]]),
		})
		b.WriteString(text[last:m[0]])
		b.WriteString(ex.Placeholder(len(ex.Blocks) - 1))
		last = m[1]
	}
	b.WriteString(text[last:])
	ex.Text = b.String()
	return ex
}

// Placeholder returns the marker standing in for block i. It contains only
// characters that neither escaping nor inline markup touch.
func (ex Extraction) Placeholder(i int) string {
	return fmt.Sprintf("%%%%CODEBLOCK%sx%d%%%%", ex.nonce, i)
}

// Reinsert swaps each placeholder in text for render(block)
func (ex Extraction) Reinsert(text string, render func(CodeBlock) string) string {
	for i, block := range ex.Blocks {
		text = strings.Replace(text, ex.Placeholder(i), render(block), 1)
	}
	return text
}

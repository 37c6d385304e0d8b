package render

import (
	"strings"
	"time"

	"github.com/dlclark/regexp2"
)

const passTimeout = 2 * time.Second

// scope limits where a tokenizer pass may match in partially tokenized code
type scope int

const (
	// scopeTopLevel matches must start and end outside every inserted span
	// and never cut through a tag. They may enclose whole spans.
	scopeTopLevel scope = iota
	// scopeText matches must lie in plain text between tags
	scopeText
)

type pass struct {
	re      *regexp2.Regexp
	scope   scope
	replace func(m *regexp2.Match) string
}

func newPass(pattern string, opts regexp2.RegexOptions, sc scope, replace func(m *regexp2.Match) string) pass {
	re := regexp2.MustCompile(pattern, opts|regexp2.ECMAScript)
	re.MatchTimeout = passTimeout
	return pass{re: re, scope: sc, replace: replace}
}

// wrapMatch wraps the whole match in a span of class
func wrapMatch(class string) func(m *regexp2.Match) string {
	return func(m *regexp2.Match) string {
		return `<span class="` + class + `">` + m.String() + "</span>"
	}
}

func group(m *regexp2.Match, n int) string {
	if g := m.GroupByNumber(n); g != nil {
		return g.String()
	}
	return ""
}

var jsPasses = []pass{
	newPass("(&quot;|&apos;|`)(.*?)\\1", regexp2.None, scopeTopLevel, wrapMatch("string")),
	newPass(`//.*$`, regexp2.Multiline, scopeTopLevel, wrapMatch("comment")),
	newPass(`/\*[\s\S]*?\*/`, regexp2.None, scopeTopLevel, wrapMatch("comment")),
	newPass(`\b(const|let|var|function|if|else|for|while|return|import|export|from|class|extends|new|this|try|catch|finally|async|await|typeof|instanceof|switch|case|break|continue|throw|delete|void|yield)\b`,
		regexp2.None, scopeText, wrapMatch("keyword")),
	newPass(`\b(true|false|null|undefined|NaN|Infinity)\b`, regexp2.None, scopeText, wrapMatch("literal")),
	newPass(`\b\d+\b`, regexp2.None, scopeText, wrapMatch("number")),
	newPass(`\b[A-Za-z_$][A-Za-z0-9_$]*(?=\s*\()`, regexp2.None, scopeText, wrapMatch("function")),
}

var htmlPasses = []pass{
	newPass(`&lt;(/)?([a-zA-Z0-9-]+)`, regexp2.None, scopeTopLevel, func(m *regexp2.Match) string {
		return `&lt;<span class="tag">` + group(m, 1) + group(m, 2) + "</span>"
	}),
	newPass(`([a-zA-Z-]+)=`, regexp2.None, scopeText, func(m *regexp2.Match) string {
		return `<span class="attribute">` + group(m, 1) + "</span>="
	}),
	newPass(`&quot;(.*?)&quot;`, regexp2.None, scopeText, func(m *regexp2.Match) string {
		return `&quot;<span class="string">` + group(m, 1) + "</span>&quot;"
	}),
	newPass(`&lt;!--[\s\S]*?--&gt;`, regexp2.None, scopeTopLevel, wrapMatch("comment")),
}

// HighlightJavaScript wraps strings, comments, keywords, literals, numbers
// and call names of escaped JavaScript in classed spans. Later passes do not
// know about strings or comments, so a keyword inside a string is still marked.
func HighlightJavaScript(escaped string) string {
	return runPasses(jsPasses, escaped)
}

// HighlightHTML wraps tag names, attribute names, quoted values and comments
// of escaped HTML in classed spans.
func HighlightHTML(escaped string) string {
	return runPasses(htmlPasses, escaped)
}

// Highlight picks the tokenizer for language. Unknown languages come back unchanged.
func Highlight(language, escaped string) string {
	switch language {
	case "javascript", "js":
		return HighlightJavaScript(escaped)
	case "html":
		return HighlightHTML(escaped)
	default:
		return escaped
	}
}

func runPasses(passes []pass, code string) string {
	for _, p := range passes {
		code = p.apply(code)
	}
	return code
}

// apply runs one pass over code. Candidate matches outside the pass scope are
// skipped and the search resumes one rune later.
func (p pass) apply(code string) string {
	if code == "" {
		return code
	}
	runes := []rune(code)
	marks := scanMarkup(runes)

	var b strings.Builder
	last := 0
	m, err := p.re.FindRunesMatch(runes)
	for m != nil && err == nil {
		start, end := m.Index, m.Index+m.Length
		next := start + 1
		if p.accepts(marks, runes, start, end) {
			b.WriteString(string(runes[last:start]))
			b.WriteString(p.replace(m))
			last = end
			if end > start {
				next = end
			}
		}
		if next > len(runes) {
			break
		}
		m, err = p.re.FindRunesMatchStartingAt(runes, next)
	}
	b.WriteString(string(runes[last:]))
	return b.String()
}

func (p pass) accepts(marks markup, runes []rune, start, end int) bool {
	if marks.inTag[start] || marks.inTag[end] {
		return false
	}
	switch p.scope {
	case scopeText:
		for _, r := range runes[start:end] {
			if r == '<' || r == '>' {
				return false
			}
		}
		return true
	default:
		return marks.depth[start] == 0 && marks.depth[end] == 0
	}
}

// markup describes the tags already inserted into a string, per rune boundary.
// Boundary i sits just before rune i.
type markup struct {
	// inTag[i] is set when boundary i falls strictly inside a tag
	inTag []bool
	// depth[i] counts spans opened and not yet closed before boundary i
	depth []int
}

// scanMarkup relies on escaped code never holding a raw '<' or '>', so every
// angle bracket belongs to a tag some pass inserted.
func scanMarkup(runes []rune) markup {
	mk := markup{
		inTag: make([]bool, len(runes)+1),
		depth: make([]int, len(runes)+1),
	}
	depth := 0
	inside, closing := false, false
	for i, r := range runes {
		mk.inTag[i] = inside
		mk.depth[i] = depth
		switch {
		case r == '<' && !inside:
			inside = true
			closing = i+1 < len(runes) && runes[i+1] == '/'
		case r == '>' && inside:
			inside = false
			if closing {
				depth--
			} else {
				depth++
			}
		}
	}
	mk.inTag[len(runes)] = inside
	mk.depth[len(runes)] = depth
	return mk
}

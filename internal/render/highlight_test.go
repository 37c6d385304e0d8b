package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHighlightJavaScript(t *testing.T) {
	tests := []struct {
		name string
		code string
		want string
	}{
		{
			name: "keyword and number",
			code: "const x = 42;",
			want: `<span class="keyword">const</span> x = <span class="number">42</span>;`,
		},
		{
			name: "double quoted string",
			code: `let s = "hi";`,
			want: `<span class="keyword">let</span> s = <span class="string">&quot;hi&quot;</span>;`,
		},
		{
			name: "single quoted and template strings",
			code: "'a' + `b`",
			want: `<span class="string">&apos;a&apos;</span> + <span class="string">` + "`b`" + `</span>`,
		},
		{
			name: "function call",
			code: "foo(1)",
			want: `<span class="function">foo</span>(<span class="number">1</span>)`,
		},
		{
			name: "whitespace before paren is kept",
			code: "alert (x)",
			want: `<span class="function">alert</span> (x)`,
		},
		{
			name: "line comment",
			code: "x = 1 // note",
			want: `x = <span class="number">1</span> <span class="comment">// note</span>`,
		},
		{
			name: "line comment ends at newline",
			code: "// a\nb",
			want: "<span class=\"comment\">// a</span>\nb",
		},
		{
			name: "block comment",
			code: "/* a\nb */ c",
			want: "<span class=\"comment\">/* a\nb */</span> c",
		},
		{
			name: "comment encloses string",
			code: `// say "hi"`,
			want: `<span class="comment">// say <span class="string">&quot;hi&quot;</span></span>`,
		},
		{
			name: "url inside string is not a comment",
			code: `"http://x"`,
			want: `<span class="string">&quot;http://x&quot;</span>`,
		},
		{
			name: "class keyword leaves inserted markup alone",
			code: "class A extends B {}",
			want: `<span class="keyword">class</span> A <span class="keyword">extends</span> B {}`,
		},
		{
			name: "keyword before paren is not a function",
			code: "if (x) {",
			want: `<span class="keyword">if</span> (x) {`,
		},
		{
			name: "literals",
			code: "return true;",
			want: `<span class="keyword">return</span> <span class="literal">true</span>;`,
		},
		{
			name: "digits inside identifiers",
			code: "x1 = 2",
			want: `x1 = <span class="number">2</span>`,
		},
		{
			name: "keyword prefix of identifier",
			code: "classList",
			want: "classList",
		},
		{
			name: "keyword inside string still marked",
			code: `"new"`,
			want: `<span class="string">&quot;<span class="keyword">new</span>&quot;</span>`,
		},
		{
			name: "empty",
			code: "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HighlightJavaScript(Escape(tt.code)))
		})
	}
}

func TestHighlightHTML(t *testing.T) {
	tests := []struct {
		name string
		code string
		want string
	}{
		{
			name: "element with attribute",
			code: `<div class="box">Hi</div>`,
			want: `&lt;<span class="tag">div</span> <span class="attribute">class</span>=&quot;<span class="string">box</span>&quot;&gt;Hi&lt;<span class="tag">/div</span>&gt;`,
		},
		{
			name: "hyphenated attribute",
			code: `<a data-id="7">`,
			want: `&lt;<span class="tag">a</span> <span class="attribute">data-id</span>=&quot;<span class="string">7</span>&quot;&gt;`,
		},
		{
			name: "comment",
			code: "<!-- note -->",
			want: `<span class="comment">&lt;!-- note --&gt;</span>`,
		},
		{
			name: "comment around a tag",
			code: "<!-- <b> -->",
			want: `<span class="comment">&lt;!-- &lt;<span class="tag">b</span>&gt; --&gt;</span>`,
		},
		{
			name: "plain text",
			code: "no markup here",
			want: "no markup here",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HighlightHTML(Escape(tt.code)))
		})
	}
}

func TestHighlight_Dispatch(t *testing.T) {
	escaped := Escape("const a = 1;")

	assert.Equal(t, HighlightJavaScript(escaped), Highlight("javascript", escaped))
	assert.Equal(t, HighlightJavaScript(escaped), Highlight("js", escaped))
	assert.Equal(t, HighlightHTML(escaped), Highlight("html", escaped))
	for _, lang := range []string{"python", "plaintext", "JS", ""} {
		assert.Equal(t, escaped, Highlight(lang, escaped), "language %q", lang)
	}
}

// Every tokenizer output keeps its spans balanced and never contains a raw
// angle bracket outside the spans it inserted.
func TestHighlight_WellFormed(t *testing.T) {
	inputs := []string{
		`function f(a, b) { return a < b ? "lt" : 'ge'; } // done`,
		"/* multi\n line */ const s = `tmpl ${x}`; f(1)(2)",
		`const url = "http://example.com/a?b=1&c=2"; /* "quoted" */`,
		`<p class="x" id='y'>a &amp; b</p><!-- c="d" --><br/>`,
		`"unterminated string and // comment`,
		`<div><span class="keyword">fake</span></div>`,
		"class class class(1) this.new = delete void 0",
	}

	for _, in := range inputs {
		for lang, fn := range map[string]func(string) string{"js": HighlightJavaScript, "html": HighlightHTML} {
			out := fn(Escape(in))
			assert.Equal(t, strings.Count(out, "<span"), strings.Count(out, "</span>"), "%s: %q", lang, out)

			stripped := stripSpans(out)
			assert.Equal(t, Escape(in), stripped, "%s: tokenizing must only add spans", lang)
		}
	}
}

// stripSpans removes every tag, leaving the text content
func stripSpans(s string) string {
	var b strings.Builder
	inside := false
	for _, r := range s {
		switch {
		case r == '<':
			inside = true
		case r == '>' && inside:
			inside = false
		case !inside:
			b.WriteRune(r)
		}
	}
	return b.String()
}

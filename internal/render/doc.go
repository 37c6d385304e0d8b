// Package render turns raw chat message text into HTML.
//
// The pipeline runs in a fixed order: fenced code blocks are pulled out and
// replaced by placeholders, the remaining text is entity-escaped, inline
// markup directives are applied, and finally each placeholder is swapped for
// its rendered, syntax-tokenized code block. Only javascript/js and html code
// is tokenized; every other language is shown escaped and uncolored.
//
// All functions are pure and safe for concurrent use.
package render

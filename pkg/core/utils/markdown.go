package utils

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// MarkdownToHTML renders GitHub-flavoured Markdown (tables included) to HTML.
// A new goldmark instance is built per call.
func MarkdownToHTML(input string) (string, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	var buf bytes.Buffer
	if err := md.Convert([]byte(input), &buf); err != nil {
		return "", fmt.Errorf("MARKDOWN_RENDER_FAILED: %w", err)
	}
	return buf.String(), nil
}

// ValidateMarkdown reports whether input parses to a non-empty document.
func ValidateMarkdown(input string) bool {
	doc := goldmark.DefaultParser().Parse(text.NewReader([]byte(input)))
	return doc != nil && doc.HasChildren()
}

// TableRow formats one Markdown table row, escaping pipes inside cells.
func TableRow(cells ...string) string {
	var b strings.Builder
	b.WriteString("|")
	for _, c := range cells {
		b.WriteString(" ")
		b.WriteString(EscapeCell(c))
		b.WriteString(" |")
	}
	b.WriteString("\n")
	return b.String()
}

// TableHeader formats a header row and its separator; numeric columns are
// right-aligned.
func TableHeader(numeric []bool, titles ...string) string {
	var sep strings.Builder
	sep.WriteString("|")
	for i := range titles {
		if i < len(numeric) && numeric[i] {
			sep.WriteString(" ---: |")
		} else {
			sep.WriteString(" --- |")
		}
	}
	return TableRow(titles...) + sep.String() + "\n"
}

// EscapeCell keeps a value on one line and out of the column syntax.
func EscapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}

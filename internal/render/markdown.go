// Package render converts model-produced markdown into readable
// terminal output. It parses with goldmark and walks the AST rather
// than regex-stripping, so nested lists and code fences come out right.
package render

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// ANSI styles used when color is enabled.
const (
	styleReset  = "\x1b[0m"
	styleBold   = "\x1b[1m"
	styleDim    = "\x1b[2m"
	styleItalic = "\x1b[3m"
)

// Renderer renders markdown for a terminal. Color controls whether
// ANSI styling is emitted; disable it for pipes and tests.
type Renderer struct {
	Color bool
}

// Terminal renders md as terminal text.
func (r Renderer) Terminal(md string) string {
	src := []byte(md)
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var b strings.Builder
	r.blocks(&b, src, doc, "")
	out := strings.TrimRight(b.String(), "\n")
	if out == "" {
		return ""
	}
	return out + "\n"
}

func (r Renderer) style(s, code string) string {
	if !r.Color || s == "" {
		return s
	}
	return code + s + styleReset
}

// blocks renders the block-level children of n, prefixing every output
// line with indent (used for list nesting and blockquotes).
func (r Renderer) blocks(b *strings.Builder, src []byte, n ast.Node, indent string) {
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch node := child.(type) {
		case *ast.Heading:
			b.WriteString(indent)
			b.WriteString(r.style(r.inline(src, node), styleBold))
			b.WriteString("\n\n")

		case *ast.Paragraph, *ast.TextBlock:
			b.WriteString(indent)
			b.WriteString(r.inline(src, node))
			b.WriteString("\n")
			if _, ok := child.(*ast.Paragraph); ok {
				b.WriteString("\n")
			}

		case *ast.List:
			r.list(b, src, node, indent)
			b.WriteString("\n")

		case *ast.FencedCodeBlock:
			r.codeLines(b, src, node, indent)
			b.WriteString("\n")

		case *ast.CodeBlock:
			r.codeLines(b, src, node, indent)
			b.WriteString("\n")

		case *ast.Blockquote:
			var inner strings.Builder
			r.blocks(&inner, src, node, "")
			for _, line := range strings.Split(strings.TrimRight(inner.String(), "\n"), "\n") {
				b.WriteString(indent)
				b.WriteString(r.style("| ", styleDim))
				b.WriteString(line)
				b.WriteString("\n")
			}
			b.WriteString("\n")

		case *ast.ThematicBreak:
			b.WriteString(indent)
			b.WriteString(r.style(strings.Repeat("-", 40), styleDim))
			b.WriteString("\n\n")

		default:
			// Unknown block kinds (HTML blocks etc.) render their inline
			// text so nothing silently disappears.
			if txt := r.inline(src, child); txt != "" {
				b.WriteString(indent)
				b.WriteString(txt)
				b.WriteString("\n")
			}
		}
	}
}

func (r Renderer) list(b *strings.Builder, src []byte, list *ast.List, indent string) {
	i := list.Start
	if i == 0 {
		i = 1
	}
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		marker := "* "
		if list.IsOrdered() {
			marker = fmt.Sprintf("%d. ", i)
			i++
		}
		var inner strings.Builder
		r.blocks(&inner, src, item, "")
		lines := strings.Split(strings.TrimRight(inner.String(), "\n"), "\n")
		for j, line := range lines {
			b.WriteString(indent)
			if j == 0 {
				b.WriteString(marker)
			} else {
				b.WriteString(strings.Repeat(" ", len(marker)))
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
}

func (r Renderer) codeLines(b *strings.Builder, src []byte, n ast.Node, indent string) {
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.WriteString(indent)
		b.WriteString("    ")
		b.WriteString(r.style(strings.TrimRight(string(seg.Value(src)), "\n"), styleDim))
		b.WriteString("\n")
	}
}

// inline flattens the inline children of n into a styled string.
func (r Renderer) inline(src []byte, n ast.Node) string {
	var b strings.Builder
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch node := child.(type) {
		case *ast.Text:
			b.Write(node.Segment.Value(src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				b.WriteString("\n")
			}
		case *ast.Emphasis:
			code := styleItalic
			if node.Level >= 2 {
				code = styleBold
			}
			b.WriteString(r.style(r.inline(src, node), code))
		case *ast.CodeSpan:
			b.WriteString(r.style(r.inline(src, node), styleDim))
		case *ast.Link:
			b.WriteString(r.inline(src, node))
			b.WriteString(r.style(" ("+string(node.Destination)+")", styleDim))
		case *ast.AutoLink:
			b.Write(node.URL(src))
		case *ast.Image:
			b.WriteString(r.inline(src, node))
		default:
			b.WriteString(r.inline(src, child))
		}
	}
	return b.String()
}

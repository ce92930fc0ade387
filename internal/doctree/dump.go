package doctree

import (
	"bufio"
	"io"
	"strings"

	"github.com/yuin/goldmark/ast"
	"golang.org/x/net/html"
)

const indentUnit = "    "

// Fprint writes root as docutils-style pseudo-XML:
//
//	<document>
//	    <target refid="a">
//	    <section ids="a section-title">
//	        <title>
//	            Section Title
//
// Headings and paragraphs print their plain text on the following line;
// other blocks print their goldmark kind in lower case.
func Fprint(w io.Writer, root ast.Node, source []byte) error {
	bw := bufio.NewWriter(w)
	writeNode(bw, root, source, 0)
	return bw.Flush()
}

func writeNode(w *bufio.Writer, n ast.Node, source []byte, depth int) {
	indent := strings.Repeat(indentUnit, depth)
	switch node := n.(type) {
	case *ast.Document:
		writeLine(w, indent, "<document>")
	case *Section:
		writeLine(w, indent, `<section ids="`+html.EscapeString(node.IDs.String())+`">`)
	case *Target:
		writeLine(w, indent, "<target"+targetAttrs(node)+">")
		return
	case *ast.Heading:
		writeText(w, indent, "<title>", node, source)
		return
	case *ast.Paragraph, *ast.TextBlock:
		writeText(w, indent, "<paragraph>", node, source)
		return
	default:
		writeLine(w, indent, "<"+strings.ToLower(n.Kind().String())+">")
		if n.Type() == ast.TypeInline {
			return
		}
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		writeNode(w, c, source, depth+1)
	}
}

func targetAttrs(t *Target) string {
	var b strings.Builder
	attr := func(name, value string) {
		b.WriteString(" " + name + `="` + html.EscapeString(value) + `"`)
	}
	refID, propagated := t.RefID()
	if !propagated && t.ID != "" {
		attr("ids", t.ID)
		attr("names", t.Name)
	}
	if propagated {
		attr("refid", refID)
	}
	if t.RefURI != "" {
		attr("refuri", t.RefURI)
	}
	return b.String()
}

func writeText(w *bufio.Writer, indent, tag string, n ast.Node, source []byte) {
	writeLine(w, indent, tag)
	if text := PlainText(n, source); text != "" {
		writeLine(w, indent+indentUnit, html.EscapeString(text))
	}
}

func writeLine(w *bufio.Writer, indent, s string) {
	_, _ = w.WriteString(indent)
	_, _ = w.WriteString(s)
	_ = w.WriteByte('\n')
}

package markdown

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"git.home.luguber.info/inful/docanchors/internal/doctree"
	"git.home.luguber.info/inful/docanchors/internal/transforms"
)

// AssembleSections nests top-level content under sections opened by
// headings. A heading closes every open section of the same or a deeper
// level. Content before the first heading stays on the document.
type AssembleSections struct{}

func (AssembleSections) Name() string  { return transforms.StepAssembleSections }
func (AssembleSections) Priority() int { return transforms.PrioritySections }

func (AssembleSections) Capabilities() transforms.Capabilities {
	return transforms.Capabilities{ParallelSafe: true}
}

func (AssembleSections) Transform(doc *ast.Document, _ text.Reader, pc parser.Context) error {
	var children []ast.Node
	for c := doc.FirstChild(); c != nil; c = c.NextSibling() {
		children = append(children, c)
	}
	for _, c := range children {
		doc.RemoveChild(doc, c)
	}

	var open []*doctree.Section
	count := 0
	for _, c := range children {
		if h, ok := c.(*ast.Heading); ok {
			for len(open) > 0 && open[len(open)-1].Level >= h.Level {
				open = open[:len(open)-1]
			}
			s := doctree.NewSection(h.Level)
			appendTo(doc, open, s)
			s.AppendChild(s, h)
			open = append(open, s)
			count++
			continue
		}
		appendTo(doc, open, c)
	}

	doctree.SetIndex(pc, doctree.BuildIndex(doc))
	transforms.AddChanges(pc, transforms.StepAssembleSections, count)
	return nil
}

func appendTo(doc *ast.Document, open []*doctree.Section, n ast.Node) {
	if len(open) == 0 {
		doc.AppendChild(doc, n)
		return
	}
	top := open[len(open)-1]
	top.AppendChild(top, n)
}

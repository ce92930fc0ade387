package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"git.home.luguber.info/inful/docanchors/internal/doctree"
	"git.home.luguber.info/inful/docanchors/internal/transforms"
)

func assemble(t *testing.T, src string) (*ast.Document, parser.Context) {
	t.Helper()
	reg := transforms.NewRegistry()
	require.NoError(t, reg.Register(AssembleSections{}))
	p, err := reg.Pipeline(nil)
	require.NoError(t, err)

	pc := parser.NewContext()
	md := goldmark.New(goldmark.WithParserOptions(p.ParserOption()))
	doc := md.Parser().Parse(text.NewReader([]byte(src)), parser.WithContext(pc))
	require.NoError(t, transforms.Err(pc))
	return doc.(*ast.Document), pc
}

func TestAssembleSections_Nesting(t *testing.T) {
	doc, pc := assemble(t, "Preamble.\n\n## A\n\n# B\n\n## C\n\n### D\n\n## E\n\ntext\n")

	// Preamble and the level-2 heading before any level-1 heading stay at top level.
	first := doc.FirstChild()
	require.Equal(t, ast.KindParagraph, first.Kind())
	a, ok := first.NextSibling().(*doctree.Section)
	require.True(t, ok)
	require.Equal(t, 2, a.Level)

	b, ok := a.NextSibling().(*doctree.Section)
	require.True(t, ok)
	require.Equal(t, 1, b.Level)
	require.Nil(t, b.NextSibling())

	c, ok := b.Heading().NextSibling().(*doctree.Section)
	require.True(t, ok)
	d, ok := c.Heading().NextSibling().(*doctree.Section)
	require.True(t, ok)
	require.Equal(t, 3, d.Level)
	e, ok := c.NextSibling().(*doctree.Section)
	require.True(t, ok)
	require.Equal(t, ast.KindParagraph, e.LastChild().Kind())

	ix, ok := doctree.IndexFrom(pc)
	require.True(t, ok)
	require.Len(t, ix.FindAll(doctree.KindSection), 5)
	require.Equal(t, 5, transforms.Changes(pc, transforms.StepAssembleSections))
}

func TestAssembleSections_HeadingsInsideContainersDoNotOpenSections(t *testing.T) {
	doc, _ := assemble(t, "> # Quoted\n\n- # Listed\n")
	for c := doc.FirstChild(); c != nil; c = c.NextSibling() {
		require.NotEqual(t, doctree.KindSection, c.Kind())
	}
}

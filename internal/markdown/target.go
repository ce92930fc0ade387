package markdown

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"git.home.luguber.info/inful/docanchors/internal/doctree"
)

// targetPattern matches ".. _name:", ".. _name: uri" and ".. _`name: x`:".
var targetPattern = regexp.MustCompile("^\\.\\. _(?:`([^`]+)`|([^`:][^:]*)):(?:[ \\t]+(.*))?$")

// ParseTargetLine parses one hyperlink target line. Anonymous targets
// (".. __:") are not anchors and are rejected.
func ParseTargetLine(line string) (*doctree.Target, bool) {
	m := targetPattern.FindStringSubmatch(strings.TrimRight(line, " \t\r\n"))
	if m == nil {
		return nil, false
	}
	name := m[1]
	if name == "" {
		name = m[2]
	}
	name = normalizeName(name)
	if name == "" || name == "_" {
		return nil, false
	}
	t := doctree.NewTarget(name)
	t.RefURI = strings.TrimSpace(m[3])
	return t, true
}

// normalizeName lower-cases a reference name and collapses whitespace.
func normalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

type targetParser struct{}

func (targetParser) Trigger() []byte {
	return []byte{'.'}
}

func (targetParser) Open(_ ast.Node, reader text.Reader, _ parser.Context) (ast.Node, parser.State) {
	line, segment := reader.PeekLine()
	w, pos := util.IndentWidth(line, reader.LineOffset())
	if w > 3 {
		return nil, parser.NoChildren
	}
	t, ok := ParseTargetLine(string(line[pos:]))
	if !ok {
		return nil, parser.NoChildren
	}
	t.Lines().Append(segment.TrimRightSpace(reader.Source()))
	reader.Advance(segment.Len() - 1)
	return t, parser.NoChildren
}

func (targetParser) Continue(ast.Node, text.Reader, parser.Context) parser.State {
	return parser.Close
}

func (targetParser) Close(ast.Node, text.Reader, parser.Context) {}

func (targetParser) CanInterruptParagraph() bool {
	return true
}

func (targetParser) CanAcceptIndentedLine() bool {
	return false
}

// targetPriority runs ahead of goldmark's paragraph parser.
const targetPriority = 90

// Targets is a goldmark extension adding hyperlink target blocks.
var Targets goldmark.Extender = targetsExtension{}

type targetsExtension struct{}

func (targetsExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithBlockParsers(
		util.Prioritized(targetParser{}, targetPriority),
	))
}

package markdown

import (
	"bytes"
	"io"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"golang.org/x/net/html"

	"git.home.luguber.info/inful/docanchors/internal/doctree"
	"git.home.luguber.info/inful/docanchors/internal/transforms"
)

// HTMLAnchors turns blocks that hold nothing but one <a id> or <a name>
// anchor into targets.
type HTMLAnchors struct{}

func (HTMLAnchors) Name() string  { return transforms.StepHTMLAnchors }
func (HTMLAnchors) Priority() int { return transforms.PriorityHTMLAnchors }

func (HTMLAnchors) Capabilities() transforms.Capabilities {
	return transforms.Capabilities{ParallelSafe: true}
}

func (HTMLAnchors) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) error {
	source := reader.Source()
	type replacement struct {
		old    ast.Node
		target *doctree.Target
	}
	var found []replacement

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.(type) {
		case *ast.Paragraph, *ast.TextBlock, *ast.HTMLBlock:
			if t, ok := anchorTarget(blockSource(n, source)); ok {
				found = append(found, replacement{old: n, target: t})
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	for _, r := range found {
		t := r.target
		t.Lines().AppendAll(r.old.Lines().Sliced(0, r.old.Lines().Len()))
		r.old.Parent().ReplaceChild(r.old.Parent(), r.old, t)
	}
	transforms.AddChanges(pc, transforms.StepHTMLAnchors, len(found))
	return nil
}

func blockSource(n ast.Node, source []byte) []byte {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}
	if hb, ok := n.(*ast.HTMLBlock); ok && hb.HasClosure() {
		buf.Write(hb.ClosureLine.Value(source))
	}
	return buf.Bytes()
}

// anchorTarget accepts markup made of exactly one anchor start tag, an
// optional matching end tag and whitespace.
func anchorTarget(raw []byte) (*doctree.Target, bool) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, false
	}
	var (
		target *doctree.Target
		closed bool
	)
	z := html.NewTokenizer(bytes.NewReader(raw))
	for {
		switch z.Next() {
		case html.ErrorToken:
			if z.Err() != io.EOF {
				return nil, false
			}
			return target, target != nil
		case html.TextToken:
			if len(bytes.TrimSpace(z.Text())) > 0 {
				return nil, false
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if target != nil || tok.Data != "a" {
				return nil, false
			}
			t, ok := targetFromAttrs(tok.Attr)
			if !ok {
				return nil, false
			}
			target = t
		case html.EndTagToken:
			tok := z.Token()
			if target == nil || closed || tok.Data != "a" {
				return nil, false
			}
			closed = true
		default:
			return nil, false
		}
	}
}

func targetFromAttrs(attrs []html.Attribute) (*doctree.Target, bool) {
	var id, name, href string
	for _, a := range attrs {
		switch strings.ToLower(a.Key) {
		case "id":
			id = strings.TrimSpace(a.Val)
		case "name":
			name = strings.TrimSpace(a.Val)
		case "href":
			href = strings.TrimSpace(a.Val)
		}
	}
	if id == "" {
		id = name
	}
	if id == "" {
		return nil, false
	}
	t := doctree.NewTarget(normalizeName(id))
	// HTML anchors keep their literal id.
	t.ID = id
	t.RefURI = href
	return t, true
}

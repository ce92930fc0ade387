package doctree

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
)

var indexKey = parser.NewContextKey()

// KindFinder answers "all nodes of kind X" queries in document order.
type KindFinder interface {
	FindAll(kind ast.NodeKind) []ast.Node
}

// Index is a KindFinder built from one walk of a tree.
type Index struct {
	root   ast.Node
	byKind map[ast.NodeKind][]ast.Node
}

// BuildIndex records every node under root (root included) by kind.
func BuildIndex(root ast.Node) *Index {
	ix := &Index{root: root, byKind: make(map[ast.NodeKind][]ast.Node)}
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			ix.byKind[n.Kind()] = append(ix.byKind[n.Kind()], n)
		}
		return ast.WalkContinue, nil
	})
	return ix
}

// Root returns the node the index was built from.
func (ix *Index) Root() ast.Node {
	return ix.root
}

// FindAll returns the nodes of kind in document order.
func (ix *Index) FindAll(kind ast.NodeKind) []ast.Node {
	nodes := ix.byKind[kind]
	out := make([]ast.Node, len(nodes))
	copy(out, nodes)
	return out
}

// SetIndex stores ix in the parse context so later passes can query by kind.
func SetIndex(pc parser.Context, ix *Index) {
	pc.Set(indexKey, ix)
}

// IndexFrom returns the index recorded for this parse, if any.
func IndexFrom(pc parser.Context) (*Index, bool) {
	if pc == nil {
		return nil, false
	}
	ix, ok := pc.Get(indexKey).(*Index)
	return ix, ok
}

// VisitFunc calls fn for every node of kind in document order and stops at
// the first error fn returns.
type VisitFunc func(kind ast.NodeKind, fn func(ast.Node) error) error

// Finder picks a traversal for root once: the recorded kind index when the
// host built one for this tree, otherwise a full ast.Walk.
func Finder(root ast.Node, pc parser.Context) VisitFunc {
	if ix, ok := IndexFrom(pc); ok && ix.Root() == root {
		return queryVisitor(ix)
	}
	return walkVisitor(root)
}

func queryVisitor(finder KindFinder) VisitFunc {
	return func(kind ast.NodeKind, fn func(ast.Node) error) error {
		for _, n := range finder.FindAll(kind) {
			if err := fn(n); err != nil {
				return err
			}
		}
		return nil
	}
}

func walkVisitor(root ast.Node) VisitFunc {
	return func(kind ast.NodeKind, fn func(ast.Node) error) error {
		return ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
			if !entering || n.Kind() != kind {
				return ast.WalkContinue, nil
			}
			if err := fn(n); err != nil {
				return ast.WalkStop, err
			}
			return ast.WalkContinue, nil
		})
	}
}

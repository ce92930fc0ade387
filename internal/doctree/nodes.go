package doctree

import (
	"github.com/yuin/goldmark/ast"
)

// KindSection is the ast.NodeKind of Section.
var KindSection = ast.NewNodeKind("Section")

// KindTarget is the ast.NodeKind of Target.
var KindTarget = ast.NewNodeKind("Target")

// Section groups a heading with the content that follows it up to the next
// heading of the same or a higher level.
type Section struct {
	ast.BaseBlock

	Level int
	IDs   *IDList
}

// NewSection returns an empty section for a heading of the given level.
func NewSection(level int) *Section {
	return &Section{Level: level, IDs: NewIDList()}
}

// Kind implements ast.Node.
func (n *Section) Kind() ast.NodeKind {
	return KindSection
}

// Heading returns the section title, which is always the first child.
func (n *Section) Heading() *ast.Heading {
	h, _ := n.FirstChild().(*ast.Heading)
	return h
}

// Dump implements ast.Node.
func (n *Section) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"IDs": n.IDs.String()}, nil)
}

// Target is an explicit anchor declaration such as ".. _name:".
//
// An internal target starts out with its own ID. Once the host has copied that
// id onto the following section it records it as the RefID. External targets
// carry a RefURI and never get a RefID.
type Target struct {
	ast.BaseBlock

	Name   string
	ID     string
	RefURI string

	refID    string
	hasRefID bool
}

// NewTarget returns a target for the given reference name.
func NewTarget(name string) *Target {
	return &Target{Name: name}
}

// Kind implements ast.Node.
func (n *Target) Kind() ast.NodeKind {
	return KindTarget
}

// IsRaw implements ast.Node. The target line is markup, not inline content.
func (n *Target) IsRaw() bool {
	return true
}

// RefID returns the id this target points at and whether one is set.
func (n *Target) RefID() (string, bool) {
	return n.refID, n.hasRefID
}

// SetRefID records that the target's anchor now lives on another node.
func (n *Target) SetRefID(id string) {
	n.refID = id
	n.hasRefID = true
}

// IsExternal reports whether the target points at a URI.
func (n *Target) IsExternal() bool {
	return n.RefURI != ""
}

// Dump implements ast.Node.
func (n *Target) Dump(source []byte, level int) {
	kv := map[string]string{"Name": n.Name}
	if n.ID != "" {
		kv["ID"] = n.ID
	}
	if id, ok := n.RefID(); ok {
		kv["RefID"] = id
	}
	if n.RefURI != "" {
		kv["RefURI"] = n.RefURI
	}
	ast.DumpHelper(n, source, level, kv, nil)
}

// Package doctree defines the structural nodes docanchors adds to a goldmark
// document tree: sections that own an ordered id list, and explicit target
// markers that declare anchors.
//
// A parsed document is an ordinary goldmark ast.Node tree. After section
// assembly every heading-delimited block lives in a Section whose first child
// is the heading, and nested headings produce nested sections. Target markers
// are childless blocks placed where the author wrote them, which is usually the
// end of the previous section.
package doctree

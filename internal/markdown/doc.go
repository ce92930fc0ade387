// Package markdown hosts the anchor transforms for Markdown documents.
//
// It parses Markdown with goldmark, recognises reStructuredText style
// hyperlink targets (".. _name:") and bare HTML anchors, groups headings
// into nested sections, assigns ids the way docutils does and then runs the
// registered transform pipeline over the result.
package markdown

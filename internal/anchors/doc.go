// Package anchors makes explicit targets win over title-derived section ids.
//
// A target such as ".. _install:" written directly above a heading ends up
// as the last descendant of whatever precedes the section. The host copies
// its id onto the section; PreferSectionTarget then moves that id to the
// front of the section's id list so permalinks use it, while the title slug
// stays available as an alternate anchor.
package anchors

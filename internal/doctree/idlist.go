package doctree

import "strings"

// IDList is the ordered identifier list of a section.
//
// Order is meaningful: the first id is canonical and later ids are alternates.
// Ids are unique within a list.
type IDList struct {
	ids []string
}

// NewIDList returns a list holding ids in order, dropping repeats.
func NewIDList(ids ...string) *IDList {
	l := &IDList{}
	for _, id := range ids {
		l.Append(id)
	}
	return l
}

// Append adds id at the end. It reports false when id is already present.
func (l *IDList) Append(id string) bool {
	if l.Contains(id) {
		return false
	}
	l.ids = append(l.ids, id)
	return true
}

// Contains reports whether id is in the list.
func (l *IDList) Contains(id string) bool {
	return l.index(id) >= 0
}

// Remove deletes id, keeping the relative order of the remaining ids.
func (l *IDList) Remove(id string) bool {
	i := l.index(id)
	if i < 0 {
		return false
	}
	l.ids = append(l.ids[:i], l.ids[i+1:]...)
	return true
}

// InsertFront places id at position 0. Callers remove it first if present.
func (l *IDList) InsertFront(id string) {
	l.ids = append(l.ids, "")
	copy(l.ids[1:], l.ids)
	l.ids[0] = id
}

// First returns the canonical id, or "" for an empty list.
func (l *IDList) First() string {
	if l == nil || len(l.ids) == 0 {
		return ""
	}
	return l.ids[0]
}

// Len returns the number of ids.
func (l *IDList) Len() int {
	if l == nil {
		return 0
	}
	return len(l.ids)
}

// Values returns a copy of the ids in order.
func (l *IDList) Values() []string {
	if l == nil {
		return nil
	}
	out := make([]string, len(l.ids))
	copy(out, l.ids)
	return out
}

// String joins the ids with spaces, the way docutils prints an ids attribute.
func (l *IDList) String() string {
	if l == nil {
		return ""
	}
	return strings.Join(l.ids, " ")
}

func (l *IDList) index(id string) int {
	if l == nil {
		return -1
	}
	for i, v := range l.ids {
		if v == id {
			return i
		}
	}
	return -1
}

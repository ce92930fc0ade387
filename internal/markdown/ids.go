package markdown

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"golang.org/x/text/unicode/norm"

	"git.home.luguber.info/inful/docanchors/internal/doctree"
	"git.home.luguber.info/inful/docanchors/internal/foundation/errors"
	"git.home.luguber.info/inful/docanchors/internal/transforms"
)

var (
	// Letters NFKD cannot decompose into ASCII.
	digraphs = strings.NewReplacer(
		"ß", "sz", "æ", "ae", "œ", "oe", "ø", "o", "đ", "d",
		"ħ", "h", "ı", "i", "ł", "l", "ŧ", "t",
	)
	nonAlnum    = regexp.MustCompile(`[^a-z0-9]+`)
	untrimmedID = regexp.MustCompile(`^[-0-9]+|-+$`)
)

// MakeID converts text into a valid identifier: ASCII letters, digits and
// single hyphens, starting with a letter. It returns "" when nothing is left.
func MakeID(s string) string {
	id := digraphs.Replace(strings.ToLower(s))
	id = norm.NFKD.String(id)
	id = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, id)
	id = nonAlnum.ReplaceAllString(strings.Join(strings.Fields(id), " "), "-")
	return untrimmedID.ReplaceAllString(id, "")
}

// ResolveIDs gives every internal target and section its ids and copies the
// id of each target that sits directly before a section onto that section.
type ResolveIDs struct{}

func (ResolveIDs) Name() string  { return transforms.StepResolveIDs }
func (ResolveIDs) Priority() int { return transforms.PriorityIDs }

func (ResolveIDs) Capabilities() transforms.Capabilities {
	return transforms.Capabilities{ParallelSafe: true}
}

func (ResolveIDs) MustRunAfter() []string {
	return []string{transforms.StepAssembleSections}
}

func (ResolveIDs) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) error {
	visit := doctree.Finder(doc, pc)
	used := make(map[string]struct{})
	autoID := autoIDs(used)

	names := make(map[string]struct{})
	var targets []*doctree.Target
	err := visit(doctree.KindTarget, func(n ast.Node) error {
		t, ok := n.(*doctree.Target)
		if !ok || t.IsExternal() {
			return nil
		}
		if _, dup := names[t.Name]; dup {
			return errors.ValidationError("duplicate explicit target").
				WithContext("target", t.Name).
				Build()
		}
		names[t.Name] = struct{}{}
		if t.ID == "" {
			t.ID = MakeID(t.Name)
		}
		switch _, dup := used[t.ID]; {
		case t.ID == "":
			t.ID = autoID()
		case dup:
			return errors.ValidationError("duplicate explicit target").
				WithContext("target", t.Name).
				WithContext("id", t.ID).
				Build()
		default:
			used[t.ID] = struct{}{}
		}
		targets = append(targets, t)
		return nil
	})
	if err != nil {
		return err
	}

	err = visit(doctree.KindSection, func(n ast.Node) error {
		s, ok := n.(*doctree.Section)
		if !ok {
			return nil
		}
		var id string
		if slug := sectionSlug(s, reader.Source()); slug != "" {
			id = uniqueID(slug, used)
			used[id] = struct{}{}
		} else {
			id = autoID()
		}
		s.IDs.Append(id)
		return nil
	})
	if err != nil {
		return err
	}

	propagated := 0
	for _, t := range targets {
		s, ok := following(t).(*doctree.Section)
		if !ok {
			continue
		}
		s.IDs.Append(t.ID)
		t.SetRefID(t.ID)
		propagated++
	}
	transforms.AddChanges(pc, transforms.StepResolveIDs, propagated)
	return nil
}

// sectionSlug returns "" when the title yields no usable characters.
func sectionSlug(s *doctree.Section, source []byte) string {
	h := s.Heading()
	if h == nil {
		return ""
	}
	return MakeID(doctree.PlainText(h, source))
}

// autoIDs returns a generator of docutils-style "id1", "id2", ... ids for
// names and titles without a slug. Generated ids are marked as used.
func autoIDs(used map[string]struct{}) func() string {
	n := 0
	return func() string {
		for {
			n++
			id := "id" + strconv.Itoa(n)
			if _, taken := used[id]; !taken {
				used[id] = struct{}{}
				return id
			}
		}
	}
}

func uniqueID(base string, used map[string]struct{}) string {
	id := base
	for i := 1; ; i++ {
		if _, taken := used[id]; !taken {
			return id
		}
		id = base + "-" + strconv.Itoa(i)
	}
}

// following returns the next node in document order after n that is not a
// target, leaving finished containers upwards.
func following(n ast.Node) ast.Node {
	for cur := n; cur != nil; cur = cur.Parent() {
		for s := cur.NextSibling(); s != nil; s = s.NextSibling() {
			if _, ok := s.(*doctree.Target); ok {
				continue
			}
			return s
		}
	}
	return nil
}

package anchors

import (
	"log/slog"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"git.home.luguber.info/inful/docanchors/internal/doctree"
	"git.home.luguber.info/inful/docanchors/internal/foundation/errors"
	"git.home.luguber.info/inful/docanchors/internal/logfields"
	"git.home.luguber.info/inful/docanchors/internal/transforms"
)

// Name is the registry name of PreferSectionTarget.
const Name = "prefer_section_target"

// PreferSectionTarget promotes the id of the nearest preceding internal
// target to the canonical position of each section.
type PreferSectionTarget struct{}

func (PreferSectionTarget) Name() string  { return Name }
func (PreferSectionTarget) Priority() int { return transforms.PriorityPostProcess }

// Capabilities implements transforms.Capable.
func (PreferSectionTarget) Capabilities() transforms.Capabilities {
	return transforms.Capabilities{ParallelSafe: true}
}

// MustRunAfter implements transforms.Dependent.
func (PreferSectionTarget) MustRunAfter() []string {
	return []string{transforms.StepResolveIDs}
}

// Transform implements transforms.Transformer.
func (PreferSectionTarget) Transform(doc *ast.Document, _ text.Reader, pc parser.Context) error {
	n, err := apply(doc, pc, transforms.Logger(pc))
	if err != nil {
		return err
	}
	transforms.AddChanges(pc, Name, n)
	return nil
}

// Apply reorders section ids under root and returns how many sections got a
// new canonical id. It uses the kind index recorded in pc when there is one
// for root and walks the tree otherwise.
func Apply(root ast.Node, pc parser.Context) (int, error) {
	return apply(root, pc, transforms.Logger(pc))
}

func apply(root ast.Node, pc parser.Context, logger *slog.Logger) (int, error) {
	changed := 0
	visit := doctree.Finder(root, pc)
	err := visit(doctree.KindSection, func(n ast.Node) error {
		section, ok := n.(*doctree.Section)
		if !ok {
			return nil
		}
		target := precedingTarget(section)
		if target == nil {
			return nil
		}
		refID, ok := target.RefID()
		if !ok {
			return nil
		}
		if !section.IDs.Contains(refID) {
			return errors.InternalError("target refid missing from section ids").
				WithContext("refid", refID).
				WithContext("ids", section.IDs.Values()).
				Build()
		}

		before := section.IDs.First()
		section.IDs.Remove(refID)
		section.IDs.InsertFront(refID)
		if before != refID {
			changed++
			logger.Debug("Promoted explicit target",
				logfields.Section(before),
				logfields.RefID(refID),
				logfields.IDs(section.IDs.Values()))
		}
		return nil
	})
	return changed, err
}

// precedingTarget unwraps the previous sibling down its last children. Only a
// target reached that way counts; any other leaf means no explicit anchor.
func precedingTarget(section ast.Node) *doctree.Target {
	last := section.PreviousSibling()
	if last == nil {
		return nil
	}
	for last.HasChildren() {
		last = last.LastChild()
	}
	target, _ := last.(*doctree.Target)
	return target
}

// Register adds PreferSectionTarget to reg.
func Register(reg *transforms.Registry) error {
	return reg.Register(PreferSectionTarget{})
}

func init() {
	if err := Register(transforms.Default()); err != nil {
		slog.Warn("Failed to register transform", logfields.Transform(Name), logfields.Error(err))
	}
}

// Package transforms provides the prioritized registry of document tree
// transforms and runs the selected pipeline inside goldmark's parser.
package transforms

import (
	"fmt"
	"sort"
	"sync"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"git.home.luguber.info/inful/docanchors/internal/foundation/errors"
	"git.home.luguber.info/inful/docanchors/internal/metrics"
)

// Priority constants (gaps allow future insertion). Lower runs first.
const (
	PriorityHTMLAnchors = 50
	PrioritySections    = 100
	PriorityIDs         = 200
	PriorityPostProcess = 700
)

// Names of the host passes other transforms may depend on.
const (
	StepHTMLAnchors      = "html_anchors"
	StepAssembleSections = "assemble_sections"
	StepResolveIDs       = "resolve_ids"
)

// Transformer is a tree transform applied to every parsed document.
type Transformer interface {
	Name() string
	Priority() int
	Transform(doc *ast.Document, reader text.Reader, pc parser.Context) error
}

// Capabilities are the properties a transform declares to the host.
type Capabilities struct {
	// ParallelSafe means the transform only touches the document it is given
	// and keeps no state between calls.
	ParallelSafe bool
}

// Capable is implemented by transforms that declare capabilities.
type Capable interface {
	Capabilities() Capabilities
}

// Dependent is implemented by transforms that need other transforms to run first.
type Dependent interface {
	MustRunAfter() []string
}

// Description summarises a registered transform for listings.
type Description struct {
	Name         string   `json:"name"`
	Priority     int      `json:"priority"`
	ParallelSafe bool     `json:"parallel_safe"`
	MustRunAfter []string `json:"must_run_after,omitempty"`
}

// Registry holds transforms by name together with priority overrides.
type Registry struct {
	mu         sync.RWMutex
	byName     map[string]Transformer
	priorities map[string]int
	recorder   metrics.Recorder
}

// NewRegistry creates an empty registry that records into metrics.NoopRecorder.
func NewRegistry() *Registry {
	return &Registry{
		byName:     make(map[string]Transformer),
		priorities: make(map[string]int),
		recorder:   metrics.NoopRecorder{},
	}
}

// Register adds a transform. Names must be unique.
func (r *Registry) Register(t Transformer) error {
	if t == nil {
		return errors.ValidationError("cannot register nil transform").Build()
	}
	name := t.Name()
	if name == "" {
		return errors.ValidationError("transform name is required").Build()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byName[name]; exists {
		return errors.ValidationError("transform already registered").
			WithContext("transform", name).
			Build()
	}
	r.byName[name] = t
	return nil
}

// SetPriority overrides the priority of a registered transform.
func (r *Registry) SetPriority(name string, priority int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byName[name]; !ok {
		return errors.NewError(errors.CategoryNotFound, "unknown transform").
			WithContext("transform", name).
			Build()
	}
	r.priorities[name] = priority
	return nil
}

// SetRecorder sets the metrics recorder used by pipelines built afterwards.
func (r *Registry) SetRecorder(rec metrics.Recorder) {
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recorder = rec
}

// List returns transforms sorted by effective priority (stable by name for equal priority).
func (r *Registry) List() []Transformer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedLocked()
}

// Describe lists every registered transform in execution order.
func (r *Registry) Describe() []Description {
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := r.sortedLocked()
	out := make([]Description, 0, len(items))
	for _, t := range items {
		out = append(out, Description{
			Name:         t.Name(),
			Priority:     r.priorityLocked(t),
			ParallelSafe: CapabilitiesOf(t).ParallelSafe,
			MustRunAfter: dependenciesOf(t),
		})
	}
	return out
}

// ParallelSafe reports whether every registered transform declares itself parallel safe.
func (r *Registry) ParallelSafe() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.byName {
		if !CapabilitiesOf(t).ParallelSafe {
			return false
		}
	}
	return true
}

// Pipeline selects transforms for one document run. An empty include list
// selects everything; otherwise every included name must be registered.
func (r *Registry) Pipeline(include []string) (*Pipeline, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	allowed := make(map[string]struct{}, len(include))
	for _, name := range include {
		if _, ok := r.byName[name]; !ok {
			return nil, errors.NewError(errors.CategoryNotFound, "unknown transform in include list").
				WithContext("transform", name).
				Build()
		}
		allowed[name] = struct{}{}
	}

	var steps []step
	for _, t := range r.sortedLocked() {
		if len(allowed) > 0 {
			if _, ok := allowed[t.Name()]; !ok {
				continue
			}
		}
		steps = append(steps, step{transformer: t, priority: r.priorityLocked(t)})
	}
	if err := validateSteps(steps); err != nil {
		return nil, err
	}
	return &Pipeline{steps: steps, recorder: r.recorder}, nil
}

// Validate checks that the full registered pipeline satisfies every declared dependency.
func (r *Registry) Validate() error {
	_, err := r.Pipeline(nil)
	return err
}

func (r *Registry) sortedLocked() []Transformer {
	items := make([]Transformer, 0, len(r.byName))
	for _, t := range r.byName {
		items = append(items, t)
	}
	sort.SliceStable(items, func(i, j int) bool {
		pi, pj := r.priorityLocked(items[i]), r.priorityLocked(items[j])
		if pi == pj {
			return items[i].Name() < items[j].Name()
		}
		return pi < pj
	})
	return items
}

func (r *Registry) priorityLocked(t Transformer) int {
	if p, ok := r.priorities[t.Name()]; ok {
		return p
	}
	return t.Priority()
}

// validateSteps requires every dependency to be selected and to run strictly earlier.
func validateSteps(steps []step) error {
	position := make(map[string]int, len(steps))
	for i, s := range steps {
		position[s.transformer.Name()] = i
	}
	for i, s := range steps {
		for _, dep := range dependenciesOf(s.transformer) {
			j, ok := position[dep]
			if !ok {
				return errors.ValidationError("transform dependency is not part of the pipeline").
					WithContext("transform", s.transformer.Name()).
					WithContext("dependency", dep).
					Build()
			}
			if j >= i || steps[j].priority >= s.priority {
				return errors.ValidationError(fmt.Sprintf("transform must run after %s", dep)).
					WithContext("transform", s.transformer.Name()).
					WithContext("priority", s.priority).
					WithContext("dependency_priority", steps[j].priority).
					Build()
			}
		}
	}
	return nil
}

// CapabilitiesOf returns the declared capabilities of t, or the zero value.
func CapabilitiesOf(t Transformer) Capabilities {
	if c, ok := t.(Capable); ok {
		return c.Capabilities()
	}
	return Capabilities{}
}

func dependenciesOf(t Transformer) []string {
	if d, ok := t.(Dependent); ok {
		return d.MustRunAfter()
	}
	return nil
}

// defaultRegistry is the registry transforms add themselves to from init().
var defaultRegistry = NewRegistry()

// Default returns the process-wide registry.
func Default() *Registry {
	return defaultRegistry
}

// Register adds a transform to the default registry.
func Register(t Transformer) error {
	return defaultRegistry.Register(t)
}

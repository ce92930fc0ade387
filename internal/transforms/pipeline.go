package transforms

import (
	"time"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"git.home.luguber.info/inful/docanchors/internal/foundation/errors"
	"git.home.luguber.info/inful/docanchors/internal/logfields"
	"git.home.luguber.info/inful/docanchors/internal/metrics"
)

// astTransformerPriority places the whole pipeline among goldmark's own AST
// transformers; extension transformers such as tables run at 0-200.
const astTransformerPriority = 500

type step struct {
	transformer Transformer
	priority    int
}

// Pipeline is an ordered selection of transforms. It implements
// parser.ASTTransformer so it runs as part of goldmark's Parse.
type Pipeline struct {
	steps    []step
	recorder metrics.Recorder
}

// Steps describes the selected transforms in execution order.
func (p *Pipeline) Steps() []Description {
	out := make([]Description, 0, len(p.steps))
	for _, s := range p.steps {
		out = append(out, Description{
			Name:         s.transformer.Name(),
			Priority:     s.priority,
			ParallelSafe: CapabilitiesOf(s.transformer).ParallelSafe,
			MustRunAfter: dependenciesOf(s.transformer),
		})
	}
	return out
}

// ParallelSafe reports whether every selected transform is parallel safe.
func (p *Pipeline) ParallelSafe() bool {
	for _, s := range p.steps {
		if !CapabilitiesOf(s.transformer).ParallelSafe {
			return false
		}
	}
	return true
}

// Recorder returns the metrics recorder the pipeline reports to.
func (p *Pipeline) Recorder() metrics.Recorder {
	return p.recorder
}

// ParserOption registers the pipeline with a goldmark parser.
func (p *Pipeline) ParserOption() parser.Option {
	return parser.WithASTTransformers(util.Prioritized(p, astTransformerPriority))
}

// Transform implements parser.ASTTransformer. The first failing transform
// stops the pipeline; its error is available through Err(pc).
func (p *Pipeline) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	logger := Logger(pc)
	for _, s := range p.steps {
		name := s.transformer.Name()
		if Err(pc) != nil {
			return
		}
		if Skipped(pc, name) {
			p.recorder.IncTransformResult(name, metrics.ResultSkipped)
			logger.Debug("Transform skipped", logfields.Transform(name))
			continue
		}

		start := time.Now()
		err := s.transformer.Transform(doc, reader, pc)
		elapsed := time.Since(start)
		p.recorder.ObserveTransformDuration(name, elapsed)

		if err != nil {
			p.recorder.IncTransformResult(name, metrics.ResultFailed)
			err = classify(name, err)
			setErr(pc, err)
			logger.Error("Transform failed",
				logfields.Transform(name),
				logfields.Priority(s.priority),
				logfields.Error(err))
			return
		}

		changes := Changes(pc, name)
		p.recorder.IncTransformResult(name, metrics.ResultSuccess)
		p.recorder.AddChanges(name, changes)
		logger.Debug("Transform applied",
			logfields.Transform(name),
			logfields.Priority(s.priority),
			logfields.Changes(changes),
			logfields.DurationMS(float64(elapsed.Microseconds())/1000))
	}
}

// classify keeps classified errors (adding the transform name) and wraps anything else.
func classify(name string, err error) error {
	if classified, ok := errors.AsClassified(err); ok {
		return classified.WithContext("transform", name)
	}
	return errors.WrapError(err, errors.CategoryTransform, "transform failed").
		WithContext("transform", name).
		Build()
}

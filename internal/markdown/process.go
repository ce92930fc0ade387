package markdown

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/inful/mdfp"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"git.home.luguber.info/inful/docanchors/internal/doctree"
	"git.home.luguber.info/inful/docanchors/internal/foundation/errors"
	"git.home.luguber.info/inful/docanchors/internal/logfields"
	"git.home.luguber.info/inful/docanchors/internal/metrics"
	"git.home.luguber.info/inful/docanchors/internal/transforms"
)

// Options controls a single Process call.
type Options struct {
	// Path identifies the document in logs and errors.
	Path string
	// Registry defaults to transforms.Default().
	Registry *transforms.Registry
	// Include restricts the pipeline to these transforms; empty runs all.
	Include []string
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// SectionInfo summarises one section after the pipeline ran.
type SectionInfo struct {
	Title string   `json:"title"`
	Level int      `json:"level"`
	IDs   []string `json:"ids"`
}

// Canonical returns the id used for permalinks.
func (s SectionInfo) Canonical() string {
	if len(s.IDs) == 0 {
		return ""
	}
	return s.IDs[0]
}

// Alternates returns the ids kept for older links.
func (s SectionInfo) Alternates() []string {
	if len(s.IDs) < 2 {
		return nil
	}
	return s.IDs[1:]
}

// Result is a processed document.
type Result struct {
	Document    *ast.Document
	Source      []byte
	Frontmatter Frontmatter
	Changes     map[string]int
	// Fingerprint is the mdfp content hash of front matter and body.
	Fingerprint string
}

// Sections lists every section in document order.
func (r *Result) Sections() []SectionInfo {
	var out []SectionInfo
	_ = ast.Walk(r.Document, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if s, ok := n.(*doctree.Section); ok && entering {
			var title string
			if h := s.Heading(); h != nil {
				title = doctree.PlainText(h, r.Source)
			}
			out = append(out, SectionInfo{Title: title, Level: s.Level, IDs: s.IDs.Values()})
		}
		return ast.WalkContinue, nil
	})
	return out
}

// WriteTree writes the processed tree as pseudo-XML.
func (r *Result) WriteTree(w io.Writer) error {
	return doctree.Fprint(w, r.Document, r.Source)
}

// Process parses src and runs the transform pipeline over it.
func Process(ctx context.Context, src []byte, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	reg := opts.Registry
	if reg == nil {
		reg = transforms.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(logfields.RunID(uuid.NewString()), logfields.Document(opts.Path))

	pipeline, err := reg.Pipeline(opts.Include)
	if err != nil {
		return nil, err
	}
	recorder := pipeline.Recorder()

	rawFM, body, _, err := splitFrontmatter(src)
	if err != nil {
		recorder.IncDocumentOutcome(metrics.OutcomeFailed)
		return nil, withDocument(err, opts.Path)
	}
	fm, err := parseFrontmatter(rawFM)
	if err != nil {
		recorder.IncDocumentOutcome(metrics.OutcomeFailed)
		return nil, withDocument(err, opts.Path)
	}

	pc := parser.NewContext()
	transforms.WithLogger(pc, logger)
	transforms.Skip(pc, fm.DisableTransforms...)

	md := goldmark.New(
		goldmark.WithExtensions(Targets),
		goldmark.WithParserOptions(pipeline.ParserOption()),
	)
	root := md.Parser().Parse(text.NewReader(body), parser.WithContext(pc))

	if err := transforms.Err(pc); err != nil {
		recorder.IncDocumentOutcome(metrics.OutcomeFailed)
		return nil, withDocument(err, opts.Path)
	}
	recorder.IncDocumentOutcome(metrics.OutcomeSuccess)

	doc, ok := root.(*ast.Document)
	if !ok {
		return nil, errors.InternalError("parser did not return a document").Build()
	}
	logger.Debug("Document processed", logfields.Changes(sum(transforms.AllChanges(pc))))
	return &Result{
		Document:    doc,
		Source:      body,
		Frontmatter: fm,
		Changes:     transforms.AllChanges(pc),
		Fingerprint: fingerprint(rawFM, body),
	}, nil
}

func withDocument(err error, path string) error {
	if path == "" {
		return err
	}
	if classified, ok := errors.AsClassified(err); ok {
		return classified.WithContext("document", path)
	}
	return err
}

func fingerprint(rawFM, body []byte) string {
	return mdfp.CalculateFingerprintFromParts(strings.TrimSuffix(string(rawFM), "\n"), string(body))
}

func sum(m map[string]int) int {
	total := 0
	for _, v := range m {
		total += v
	}
	return total
}

// RegisterBuiltins adds the host passes to reg.
func RegisterBuiltins(reg *transforms.Registry) error {
	for _, t := range []transforms.Transformer{HTMLAnchors{}, AssembleSections{}, ResolveIDs{}} {
		if err := reg.Register(t); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	if err := RegisterBuiltins(transforms.Default()); err != nil {
		slog.Warn("Failed to register host transforms", logfields.Error(err))
	}
}

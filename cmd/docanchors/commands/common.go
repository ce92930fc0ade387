package commands

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/docanchors/internal/config"
	"git.home.luguber.info/inful/docanchors/internal/foundation/errors"
	"git.home.luguber.info/inful/docanchors/internal/logfields"
	"git.home.luguber.info/inful/docanchors/internal/markdown"
	"git.home.luguber.info/inful/docanchors/internal/metrics"
	"git.home.luguber.info/inful/docanchors/internal/transforms"
)

// Global is the state shared by every subcommand.
type Global struct {
	Ctx      context.Context
	Logger   *slog.Logger
	Config   *config.Config
	Registry *transforms.Registry
	Stdout   io.Writer
	Stderr   io.Writer

	// metrics is nil unless --metrics was given.
	metrics *prom.Registry
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (optional)" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Metrics bool             `help:"Print Prometheus metrics to stderr on exit"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Dump       DumpCmd       `cmd:"" help:"Print the processed document tree as pseudo-XML"`
	IDs        IDsCmd        `cmd:"" name:"ids" help:"List canonical and alternate ids of every section"`
	Transforms TransformsCmd `cmd:"" help:"Show the transform pipeline"`
	Watch      WatchCmd      `cmd:"" help:"Print section ids again whenever a document changes"`
}

// Setup loads configuration, installs the default logger and prepares the
// transform registry.
func (c *CLI) Setup(ctx context.Context, stdout, stderr io.Writer) (*Global, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, err
	}
	logger := cfg.Logging.NewLogger(stderr, c.Verbose)
	slog.SetDefault(logger)

	g := &Global{
		Ctx:      ctx,
		Logger:   logger,
		Config:   cfg,
		Registry: transforms.Default(),
		Stdout:   stdout,
		Stderr:   stderr,
	}
	if c.Metrics {
		g.metrics = prom.NewRegistry()
		g.Registry.SetRecorder(metrics.NewPrometheusRecorder(g.metrics))
	}
	if err := cfg.Apply(g.Registry); err != nil {
		return nil, err
	}
	return g, nil
}

// Finish writes collected metrics, if enabled.
func (g *Global) Finish() error {
	if g == nil || g.metrics == nil {
		return nil
	}
	return metrics.WriteText(g.Stderr, g.metrics)
}

// processFiles runs the pipeline over paths and returns results in input
// order. Documents run concurrently only when every selected transform is
// parallel safe.
func processFiles(g *Global, paths []string) ([]*markdown.Result, error) {
	pipeline, err := g.Registry.Pipeline(g.Config.Transforms.Include)
	if err != nil {
		return nil, err
	}
	limit := 1
	if pipeline.ParallelSafe() {
		limit = g.Config.Workers
	}
	g.Logger.Debug("Processing documents", slog.Int("documents", len(paths)), slog.Int("workers", limit))

	ctx := g.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	results := make([]*markdown.Result, len(paths))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(limit)
	for i, path := range paths {
		eg.Go(func() error {
			src, err := os.ReadFile(path)
			if err != nil {
				return errors.WrapError(err, errors.CategoryFileSystem, "failed to read document").
					WithContext("document", path).
					Build()
			}
			res, err := markdown.Process(egCtx, src, markdown.Options{
				Path:     path,
				Registry: g.Registry,
				Include:  g.Config.Transforms.Include,
				Logger:   g.Logger,
			})
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	g.Logger.Info("Documents processed", slog.Int("documents", len(paths)), logfields.Changes(totalChanges(results)))
	return results, nil
}

func totalChanges(results []*markdown.Result) int {
	n := 0
	for _, r := range results {
		for _, c := range r.Changes {
			n += c
		}
	}
	return n
}

package transforms

import (
	stderrors "errors"
	"strings"
	"testing"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"git.home.luguber.info/inful/docanchors/internal/foundation/errors"
	"git.home.luguber.info/inful/docanchors/internal/metrics"
)

func parseWith(t *testing.T, p *Pipeline, pc parser.Context) {
	t.Helper()
	md := goldmark.New(goldmark.WithParserOptions(p.ParserOption()))
	md.Parser().Parse(text.NewReader([]byte("# Title\n\nBody.\n")), parser.WithContext(pc))
}

func TestPipeline_RunsInPriorityOrder(t *testing.T) {
	var ran []string
	reg := NewRegistry()
	require.NoError(t, reg.Register(&fakeTransform{name: "post", priority: PriorityPostProcess, ran: &ran}))
	require.NoError(t, reg.Register(&fakeTransform{name: "ids", priority: PriorityIDs, ran: &ran}))
	require.NoError(t, reg.Register(&fakeTransform{name: "sections", priority: PrioritySections, ran: &ran}))

	p, err := reg.Pipeline(nil)
	require.NoError(t, err)

	pc := parser.NewContext()
	parseWith(t, p, pc)

	require.Equal(t, []string{"sections", "ids", "post"}, ran)
	require.NoError(t, Err(pc))
}

func TestPipeline_StopsAtFirstErrorAndClassifies(t *testing.T) {
	var ran []string
	boom := stderrors.New("boom")
	reg := NewRegistry()
	require.NoError(t, reg.Register(&fakeTransform{name: "first", priority: 1, ran: &ran, err: boom}))
	require.NoError(t, reg.Register(&fakeTransform{name: "second", priority: 2, ran: &ran}))

	p, err := reg.Pipeline(nil)
	require.NoError(t, err)
	pc := parser.NewContext()
	parseWith(t, p, pc)

	require.Equal(t, []string{"first"}, ran)
	got := Err(pc)
	require.ErrorIs(t, got, boom)
	classified, ok := errors.AsClassified(got)
	require.True(t, ok)
	require.Equal(t, errors.CategoryTransform, classified.Category())
	name, _ := classified.Context().GetString("transform")
	require.Equal(t, "first", name)
}

func TestPipeline_KeepsClassifiedCategory(t *testing.T) {
	internal := errors.InternalError("broken invariant").Build()
	reg := NewRegistry()
	require.NoError(t, reg.Register(&fakeTransform{name: "checker", priority: 1, err: internal}))

	p, err := reg.Pipeline(nil)
	require.NoError(t, err)
	pc := parser.NewContext()
	parseWith(t, p, pc)

	require.True(t, errors.HasCategory(Err(pc), errors.CategoryInternal))
	classified, _ := errors.AsClassified(Err(pc))
	require.True(t, classified.IsFatal())
}

func TestPipeline_SkipAndMetrics(t *testing.T) {
	var ran []string
	promReg := prom.NewRegistry()
	reg := NewRegistry()
	reg.SetRecorder(metrics.NewPrometheusRecorder(promReg))
	require.NoError(t, reg.Register(&fakeTransform{name: "kept", priority: 1, ran: &ran, changes: 2}))
	require.NoError(t, reg.Register(&fakeTransform{name: "dropped", priority: 2, ran: &ran}))

	p, err := reg.Pipeline(nil)
	require.NoError(t, err)

	pc := parser.NewContext()
	Skip(pc, "dropped")
	parseWith(t, p, pc)

	require.Equal(t, []string{"kept"}, ran)
	require.Equal(t, map[string]int{"kept": 2}, AllChanges(pc))

	expected := `
# HELP docanchors_transform_results_total Transform runs by result
# TYPE docanchors_transform_results_total counter
docanchors_transform_results_total{result="skipped",transform="dropped"} 1
docanchors_transform_results_total{result="success",transform="kept"} 1
`
	require.NoError(t, testutil.GatherAndCompare(promReg, strings.NewReader(expected), "docanchors_transform_results_total"))
}

func TestContextHelpers_NilSafe(t *testing.T) {
	require.NoError(t, Err(nil))
	require.False(t, Skipped(nil, "x"))
	require.Zero(t, Changes(nil, "x"))
	require.Empty(t, AllChanges(nil))
	require.NotNil(t, Logger(nil))
	AddChanges(nil, "x", 1)
}

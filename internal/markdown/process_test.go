package markdown_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docanchors/internal/anchors"
	"git.home.luguber.info/inful/docanchors/internal/foundation/errors"
	"git.home.luguber.info/inful/docanchors/internal/markdown"
	"git.home.luguber.info/inful/docanchors/internal/metrics"
	"git.home.luguber.info/inful/docanchors/internal/transforms"
)

func newRegistry(t *testing.T) *transforms.Registry {
	t.Helper()
	reg := transforms.NewRegistry()
	require.NoError(t, markdown.RegisterBuiltins(reg))
	require.NoError(t, anchors.Register(reg))
	return reg
}

func processFixture(t *testing.T, reg *transforms.Registry, name string) (*markdown.Result, error) {
	t.Helper()
	path := filepath.Join("testdata", name)
	src, err := os.ReadFile(path)
	require.NoError(t, err)
	return markdown.Process(context.Background(), src, markdown.Options{Path: path, Registry: reg})
}

func ids(res *markdown.Result) [][]string {
	var out [][]string
	for _, s := range res.Sections() {
		out = append(out, s.IDs)
	}
	return out
}

func TestProcess_Fixtures(t *testing.T) {
	tests := []struct {
		fixture string
		want    [][]string
	}{
		{"stacked_targets.md", [][]string{{"intro"}, {"c", "section-title", "a", "b"}}},
		{"nested.md", [][]string{{"top"}, {"mid"}, {"deep-anchor", "deep-title"}, {"sibling"}}},
		{"external.md", [][]string{{"title"}}},
		{"html_anchor.md", [][]string{{"one"}, {"legacy-anchor", "two"}}},
		{"disabled.md", [][]string{{"intro"}, {"title", "x"}}},
	}
	for _, tt := range tests {
		t.Run(tt.fixture, func(t *testing.T) {
			res, err := processFixture(t, newRegistry(t), tt.fixture)
			require.NoError(t, err)
			require.Equal(t, tt.want, ids(res))
		})
	}
}

func TestProcess_WriteTree(t *testing.T) {
	res, err := processFixture(t, newRegistry(t), "stacked_targets.md")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, res.WriteTree(&buf))
	want := `<document>
    <section ids="intro">
        <title>
            Intro
        <paragraph>
            Text.
        <target refid="a">
        <target refid="b">
        <target refid="c">
    <section ids="c section-title a b">
        <title>
            Section Title
        <paragraph>
            Body.
`
	require.Equal(t, want, buf.String())
}

func TestProcess_SectionInfo(t *testing.T) {
	res, err := processFixture(t, newRegistry(t), "nested.md")
	require.NoError(t, err)

	sections := res.Sections()
	require.Len(t, sections, 4)
	deep := sections[2]
	require.Equal(t, "Deep Title", deep.Title)
	require.Equal(t, 3, deep.Level)
	require.Equal(t, "deep-anchor", deep.Canonical())
	require.Equal(t, []string{"deep-title"}, deep.Alternates())
	require.Nil(t, sections[0].Alternates())

	require.Equal(t, 1, res.Changes[anchors.Name])
	require.Equal(t, 1, res.Changes[transforms.StepResolveIDs])
	require.Equal(t, 4, res.Changes[transforms.StepAssembleSections])
}

func TestProcess_FrontmatterDisablesTransform(t *testing.T) {
	res, err := processFixture(t, newRegistry(t), "disabled.md")
	require.NoError(t, err)
	require.Equal(t, []string{anchors.Name}, res.Frontmatter.DisableTransforms)
	require.Equal(t, "Disabled", res.Frontmatter.Fields["title"])
	require.NotContains(t, res.Changes, anchors.Name)
}

func TestProcess_DuplicateTargetsRejected(t *testing.T) {
	_, err := processFixture(t, newRegistry(t), "duplicate_targets.md")
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryValidation))

	classified, ok := errors.AsClassified(err)
	require.True(t, ok)
	transform, _ := classified.Context().GetString("transform")
	require.Equal(t, transforms.StepResolveIDs, transform)
	document, _ := classified.Context().GetString("document")
	require.Equal(t, filepath.Join("testdata", "duplicate_targets.md"), document)
}

func TestProcess_DuplicateTitlesGetSuffixes(t *testing.T) {
	src := []byte("# Intro\n\n# Intro\n\n# !!!\n\n# Intro\n")
	res, err := markdown.Process(context.Background(), src, markdown.Options{Registry: newRegistry(t)})
	require.NoError(t, err)
	require.Equal(t, [][]string{{"intro"}, {"intro-1"}, {"id1"}, {"intro-2"}}, ids(res))
}

func TestProcess_TargetBeforeParagraphKeepsOwnID(t *testing.T) {
	src := []byte("# Title\n\n.. _note:\n\nJust text.\n\n# Next\n")
	res, err := markdown.Process(context.Background(), src, markdown.Options{Registry: newRegistry(t)})
	require.NoError(t, err)
	require.Equal(t, [][]string{{"title"}, {"next"}}, ids(res))

	var buf bytes.Buffer
	require.NoError(t, res.WriteTree(&buf))
	require.Contains(t, buf.String(), `<target ids="note" names="note">`)
}

func TestProcess_TargetsInsideContainers(t *testing.T) {
	tests := map[string]struct {
		src  string
		want [][]string
	}{
		"blockquote": {
			src:  "# Intro\n\nText.\n\n> .. _quoted:\n\n# Quoted Section\n",
			want: [][]string{{"intro"}, {"quoted", "quoted-section"}},
		},
		"list item": {
			src:  "# Intro\n\n- item\n\n  .. _listed:\n\n# Listed Title\n",
			want: [][]string{{"intro"}, {"listed", "listed-title"}},
		},
		"tight list html anchor": {
			src:  "# Intro\n\n- <a id=\"legacy\"></a>\n\n# Install\n",
			want: [][]string{{"intro"}, {"legacy", "install"}},
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			res, err := markdown.Process(context.Background(), []byte(tt.src), markdown.Options{Registry: newRegistry(t)})
			require.NoError(t, err)
			require.Equal(t, tt.want, ids(res))
		})
	}
}

func TestProcess_AutoIDsForNamesWithoutSlug(t *testing.T) {
	src := []byte("# Intro\n\n.. _1.2.3:\n\n# 1.2.3 (2022-03-19)\n")
	res, err := markdown.Process(context.Background(), src, markdown.Options{Registry: newRegistry(t)})
	require.NoError(t, err)
	require.Equal(t, [][]string{{"intro"}, {"id1", "id2"}}, ids(res))

	src = []byte("# 2022\n\n## 2023\n\n# id2\n")
	res, err = markdown.Process(context.Background(), src, markdown.Options{Registry: newRegistry(t)})
	require.NoError(t, err)
	require.Equal(t, [][]string{{"id1"}, {"id2"}, {"id2-1"}}, ids(res))
}

func TestProcess_UnknownAndIncompleteInclude(t *testing.T) {
	reg := newRegistry(t)

	_, err := markdown.Process(context.Background(), []byte("# T\n"), markdown.Options{
		Registry: reg,
		Include:  []string{"nope"},
	})
	require.True(t, errors.HasCategory(err, errors.CategoryNotFound))

	_, err = markdown.Process(context.Background(), []byte("# T\n"), markdown.Options{
		Registry: reg,
		Include:  []string{anchors.Name},
	})
	require.True(t, errors.HasCategory(err, errors.CategoryValidation))
}

func TestProcess_InvalidFrontmatter(t *testing.T) {
	_, err := markdown.Process(context.Background(), []byte("---\ntitle: x\n# no close\n"), markdown.Options{Registry: newRegistry(t)})
	require.True(t, errors.HasCategory(err, errors.CategoryParse))

	_, err = markdown.Process(context.Background(), []byte("---\n: [\n---\n# T\n"), markdown.Options{Registry: newRegistry(t)})
	require.True(t, errors.HasCategory(err, errors.CategoryParse))
}

func TestProcess_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := markdown.Process(ctx, []byte("# T\n"), markdown.Options{Registry: newRegistry(t)})
	require.ErrorIs(t, err, context.Canceled)
}

func TestProcess_RecordsMetrics(t *testing.T) {
	promReg := prom.NewRegistry()
	reg := newRegistry(t)
	reg.SetRecorder(metrics.NewPrometheusRecorder(promReg))

	_, err := processFixture(t, reg, "stacked_targets.md")
	require.NoError(t, err)
	_, err = processFixture(t, reg, "duplicate_targets.md")
	require.Error(t, err)

	expected := `
# HELP docanchors_documents_total Processed documents by outcome
# TYPE docanchors_documents_total counter
docanchors_documents_total{outcome="failed"} 1
docanchors_documents_total{outcome="success"} 1
`
	require.NoError(t, testutil.GatherAndCompare(promReg, strings.NewReader(expected), "docanchors_documents_total"))
}

func TestProcess_ConcurrentDocuments(t *testing.T) {
	reg := newRegistry(t)
	require.True(t, reg.ParallelSafe())

	src, err := os.ReadFile(filepath.Join("testdata", "stacked_targets.md"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([][][]string, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := markdown.Process(context.Background(), src, markdown.Options{Registry: reg})
			if err == nil {
				results[i] = ids(res)
			}
		}(i)
	}
	wg.Wait()
	for _, got := range results {
		require.Equal(t, [][]string{{"intro"}, {"c", "section-title", "a", "b"}}, got)
	}
}

func TestProcess_Fingerprint(t *testing.T) {
	reg := newRegistry(t)
	process := func(src string) string {
		res, err := markdown.Process(context.Background(), []byte(src), markdown.Options{Registry: reg})
		require.NoError(t, err)
		return res.Fingerprint
	}

	first := process("# Title\n\nBody.\n")
	require.NotEmpty(t, first)
	require.Equal(t, first, process("# Title\n\nBody.\n"))
	require.NotEqual(t, first, process("# Title\n\nOther body.\n"))
	require.NotEqual(t, first, process("---\ntitle: x\n---\n# Title\n\nBody.\n"))
}

package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docanchors/internal/foundation/errors"
)

func TestSplitFrontmatter(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		raw     string
		body    string
		had     bool
		wantErr bool
	}{
		{name: "none", in: "# Title\n", body: "# Title\n"},
		{name: "yaml", in: "---\nkey: value\n---\n# Title\n", raw: "key: value\n", body: "# Title\n", had: true},
		{name: "crlf", in: "---\r\nkey: value\r\n---\r\n# Title\r\n", raw: "key: value\r\n", body: "# Title\r\n", had: true},
		{name: "empty block", in: "---\n---\n# Title\n", body: "# Title\n", had: true},
		{name: "closed at eof", in: "---\nkey: value\n---", raw: "key: value\n", had: true},
		{name: "unclosed", in: "---\nkey: value\n# Title\n", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, body, had, err := splitFrontmatter([]byte(tt.in))
			if tt.wantErr {
				require.Error(t, err)
				require.True(t, errors.HasCategory(err, errors.CategoryParse))
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.had, had)
			require.Equal(t, tt.raw, string(raw))
			require.Equal(t, tt.body, string(body))
		})
	}
}

func TestParseFrontmatter(t *testing.T) {
	fm, err := parseFrontmatter([]byte("title: Guide\ndisable_transforms: [html_anchors]\n"))
	require.NoError(t, err)
	require.Equal(t, []string{"html_anchors"}, fm.DisableTransforms)
	require.Equal(t, "Guide", fm.Fields["title"])

	fm, err = parseFrontmatter(nil)
	require.NoError(t, err)
	require.Empty(t, fm.DisableTransforms)
	require.NotNil(t, fm.Fields)
}

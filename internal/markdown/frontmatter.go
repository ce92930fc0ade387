package markdown

import (
	"bytes"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docanchors/internal/foundation/errors"
)

// Frontmatter holds the YAML block at the top of a document.
type Frontmatter struct {
	// DisableTransforms names transforms that must not run for this document.
	DisableTransforms []string `yaml:"disable_transforms"`

	// Fields keeps every key, including the ones decoded above.
	Fields map[string]any `yaml:"-"`
}

// splitFrontmatter separates a `---` delimited YAML block from the body.
// Documents without one return the whole input as body.
func splitFrontmatter(content []byte) (raw []byte, body []byte, had bool, err error) {
	nl := "\n"
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		nl = "\r\n"
	}

	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, nil
	}
	start := len(open)
	if bytes.HasPrefix(content[start:], open) {
		return []byte{}, content[start+len(open):], true, nil
	}

	closing := []byte(nl + "---" + nl)
	idx := bytes.Index(content[start:], closing)
	if idx < 0 {
		// A closing delimiter at EOF without a trailing newline is still a close.
		if bytes.HasSuffix(content, []byte(nl+"---")) && len(content)-len(nl)-3 >= start {
			end := len(content) - 3
			return content[start:end], []byte{}, true, nil
		}
		return nil, nil, false, errors.ParseError("front matter closing delimiter is missing").Build()
	}
	end := start + idx + len(nl)
	return content[start:end], content[start+idx+len(closing):], true, nil
}

func parseFrontmatter(raw []byte) (Frontmatter, error) {
	var fm Frontmatter
	if len(bytes.TrimSpace(raw)) == 0 {
		fm.Fields = map[string]any{}
		return fm, nil
	}
	if err := yaml.Unmarshal(raw, &fm); err != nil {
		return fm, errors.WrapError(err, errors.CategoryParse, "invalid front matter").Build()
	}
	if err := yaml.Unmarshal(raw, &fm.Fields); err != nil {
		return fm, errors.WrapError(err, errors.CategoryParse, "invalid front matter").Build()
	}
	if fm.Fields == nil {
		fm.Fields = map[string]any{}
	}
	return fm, nil
}

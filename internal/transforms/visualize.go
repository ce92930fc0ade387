package transforms

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"git.home.luguber.info/inful/docanchors/internal/foundation/errors"
)

// Format is an output format for pipeline listings.
type Format string

const (
	FormatText    Format = "text"
	FormatMermaid Format = "mermaid"
	FormatDOT     Format = "dot"
	FormatJSON    Format = "json"
)

// SupportedFormats lists the formats Visualize accepts.
func SupportedFormats() []Format {
	return []Format{FormatText, FormatMermaid, FormatDOT, FormatJSON}
}

// Phase names the pipeline phase a priority falls into.
func Phase(priority int) string {
	switch {
	case priority < PrioritySections:
		return "parse"
	case priority < PriorityIDs:
		return "structure"
	case priority < PriorityPostProcess:
		return "ids"
	default:
		return "post-process"
	}
}

// Visualize writes descs, which must be in execution order, in format.
func Visualize(w io.Writer, descs []Description, format Format) error {
	switch format {
	case FormatText:
		return visualizeText(w, descs)
	case FormatMermaid:
		return visualizeMermaid(w, descs)
	case FormatDOT:
		return visualizeDOT(w, descs)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Transforms []Description `json:"transforms"`
			Total      int           `json:"total"`
		}{Transforms: descs, Total: len(descs)})
	default:
		return errors.ValidationError("unsupported format").
			WithContext("format", string(format)).
			Build()
	}
}

func visualizeText(w io.Writer, descs []Description) error {
	var sb strings.Builder
	sb.WriteString("Transform Pipeline\n")
	sb.WriteString("==================\n\n")

	phase := ""
	for _, d := range descs {
		if p := Phase(d.Priority); p != phase {
			if phase != "" {
				sb.WriteString("│\n↓\n")
			}
			phase = p
			fmt.Fprintf(&sb, "┌─ %s\n", phase)
		}
		flags := ""
		if !d.ParallelSafe {
			flags = " (sequential)"
		}
		fmt.Fprintf(&sb, "│ ├── [%d] %s%s\n", d.Priority, d.Name, flags)
		if len(d.MustRunAfter) > 0 {
			fmt.Fprintf(&sb, "│ │     ⤷ depends on: %s\n", strings.Join(d.MustRunAfter, ", "))
		}
	}
	fmt.Fprintf(&sb, "\nTotal: %d transforms\n", len(descs))
	_, err := io.WriteString(w, sb.String())
	return err
}

func mermaidID(name string) string {
	return strings.NewReplacer("_", "", "-", "").Replace(name)
}

func visualizeMermaid(w io.Writer, descs []Description) error {
	var sb strings.Builder
	sb.WriteString("```mermaid\ngraph TD\n")
	for i, d := range descs {
		fmt.Fprintf(&sb, "    %s[\"%s (%d)\"]\n", mermaidID(d.Name), d.Name, d.Priority)
		if i > 0 {
			fmt.Fprintf(&sb, "    %s --> %s\n", mermaidID(descs[i-1].Name), mermaidID(d.Name))
		}
	}
	for _, d := range descs {
		for _, dep := range d.MustRunAfter {
			fmt.Fprintf(&sb, "    %s -.->|requires| %s\n", mermaidID(dep), mermaidID(d.Name))
		}
	}
	sb.WriteString("```\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

func visualizeDOT(w io.Writer, descs []Description) error {
	var sb strings.Builder
	sb.WriteString("digraph TransformPipeline {\n")
	sb.WriteString("    rankdir=TB;\n")
	sb.WriteString("    node [shape=box, style=rounded];\n\n")
	for _, d := range descs {
		fmt.Fprintf(&sb, "    %q [label=\"%s\\n%d\"];\n", d.Name, d.Name, d.Priority)
	}
	for _, d := range descs {
		for _, dep := range d.MustRunAfter {
			fmt.Fprintf(&sb, "    %q -> %q;\n", dep, d.Name)
		}
	}
	sb.WriteString("}\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"git.home.luguber.info/inful/docanchors/internal/markdown"
)

// IDsCmd implements the 'ids' command.
type IDsCmd struct {
	Format string   `short:"f" default:"text" help:"Output format (text or json)" enum:"text,json"`
	Files  []string `arg:"" type:"existingfile" help:"Markdown files to process"`
}

type documentIDs struct {
	Document    string                 `json:"document"`
	Fingerprint string                 `json:"fingerprint"`
	Sections    []markdown.SectionInfo `json:"sections"`
}

// Run executes the ids command.
func (cmd *IDsCmd) Run(g *Global, _ *CLI) error {
	results, err := processFiles(g, cmd.Files)
	if err != nil {
		return err
	}

	docs := make([]documentIDs, 0, len(results))
	for i, res := range results {
		docs = append(docs, documentIDs{Document: cmd.Files[i], Fingerprint: res.Fingerprint, Sections: res.Sections()})
	}

	if cmd.Format == "json" {
		enc := json.NewEncoder(g.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(docs)
	}

	return writeIDsText(g.Stdout, docs)
}

func writeIDsText(w io.Writer, docs []documentIDs) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DOCUMENT\tLEVEL\tCANONICAL\tALTERNATES\tTITLE")
	for _, d := range docs {
		for _, s := range d.Sections {
			alternates := strings.Join(s.Alternates(), ",")
			if alternates == "" {
				alternates = "-"
			}
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n", d.Document, s.Level, s.Canonical(), alternates, s.Title)
		}
	}
	return tw.Flush()
}

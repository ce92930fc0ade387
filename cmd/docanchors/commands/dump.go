package commands

import (
	"fmt"
)

// DumpCmd implements the 'dump' command.
type DumpCmd struct {
	Files []string `arg:"" type:"existingfile" help:"Markdown files to process"`
}

// Run executes the dump command.
func (cmd *DumpCmd) Run(g *Global, _ *CLI) error {
	results, err := processFiles(g, cmd.Files)
	if err != nil {
		return err
	}
	for i, res := range results {
		if len(results) > 1 {
			if i > 0 {
				fmt.Fprintln(g.Stdout)
			}
			fmt.Fprintf(g.Stdout, "==> %s <==\n", cmd.Files[i])
		}
		if err := res.WriteTree(g.Stdout); err != nil {
			return err
		}
	}
	return nil
}

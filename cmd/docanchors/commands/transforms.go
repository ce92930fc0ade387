package commands

import (
	"git.home.luguber.info/inful/docanchors/internal/transforms"
)

// TransformsCmd implements the 'transforms' command.
type TransformsCmd struct {
	Format string `short:"f" default:"text" help:"Output format: text, mermaid, dot, json" enum:"text,mermaid,dot,json"`
	All    bool   `short:"a" help:"List every registered transform, ignoring transforms.include"`
}

// Run executes the transforms command.
func (cmd *TransformsCmd) Run(g *Global, _ *CLI) error {
	descs := g.Registry.Describe()
	if !cmd.All {
		pipeline, err := g.Registry.Pipeline(g.Config.Transforms.Include)
		if err != nil {
			return err
		}
		descs = pipeline.Steps()
	}
	return transforms.Visualize(g.Stdout, descs, transforms.Format(cmd.Format))
}

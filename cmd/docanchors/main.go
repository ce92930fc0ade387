package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docanchors/cmd/docanchors/commands"
	"git.home.luguber.info/inful/docanchors/internal/foundation/errors"
	"git.home.luguber.info/inful/docanchors/internal/version"

	// Registers prefer_section_target with the default registry.
	_ "git.home.luguber.info/inful/docanchors/internal/anchors"
)

func main() {
	cli := &commands.CLI{}
	kctx := kong.Parse(cli,
		kong.Name("docanchors"),
		kong.Description("Make explicit targets the canonical ids of the sections they precede."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	global, err := cli.Setup(ctx, os.Stdout, os.Stderr)
	if err != nil {
		errors.NewCLIErrorAdapter(cli.Verbose, nil).HandleError(err)
		return
	}

	err = kctx.Run(global, cli)
	if ferr := global.Finish(); err == nil {
		err = ferr
	}
	if err != nil {
		cancel()
		errors.NewCLIErrorAdapter(cli.Verbose, global.Logger).HandleError(err)
	}
}

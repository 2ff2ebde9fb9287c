package main

import (
	"github.com/alecthomas/kong"

	"github.com/broady/routes/cmd/routes/internal/check"
	"github.com/broady/routes/cmd/routes/internal/list"
)

type CLI struct {
	List    list.Cmd   `cmd:"" default:"withargs" help:"List discovered routes, sorted by path, verb, and method."`
	Check   check.Cmd  `cmd:"" help:"Validate route markers without printing the listing."`
	Version VersionCmd `cmd:"" help:"Print version information."`
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("routes"),
		kong.Description("List the HTTP routes declared by //route: markers in Go packages."),
		kong.UsageOnError(),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

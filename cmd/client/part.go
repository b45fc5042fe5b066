package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/inbucket/mailview/pkg/rest/client"
)

type partCmd struct {
	showType bool
}

func (*partCmd) Name() string {
	return "part"
}

func (*partCmd) Synopsis() string {
	return "write the decoded body of a message part"
}

func (*partCmd) Usage() string {
	return `part [flags] <message path> [location]:
	write the body at location (ex: "0,1") to stdout, the whole message if omitted
`
}

func (p *partCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&p.showType, "type", false, "print the content type to stderr")
}

func (p *partCmd) Execute(
	ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	path := f.Arg(0)
	if path == "" {
		return usage("message path required")
	}
	loc, err := parseLocation(f.Arg(1))
	if err != nil {
		return usage(err.Error())
	}
	c, err := client.New(baseURL())
	if err != nil {
		return fatal("Couldn't build client", err)
	}
	body, ctype, err := c.Part(ctx, path, loc)
	if err != nil {
		return fatal("REST call failed", err)
	}
	if p.showType {
		fmt.Fprintln(os.Stderr, ctype)
	}
	if _, err := os.Stdout.Write(body); err != nil {
		return fatal("Write failed", err)
	}
	return subcommands.ExitSuccess
}

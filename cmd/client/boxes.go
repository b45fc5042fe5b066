package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"github.com/inbucket/mailview/pkg/rest/client"
)

type boxesCmd struct{}

func (*boxesCmd) Name() string {
	return "boxes"
}

func (*boxesCmd) Synopsis() string {
	return "list mailboxes"
}

func (*boxesCmd) Usage() string {
	return `boxes:
	list the names of all mailboxes
`
}

func (*boxesCmd) SetFlags(f *flag.FlagSet) {}

func (*boxesCmd) Execute(
	ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	c, err := client.New(baseURL())
	if err != nil {
		return fatal("Couldn't build client", err)
	}
	boxes, err := c.Mailboxes(ctx)
	if err != nil {
		return fatal("REST call failed", err)
	}
	for _, b := range boxes {
		fmt.Println(b)
	}
	return subcommands.ExitSuccess
}

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/inbucket/mailview/pkg/rest/client"
)

type listCmd struct {
	output  string
	newOnly bool
	// match criteria
	from    regexFlag
	subject regexFlag
}

func (*listCmd) Name() string {
	return "list"
}

func (*listCmd) Synopsis() string {
	return "list contents of mailbox"
}

func (*listCmd) Usage() string {
	return `list [flags] <mailbox>:
	list messages in mailbox matching all specified criteria
	exit status will be 1 if no messages were found, otherwise 0
`
}

func (l *listCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&l.output, "output", "path", "output format: path, or json")
	f.BoolVar(&l.newOnly, "new", false, "only list messages in the new directory")
	f.Var(&l.from, "from", "From header matching regexp")
	f.Var(&l.subject, "subject", "Subject header matching regexp")
}

func (l *listCmd) Execute(
	ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	mailbox := f.Arg(0)
	if mailbox == "" {
		return usage("mailbox required")
	}
	var outFunc func([]*client.MessageHeader) error
	switch l.output {
	case "path":
		outFunc = outputPath
	case "json":
		outFunc = outputJSON
	default:
		return usage("unknown output type: " + l.output)
	}

	// Setup rest client
	c, err := client.New(baseURL())
	if err != nil {
		return fatal("Couldn't build client", err)
	}

	// Get list
	box, err := c.Mailbox(ctx, mailbox)
	if err != nil {
		return fatal("REST call failed", err)
	}
	matches := make([]*client.MessageHeader, 0, len(box.Messages))
	for _, h := range box.Headers() {
		if l.match(h) {
			matches = append(matches, h)
		}
	}
	if len(matches) == 0 {
		return subcommands.ExitFailure
	}
	if err := outFunc(matches); err != nil {
		return fatal("Error", err)
	}
	return subcommands.ExitSuccess
}

// match returns true if header matches all defined criteria
func (l *listCmd) match(header *client.MessageHeader) bool {
	if l.newOnly && !header.IsNew() {
		return false
	}
	if l.subject.Defined() && !l.subject.MatchString(header.Subject) {
		return false
	}
	if l.from.Defined() && !l.from.MatchString(header.From) {
		return false
	}
	return true
}

func outputPath(headers []*client.MessageHeader) error {
	for _, h := range headers {
		fmt.Println(h.Path)
	}
	return nil
}

func outputJSON(headers []*client.MessageHeader) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(headers)
}

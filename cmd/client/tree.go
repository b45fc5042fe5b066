package main

import (
	"context"
	"flag"
	"fmt"
	"sort"
	"strings"

	"github.com/google/subcommands"
	"github.com/inbucket/mailview/pkg/rest/client"
	"github.com/inbucket/mailview/pkg/rest/model"
	"github.com/inbucket/mailview/pkg/stringutil"
)

type treeCmd struct {
	headers bool
}

func (*treeCmd) Name() string {
	return "tree"
}

func (*treeCmd) Synopsis() string {
	return "show the MIME structure of a message"
}

func (*treeCmd) Usage() string {
	return `tree [flags] <message path>:
	print each part with its location and content type
`
}

func (t *treeCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&t.headers, "headers", false, "also print part headers")
}

func (t *treeCmd) Execute(
	ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	path := f.Arg(0)
	if path == "" {
		return usage("message path required")
	}
	c, err := client.New(baseURL())
	if err != nil {
		return fatal("Couldn't build client", err)
	}
	skel, err := c.Skeleton(ctx, path)
	if err != nil {
		return fatal("REST call failed", err)
	}
	t.print(skel, nil)
	return subcommands.ExitSuccess
}

// print writes one line per part, indented by depth, in the order the parts appear.
func (t *treeCmd) print(p *model.JSONPartV1, loc []int) {
	indent := strings.Repeat("  ", len(loc))
	fmt.Printf("%s%s %s\n", indent, client.FormatLocation(loc), p.CType)
	if t.headers {
		keys := make([]string, 0, len(p.Headers))
		for k := range p.Headers {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Printf("%s    %s: %s\n", indent, k, p.Headers[k])
		}
	}
	for i, child := range p.Parts {
		t.print(child, append(append([]int(nil), loc...), i))
	}
}

// parseLocation accepts the same comma separated form that tree prints; an omitted location is
// the whole message.
func parseLocation(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		s = ","
	}
	loc, err := stringutil.ParsePartPath(s)
	if err != nil {
		return nil, fmt.Errorf("bad part location %q: %w", s, err)
	}
	return loc, nil
}

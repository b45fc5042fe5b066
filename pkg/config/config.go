package config

import (
	"log"
	"os"
	"text/tabwriter"

	"github.com/kelseyhightower/envconfig"
)

const (
	prefix      = "mailview"
	tableFormat = `mailview is configured via the environment. The following environment
variables can be used:

KEY	DEFAULT	REQUIRED	DESCRIPTION
{{range .}}{{usage_key .}}	{{usage_default .}}	{{usage_required .}}	{{usage_description .}}
{{end}}`
)

var (
	// Version of this build, set by main
	Version = ""

	// BuildDate for this build, set by main
	BuildDate = ""
)

// Root wraps all other configurations.
type Root struct {
	LogLevel string `required:"true" default:"info" desc:"debug, info, warn, or error"`
	Maildir  Maildir
	Cache    Cache
	Parser   Parser
	Web      Web
}

// Maildir contains the mailbox store configuration.
type Maildir struct {
	Path        string `required:"true" default:"Maildir" desc:"Root of the maildir tree"`
	EscapeColon bool   `default:"false" desc:"Message names store ':' as U+F022 on disk"`
}

// Cache contains the parsed message cache configuration.
type Cache struct {
	Size int `required:"true" default:"50" desc:"Parsed messages kept in memory"`
}

// Parser contains the MIME parser configuration.
type Parser struct {
	MaxDepth int `required:"true" default:"32" desc:"Maximum multipart nesting depth"`
}

// Web contains the HTTP server configuration.
type Web struct {
	Addr    string `required:"true" default:"127.0.0.1:9000" desc:"Web server IP4 host:port"`
	UIDir   string `desc:"Optional directory of UI files served at /"`
	Metrics bool   `default:"true" desc:"Expose prometheus metrics at /metrics?"`
}

// Process loads and parses configuration from the environment.
func Process() (*Root, error) {
	c := &Root{}
	err := envconfig.Process(prefix, c)
	return c, err
}

// Usage prints out the envconfig usage to Stderr.
func Usage() {
	tabs := tabwriter.NewWriter(os.Stderr, 1, 0, 4, ' ', 0)
	if err := envconfig.Usagef(prefix, &Root{}, tabs, tableFormat); err != nil {
		log.Fatalf("Unable to parse env config: %v", err)
	}
	tabs.Flush()
}

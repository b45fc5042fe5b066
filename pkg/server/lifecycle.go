// Package server wires the mailview services together.
package server

import (
	"context"

	"github.com/inbucket/mailview/pkg/config"
	"github.com/inbucket/mailview/pkg/message"
	"github.com/inbucket/mailview/pkg/rest"
	"github.com/inbucket/mailview/pkg/server/web"
	"github.com/inbucket/mailview/pkg/storage"
	"github.com/inbucket/mailview/pkg/storage/maildir"
	"github.com/inbucket/mailview/pkg/webui"
	"github.com/rs/zerolog/log"
)

// Services holds the configured services.
type Services struct {
	Manager   *message.StoreManager
	WebServer *web.Server
	done      chan struct{}
}

// FullAssembly wires up a complete mailview environment over the configured maildir.
func FullAssembly(conf *config.Root) (*Services, error) {
	store, err := maildir.New(conf.Maildir)
	if err != nil {
		return nil, err
	}
	return Assemble(conf, store)
}

// Assemble wires up the services over store, which lets tests substitute another Store.
func Assemble(conf *config.Root, store storage.Store) (*Services, error) {
	mmanager, err := message.NewStoreManager(store, conf.Cache.Size,
		&message.Parser{MaxDepth: conf.Parser.MaxDepth})
	if err != nil {
		return nil, err
	}

	webServer := web.NewServer(conf, mmanager)
	rest.SetupRoutes(webServer.Router)
	webui.SetupRoutes(webServer.Router.PathPrefix("/serve/").Subrouter())

	return &Services{Manager: mmanager, WebServer: webServer, done: make(chan struct{})}, nil
}

// Start all services, calling readyFunc once the web server is accepting connections.
func (s *Services) Start(ctx context.Context, readyFunc func()) {
	log.Info().Str("module", "server").Str("phase", "startup").Msg("Starting services")
	go func() {
		s.WebServer.Start(ctx, readyFunc)
		close(s.done)
	}()
}

// Wait blocks until the services started by Start have stopped.
func (s *Services) Wait() {
	<-s.done
}

// Notify merges the error notification channels of all fallible services, allowing the process
// to be shutdown if needed.
func (s *Services) Notify() <-chan error {
	return s.WebServer.Notify()
}

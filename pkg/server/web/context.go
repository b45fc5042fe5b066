package web

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/inbucket/mailview/pkg/config"
	"github.com/inbucket/mailview/pkg/message"
)

type envKey struct{}

// Env holds the long lived dependencies shared by every request a Server handles.
type Env struct {
	Manager    message.Manager
	RootConfig *config.Root
}

// Context is passed into every request handler function
type Context struct {
	Vars       map[string]string
	Manager    message.Manager
	RootConfig *config.Root
}

// WithEnv returns a copy of ctx carrying env.
func WithEnv(ctx context.Context, env *Env) context.Context {
	return context.WithValue(ctx, envKey{}, env)
}

// envMiddleware attaches env to each request.
func envMiddleware(env *Env) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(WithEnv(req.Context(), env)))
		})
	}
}

// NewContext returns a Context for the given HTTP Request
func NewContext(req *http.Request) (*Context, error) {
	env, ok := req.Context().Value(envKey{}).(*Env)
	if !ok || env == nil {
		return nil, errors.New("request has no web environment")
	}
	return &Context{
		Vars:       mux.Vars(req),
		Manager:    env.Manager,
		RootConfig: env.RootConfig,
	}, nil
}

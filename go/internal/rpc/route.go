package rpc

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// Route is one procedure ready to be mounted on a mux.
type Route struct {
	Procedure string
	Handler   http.Handler
}

// Unary builds a connect handler for fn that speaks the JSON codec.
func Unary[Req, Res any](procedure string, fn func(context.Context, *connect.Request[Req]) (*connect.Response[Res], error), opts ...connect.HandlerOption) Route {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)
	return Route{
		Procedure: procedure,
		Handler:   connect.NewUnaryHandler(procedure, fn, opts...),
	}
}

// Procedure joins a fully-qualified service name and method.
func Procedure(service, method string) string {
	return "/" + service + "/" + method
}

// Mux is the subset of http.ServeMux and chi.Router that Mount needs.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// Mount registers every route on mux.
func Mount(mux Mux, routes []Route) {
	for _, r := range routes {
		mux.Handle(r.Procedure, r.Handler)
	}
}

// ServiceOf returns the service part of a procedure path.
func ServiceOf(procedure string) string {
	trimmed := strings.TrimPrefix(procedure, "/")
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		return trimmed[:i]
	}
	return trimmed
}

// NewClient builds a unary client for procedure on baseURL.
func NewClient[Req, Res any](httpClient connect.HTTPClient, baseURL, procedure string, opts ...connect.ClientOption) *connect.Client[Req, Res] {
	opts = append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
	return connect.NewClient[Req, Res](httpClient, strings.TrimRight(baseURL, "/")+procedure, opts...)
}

package auth

import (
	"context"
	"strings"

	"connectrpc.com/connect"
	"github.com/rs/zerolog/log"
)

const bearerPrefix = "Bearer "

// NewInterceptor verifies the bearer token on every unary call and stores
// the principal on the context. When required is false, calls without a
// token proceed as Anonymous; a token that is present must still be valid.
func NewInterceptor(svc Service, required bool) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if !req.Spec().IsClient {
				header := req.Header().Get("Authorization")
				if header == "" {
					if required {
						return nil, connect.NewError(connect.CodeUnauthenticated, ErrUnauthenticated)
					}
					return next(WithPrincipal(ctx, Anonymous), req)
				}

				principal, err := svc.ValidateToken(strings.TrimPrefix(header, bearerPrefix))
				if err != nil {
					log.Warn().Err(err).Str("procedure", req.Spec().Procedure).Msg("rejected token")
					return nil, connect.NewError(connect.CodeUnauthenticated, err)
				}
				ctx = WithPrincipal(ctx, principal)
			}
			return next(ctx, req)
		}
	}
}

// NewClientInterceptor attaches token to every outgoing call.
func NewClientInterceptor(token string) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if req.Spec().IsClient && token != "" {
				req.Header().Set("Authorization", bearerPrefix+token)
			}
			return next(ctx, req)
		}
	}
}

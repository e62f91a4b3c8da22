package oauth

import (
	"context"
	"net/http"
	"strings"

	slackclient "github.com/slack-mcp-gateway/slack-mcp-gateway/internal/slack"
)

// clientContextKey keys the per-request Slack client in a context.
type clientContextKey struct{}

// ClientFactory builds a Slack client for the Slack token an access token
// is bound to. Injected so tests can substitute a fake client.
type ClientFactory func(slackToken string) slackclient.ClientInterface

// WithClient returns a context carrying the given Slack client.
func WithClient(ctx context.Context, c slackclient.ClientInterface) context.Context {
	return context.WithValue(ctx, clientContextKey{}, c)
}

// ClientFrom extracts the per-request Slack client from a context.
func ClientFrom(ctx context.Context) (slackclient.ClientInterface, bool) {
	c, ok := ctx.Value(clientContextKey{}).(slackclient.ClientInterface)
	return c, ok
}

// authenticate validates the Authorization header of a request and returns
// the token record it carries.
func (s *Service) authenticate(r *http.Request) (*Token, error) {
	header := r.Header.Get("Authorization")
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		return nil, ErrInvalidAccessToken
	}
	return s.TokenFor(raw)
}

// Middleware rejects requests that do not carry a valid bearer token and
// injects the corresponding Slack client into the request context.
func (s *Service) Middleware(factory ClientFactory) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := s.authenticate(r)
			if err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer realm="slack-mcp-gateway"`)
				writeOAuthError(w, http.StatusUnauthorized, "invalid_token",
					"a valid bearer access token is required")
				return
			}
			ctx := WithClient(r.Context(), factory(token.SlackToken))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SSEContextFunc adapts the bearer lookup for the MCP SSE server. The SSE
// server applies this to the stream open and to every message POST, so the
// session record is keyed by access token and reused across requests; one
// authorized token holds exactly one session. Requests without a valid token
// pass through unchanged and fail later at the tool layer.
func (s *Service) SSEContextFunc(factory ClientFactory) func(ctx context.Context, r *http.Request) context.Context {
	return func(ctx context.Context, r *http.Request) context.Context {
		token, err := s.authenticate(r)
		if err != nil {
			return ctx
		}
		if _, err := s.SessionFor(token.AccessToken); err != nil {
			return ctx
		}
		return WithClient(ctx, factory(token.SlackToken))
	}
}

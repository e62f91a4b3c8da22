// Package tools provides MCP tool handler implementations for the Slack MCP
// gateway. Every tool that accepts a free-form user or channel identifier
// routes it through the resolve package; nothing guesses an identity.
package tools

import (
	"context"

	slackclient "github.com/slack-mcp-gateway/slack-mcp-gateway/internal/slack"
	"github.com/slack-mcp-gateway/slack-mcp-gateway/pkg/types"
)

// ClientProvider yields the Slack client a tool call should use. The stdio
// transport serves a single static client; the SSE transport selects a
// per-user client injected into the context by the OAuth layer.
type ClientProvider interface {
	ClientFor(ctx context.Context) (slackclient.ClientInterface, error)
}

// StaticProvider always returns the same client.
type StaticProvider struct {
	Client slackclient.ClientInterface
}

// ClientFor implements ClientProvider.
func (p *StaticProvider) ClientFor(ctx context.Context) (slackclient.ClientInterface, error) {
	return p.Client, nil
}

// ContextProvider extracts the client from the call context via Lookup,
// falling back to Fallback when set.
type ContextProvider struct {
	// Lookup extracts a per-request client from the context.
	Lookup func(ctx context.Context) (slackclient.ClientInterface, bool)
	// Fallback is used when the context carries no client. Optional.
	Fallback slackclient.ClientInterface
}

// ClientFor implements ClientProvider.
func (p *ContextProvider) ClientFor(ctx context.Context) (slackclient.ClientInterface, error) {
	if p.Lookup != nil {
		if c, ok := p.Lookup(ctx); ok {
			return c, nil
		}
	}
	if p.Fallback != nil {
		return p.Fallback, nil
	}
	return nil, types.NewSlackError(types.ErrCodeInvalidToken,
		"no authorized Slack session; complete the OAuth flow and retry")
}

package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/slack-mcp-gateway/slack-mcp-gateway/internal/resolve"
)

// FindUserHandler handles the find_user MCP tool requests.
// It exposes the resolution engine directly: the caller gets the resolved
// profile, the tied candidate list, or a not-found reason as structured JSON.
type FindUserHandler struct {
	clients ClientProvider
}

// NewFindUserHandler creates a new FindUserHandler.
func NewFindUserHandler(clients ClientProvider) *FindUserHandler {
	return &FindUserHandler{clients: clients}
}

// Tool returns the MCP tool definition for find_user.
func (h *FindUserHandler) Tool() mcp.Tool {
	return mcp.NewTool("find_user",
		mcp.WithDescription("Resolve a free-form user identifier (user ID, @username, "+
			"display name, real name, or email) to exactly one workspace user. "+
			"Returns the matched profile, or a candidate list when the identifier is ambiguous."),
		mcp.WithString("identifier",
			mcp.Required(),
			mcp.Description("User reference to resolve, e.g. 'U01234567', '@ada', 'Ada Lovelace', or 'ada@example.com'."),
		),
		mcp.WithBoolean("include_presence",
			mcp.Description("Also fetch the resolved user's presence (active/away)."),
		),
	)
}

// Handle processes a find_user tool call. All three resolution outcomes are
// ordinary results; only infrastructure failures become error results.
func (h *FindUserHandler) Handle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	identifier := stringArg(request, "identifier", "")
	if identifier == "" {
		return mcp.NewToolResultError("missing required argument 'identifier'"), nil
	}

	client, err := h.clients.ClientFor(ctx)
	if err != nil {
		return errorResult("find user", err), nil
	}

	res, err := resolve.NewResolver(client).ResolveUser(ctx, identifier)
	if err != nil {
		return errorResult("find user", err), nil
	}

	if res.Outcome == resolve.OutcomeResolved && boolArg(request, "include_presence", false) {
		// Presence is best-effort; an unknown presence is not a failure.
		if presence, perr := client.GetUserPresence(ctx, res.User.ID); perr == nil {
			res.User.Presence = presence
		}
	}

	return jsonResult(res)
}

// HandleFunc returns a function that can be used directly as an MCP tool handler.
func (h *FindUserHandler) HandleFunc() func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.Handle
}

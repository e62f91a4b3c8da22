package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/slack-mcp-gateway/slack-mcp-gateway/internal/resolve"
)

// GetUserProfileHandler handles the get_user_profile MCP tool requests.
// Unlike find_user it treats a non-resolved outcome as a tool error, since
// the caller asked for exactly one profile.
type GetUserProfileHandler struct {
	clients ClientProvider
}

// NewGetUserProfileHandler creates a new GetUserProfileHandler.
func NewGetUserProfileHandler(clients ClientProvider) *GetUserProfileHandler {
	return &GetUserProfileHandler{clients: clients}
}

// Tool returns the MCP tool definition for get_user_profile.
func (h *GetUserProfileHandler) Tool() mcp.Tool {
	return mcp.NewTool("get_user_profile",
		mcp.WithDescription("Fetch the full profile of a single workspace user, including presence. "+
			"The user may be given as a user ID, @username, display name, real name, or email."),
		mcp.WithString("user",
			mcp.Required(),
			mcp.Description("User reference, e.g. 'U01234567', '@ada', or 'ada@example.com'."),
		),
	)
}

// Handle processes a get_user_profile tool call.
func (h *GetUserProfileHandler) Handle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	user := stringArg(request, "user", "")
	if user == "" {
		return mcp.NewToolResultError("missing required argument 'user'"), nil
	}

	client, err := h.clients.ClientFor(ctx)
	if err != nil {
		return errorResult("get user profile", err), nil
	}

	res, err := resolve.NewResolver(client).ResolveUser(ctx, user)
	if err != nil {
		return errorResult("get user profile", err), nil
	}
	if res.Outcome != resolve.OutcomeResolved {
		return errorResult("get user profile", res.Err()), nil
	}

	profile := *res.User
	if presence, perr := client.GetUserPresence(ctx, profile.ID); perr == nil {
		profile.Presence = presence
	}

	return jsonResult(&profile)
}

// HandleFunc returns a function that can be used directly as an MCP tool handler.
func (h *GetUserProfileHandler) HandleFunc() func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.Handle
}

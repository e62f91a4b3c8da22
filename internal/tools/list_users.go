package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/slack-mcp-gateway/slack-mcp-gateway/internal/resolve"
	"github.com/slack-mcp-gateway/slack-mcp-gateway/pkg/types"
)

// ListUsersHandler handles the list_users MCP tool requests.
// It returns the active-user directory snapshot the resolver scores against:
// the same listing, with the same bot and deactivated-account exclusions.
type ListUsersHandler struct {
	clients ClientProvider
}

// NewListUsersHandler creates a new ListUsersHandler.
func NewListUsersHandler(clients ClientProvider) *ListUsersHandler {
	return &ListUsersHandler{clients: clients}
}

// Tool returns the MCP tool definition for list_users.
func (h *ListUsersHandler) Tool() mcp.Tool {
	return mcp.NewTool("list_users",
		mcp.WithDescription("List all active human users in the workspace. "+
			"Bots and deactivated accounts are excluded."),
	)
}

// Handle processes a list_users tool call.
func (h *ListUsersHandler) Handle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	client, err := h.clients.ClientFor(ctx)
	if err != nil {
		return errorResult("list users", err), nil
	}

	users, err := resolve.NewDirectory(client).ActiveUsers(ctx)
	if err != nil {
		return errorResult("list users", err), nil
	}

	return jsonResult(struct {
		Users []types.UserInfo `json:"users"`
		Count int              `json:"count"`
	}{Users: users, Count: len(users)})
}

// HandleFunc returns a function that can be used directly as an MCP tool handler.
func (h *ListUsersHandler) HandleFunc() func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.Handle
}

package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/slack-mcp-gateway/slack-mcp-gateway/pkg/types"
)

// maxChannelPage is the largest conversations page the tool will request.
const maxChannelPage = 200

// ListChannelsHandler handles the list_channels MCP tool requests.
type ListChannelsHandler struct {
	clients ClientProvider
}

// NewListChannelsHandler creates a new ListChannelsHandler.
func NewListChannelsHandler(clients ClientProvider) *ListChannelsHandler {
	return &ListChannelsHandler{clients: clients}
}

// Tool returns the MCP tool definition for list_channels.
func (h *ListChannelsHandler) Tool() mcp.Tool {
	return mcp.NewTool("list_channels",
		mcp.WithDescription("List conversations visible to the token, one page at a time. "+
			"Pass the returned next_cursor to fetch the following page."),
		mcp.WithNumber("limit",
			mcp.Description("Maximum channels per page (1-200, default 100)."),
		),
		mcp.WithString("cursor",
			mcp.Description("Pagination cursor from a previous call."),
		),
	)
}

// Handle processes a list_channels tool call.
func (h *ListChannelsHandler) Handle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	client, err := h.clients.ClientFor(ctx)
	if err != nil {
		return errorResult("list channels", err), nil
	}

	limit := clampCount(intArg(request, "limit", 100), maxChannelPage)
	cursor := stringArg(request, "cursor", "")

	channels, nextCursor, err := client.ListChannels(ctx, cursor, limit)
	if err != nil {
		return errorResult("list channels", err), nil
	}

	return jsonResult(struct {
		Channels   []types.Channel `json:"channels"`
		NextCursor string          `json:"next_cursor,omitempty"`
	}{Channels: channels, NextCursor: nextCursor})
}

// HandleFunc returns a function that can be used directly as an MCP tool handler.
func (h *ListChannelsHandler) HandleFunc() func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.Handle
}

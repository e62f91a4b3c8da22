package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/slack-mcp-gateway/slack-mcp-gateway/pkg/types"
)

// maxFileCount is the largest file listing the tool will request.
const maxFileCount = 100

// ListFilesHandler handles the list_files MCP tool requests.
type ListFilesHandler struct {
	clients ClientProvider
}

// NewListFilesHandler creates a new ListFilesHandler.
func NewListFilesHandler(clients ClientProvider) *ListFilesHandler {
	return &ListFilesHandler{clients: clients}
}

// Tool returns the MCP tool definition for list_files.
func (h *ListFilesHandler) Tool() mcp.Tool {
	return mcp.NewTool("list_files",
		mcp.WithDescription("List files shared in a conversation. The channel may be a "+
			"conversation ID, '#channel-name', or a user reference."),
		mcp.WithString("channel",
			mcp.Required(),
			mcp.Description("Conversation ID, '#channel-name', or user reference."),
		),
		mcp.WithNumber("count",
			mcp.Description("Maximum files to return (1-100, default 20)."),
		),
	)
}

// Handle processes a list_files tool call.
func (h *ListFilesHandler) Handle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	channel := stringArg(request, "channel", "")
	if channel == "" {
		return mcp.NewToolResultError("missing required argument 'channel'"), nil
	}

	client, err := h.clients.ClientFor(ctx)
	if err != nil {
		return errorResult("list files", err), nil
	}

	target, err := newTargetBuilder(client).Build(ctx, channel)
	if err != nil {
		return errorResult("list files", err), nil
	}

	count := clampCount(intArg(request, "count", 20), maxFileCount)

	files, err := client.ListFiles(ctx, target.ConversationID, count)
	if err != nil {
		return errorResult("list files", err), nil
	}

	return jsonResult(struct {
		ChannelID string       `json:"channel_id"`
		Files     []types.File `json:"files"`
	}{ChannelID: target.ConversationID, Files: files})
}

// HandleFunc returns a function that can be used directly as an MCP tool handler.
func (h *ListFilesHandler) HandleFunc() func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.Handle
}

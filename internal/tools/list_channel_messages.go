package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/slack-mcp-gateway/slack-mcp-gateway/internal/resolve"
	"github.com/slack-mcp-gateway/slack-mcp-gateway/pkg/types"
)

// maxHistoryPage is the largest history page the tool will request.
const maxHistoryPage = 100

// ListChannelMessagesHandler handles the list_channel_messages MCP tool
// requests. It retrieves a page of conversation history and enriches every
// author with profile data.
type ListChannelMessagesHandler struct {
	clients ClientProvider
}

// NewListChannelMessagesHandler creates a new ListChannelMessagesHandler.
func NewListChannelMessagesHandler(clients ClientProvider) *ListChannelMessagesHandler {
	return &ListChannelMessagesHandler{clients: clients}
}

// Tool returns the MCP tool definition for list_channel_messages.
func (h *ListChannelMessagesHandler) Tool() mcp.Tool {
	return mcp.NewTool("list_channel_messages",
		mcp.WithDescription("Read recent messages from a conversation. The channel may be a "+
			"conversation ID ('C01234567'), a channel name ('#general'), or a user reference "+
			"('@ada'); user references read the direct-message history with that user."),
		mcp.WithString("channel",
			mcp.Required(),
			mcp.Description("Conversation ID, '#channel-name', or user reference."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum messages to return (1-100, default 20)."),
		),
		mcp.WithString("oldest",
			mcp.Description("Only messages after this timestamp (Slack API format)."),
		),
		mcp.WithString("latest",
			mcp.Description("Only messages before this timestamp (Slack API format)."),
		),
		mcp.WithString("cursor",
			mcp.Description("Pagination cursor from a previous call."),
		),
	)
}

// Handle processes a list_channel_messages tool call.
func (h *ListChannelMessagesHandler) Handle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	channel := stringArg(request, "channel", "")
	if channel == "" {
		return mcp.NewToolResultError("missing required argument 'channel'"), nil
	}

	client, err := h.clients.ClientFor(ctx)
	if err != nil {
		return errorResult("list channel messages", err), nil
	}

	target, err := newTargetBuilder(client).Build(ctx, channel)
	if err != nil {
		return errorResult("list channel messages", err), nil
	}

	limit := clampCount(intArg(request, "limit", 20), maxHistoryPage)
	oldest := stringArg(request, "oldest", "")
	latest := stringArg(request, "latest", "")
	cursor := stringArg(request, "cursor", "")

	messages, hasMore, nextCursor, err := client.GetChannelHistory(ctx, target.ConversationID, limit, oldest, latest, cursor)
	if err != nil {
		return errorResult("list channel messages", err), nil
	}

	resolve.EnrichAuthors(ctx, client, messages)

	return jsonResult(&types.ListMessagesResult{
		ChannelID:  target.ConversationID,
		Messages:   messages,
		HasMore:    hasMore,
		NextCursor: nextCursor,
	})
}

// HandleFunc returns a function that can be used directly as an MCP tool handler.
func (h *ListChannelMessagesHandler) HandleFunc() func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.Handle
}

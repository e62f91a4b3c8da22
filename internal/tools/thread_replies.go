package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/slack-mcp-gateway/slack-mcp-gateway/internal/resolve"
	"github.com/slack-mcp-gateway/slack-mcp-gateway/pkg/types"
)

// GetThreadRepliesHandler handles the get_thread_replies MCP tool requests.
type GetThreadRepliesHandler struct {
	clients ClientProvider
}

// NewGetThreadRepliesHandler creates a new GetThreadRepliesHandler.
func NewGetThreadRepliesHandler(clients ClientProvider) *GetThreadRepliesHandler {
	return &GetThreadRepliesHandler{clients: clients}
}

// Tool returns the MCP tool definition for get_thread_replies.
func (h *GetThreadRepliesHandler) Tool() mcp.Tool {
	return mcp.NewTool("get_thread_replies",
		mcp.WithDescription("Read all messages in a thread, including the parent message. "+
			"The channel may be a conversation ID, '#channel-name', or a user reference."),
		mcp.WithString("channel",
			mcp.Required(),
			mcp.Description("Conversation ID, '#channel-name', or user reference."),
		),
		mcp.WithString("thread_ts",
			mcp.Required(),
			mcp.Description("Timestamp of the thread's parent message (Slack API format)."),
		),
	)
}

// Handle processes a get_thread_replies tool call.
func (h *GetThreadRepliesHandler) Handle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	channel := stringArg(request, "channel", "")
	if channel == "" {
		return mcp.NewToolResultError("missing required argument 'channel'"), nil
	}
	threadTS := stringArg(request, "thread_ts", "")
	if threadTS == "" {
		return mcp.NewToolResultError("missing required argument 'thread_ts'"), nil
	}

	client, err := h.clients.ClientFor(ctx)
	if err != nil {
		return errorResult("get thread replies", err), nil
	}

	target, err := newTargetBuilder(client).Build(ctx, channel)
	if err != nil {
		return errorResult("get thread replies", err), nil
	}

	thread, err := client.GetThread(ctx, target.ConversationID, threadTS)
	if err != nil {
		return errorResult("get thread replies", err), nil
	}

	resolve.EnrichAuthors(ctx, client, thread)

	return jsonResult(&types.ListMessagesResult{
		ChannelID: target.ConversationID,
		Messages:  thread,
	})
}

// HandleFunc returns a function that can be used directly as an MCP tool handler.
func (h *GetThreadRepliesHandler) HandleFunc() func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.Handle
}

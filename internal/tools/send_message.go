package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/slack-mcp-gateway/slack-mcp-gateway/pkg/types"
)

// SendMessageHandler handles the send_message MCP tool requests.
// The channel argument is routed through the target builder, so a raw
// conversation ID, a '#channel' name, or any user reference all work; user
// references are resolved and delivered as direct messages.
type SendMessageHandler struct {
	clients ClientProvider
}

// NewSendMessageHandler creates a new SendMessageHandler.
func NewSendMessageHandler(clients ClientProvider) *SendMessageHandler {
	return &SendMessageHandler{clients: clients}
}

// Tool returns the MCP tool definition for send_message.
func (h *SendMessageHandler) Tool() mcp.Tool {
	return mcp.NewTool("send_message",
		mcp.WithDescription("Send a message to a channel or user. The destination may be a "+
			"conversation ID ('C01234567'), a channel name ('#general'), or a user reference "+
			"('@ada', 'Ada Lovelace', 'U01234567'); user references open a direct message. "+
			"If a user reference is ambiguous, the matching candidates are returned and nothing is sent."),
		mcp.WithString("channel",
			mcp.Required(),
			mcp.Description("Destination: conversation ID, '#channel-name', or user reference."),
		),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Message text to send."),
		),
		mcp.WithString("thread_ts",
			mcp.Description("Timestamp of a parent message to reply in its thread."),
		),
	)
}

// Handle processes a send_message tool call. Resolution failures are
// reported before anything is posted; no message is ever sent to a guessed
// recipient.
func (h *SendMessageHandler) Handle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	channel := stringArg(request, "channel", "")
	if channel == "" {
		return mcp.NewToolResultError("missing required argument 'channel'"), nil
	}
	text := stringArg(request, "text", "")
	if text == "" {
		return mcp.NewToolResultError("missing required argument 'text'"), nil
	}

	client, err := h.clients.ClientFor(ctx)
	if err != nil {
		return errorResult("send message", err), nil
	}

	target, err := newTargetBuilder(client).Build(ctx, channel)
	if err != nil {
		return errorResult("send message", err), nil
	}

	sent, err := client.PostMessage(ctx, target.ConversationID, text, stringArg(request, "thread_ts", ""))
	if err != nil {
		return errorResult("send message", err), nil
	}

	result := struct {
		types.SendMessageResult
		// Recipient is set when the destination was a resolved user.
		Recipient *types.UserInfo `json:"recipient,omitempty"`
	}{SendMessageResult: *sent, Recipient: target.User}

	return jsonResult(&result)
}

// HandleFunc returns a function that can be used directly as an MCP tool handler.
func (h *SendMessageHandler) HandleFunc() func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.Handle
}

package tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// AddReactionHandler handles the add_reaction MCP tool requests.
type AddReactionHandler struct {
	clients ClientProvider
}

// NewAddReactionHandler creates a new AddReactionHandler.
func NewAddReactionHandler(clients ClientProvider) *AddReactionHandler {
	return &AddReactionHandler{clients: clients}
}

// Tool returns the MCP tool definition for add_reaction.
func (h *AddReactionHandler) Tool() mcp.Tool {
	return mcp.NewTool("add_reaction",
		mcp.WithDescription("Add an emoji reaction to a message. The channel may be a "+
			"conversation ID, '#channel-name', or a user reference."),
		mcp.WithString("channel",
			mcp.Required(),
			mcp.Description("Conversation ID, '#channel-name', or user reference."),
		),
		mcp.WithString("timestamp",
			mcp.Required(),
			mcp.Description("Timestamp of the message to react to (Slack API format)."),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Emoji name, with or without colons, e.g. 'thumbsup' or ':thumbsup:'."),
		),
	)
}

// Handle processes an add_reaction tool call.
func (h *AddReactionHandler) Handle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	channel := stringArg(request, "channel", "")
	if channel == "" {
		return mcp.NewToolResultError("missing required argument 'channel'"), nil
	}
	timestamp := stringArg(request, "timestamp", "")
	if timestamp == "" {
		return mcp.NewToolResultError("missing required argument 'timestamp'"), nil
	}
	name := strings.Trim(stringArg(request, "name", ""), ":")
	if name == "" {
		return mcp.NewToolResultError("missing required argument 'name'"), nil
	}

	client, err := h.clients.ClientFor(ctx)
	if err != nil {
		return errorResult("add reaction", err), nil
	}

	target, err := newTargetBuilder(client).Build(ctx, channel)
	if err != nil {
		return errorResult("add reaction", err), nil
	}

	if err := client.AddReaction(ctx, name, target.ConversationID, timestamp); err != nil {
		return errorResult("add reaction", err), nil
	}

	return jsonResult(struct {
		OK        bool   `json:"ok"`
		ChannelID string `json:"channel_id"`
		Timestamp string `json:"timestamp"`
		Name      string `json:"name"`
	}{OK: true, ChannelID: target.ConversationID, Timestamp: timestamp, Name: name})
}

// HandleFunc returns a function that can be used directly as an MCP tool handler.
func (h *AddReactionHandler) HandleFunc() func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.Handle
}

package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/slack-mcp-gateway/slack-mcp-gateway/internal/resolve"
	slackclient "github.com/slack-mcp-gateway/slack-mcp-gateway/internal/slack"
	"github.com/slack-mcp-gateway/slack-mcp-gateway/internal/urlparser"
	"github.com/slack-mcp-gateway/slack-mcp-gateway/pkg/types"
)

// ReadMessageHandler handles the read_message MCP tool requests.
// It parses Slack URLs, retrieves messages, and optionally fetches thread
// replies. Authors and mentioned users are enriched with profile data;
// failed lookups degrade to the raw user ID.
type ReadMessageHandler struct {
	clients ClientProvider
}

// NewReadMessageHandler creates a new ReadMessageHandler.
func NewReadMessageHandler(clients ClientProvider) *ReadMessageHandler {
	return &ReadMessageHandler{clients: clients}
}

// Tool returns the MCP tool definition for read_message.
func (h *ReadMessageHandler) Tool() mcp.Tool {
	return mcp.NewTool("read_message",
		mcp.WithDescription("Read a Slack message and its thread by URL. "+
			"Provide a Slack message URL to retrieve the message content, author, "+
			"timestamp, and any thread replies."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("Slack message or thread URL to read. "+
				"Format: https://workspace.slack.com/archives/{channel_id}/p{timestamp}"),
		),
	)
}

// Handle processes a read_message tool call. It parses the Slack URL,
// retrieves the message, and fetches the thread if applicable.
func (h *ReadMessageHandler) Handle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url := stringArg(request, "url", "")
	if url == "" {
		return mcp.NewToolResultError("missing required argument 'url'"), nil
	}

	client, err := h.clients.ClientFor(ctx)
	if err != nil {
		return errorResult("read message", err), nil
	}

	parsedURL, err := urlparser.Parse(url)
	if err != nil {
		return errorResult("read message", err), nil
	}

	message, err := client.GetMessage(ctx, parsedURL.ChannelID, parsedURL.Timestamp)
	if err != nil {
		return errorResult("read message", err), nil
	}

	result := &types.ReadMessageResult{
		Message:   *message,
		ChannelID: parsedURL.ChannelID,
	}

	// Fetch the thread when the URL points into one, or when the message is
	// a parent with replies.
	if parsedURL.IsThread || client.HasThread(message) {
		threadTS := parsedURL.ThreadTS
		if threadTS == "" {
			threadTS = message.Timestamp
		}

		thread, err := client.GetThread(ctx, parsedURL.ChannelID, threadTS)
		if err != nil {
			// Partial result: the message itself was retrieved, so return it
			// with a note instead of failing the whole call.
			only := []types.Message{result.Message}
			resolve.EnrichAuthors(ctx, client, only)
			result.Message = only[0]
			return h.partialResult(result, err), nil
		}
		result.Thread = thread
	}

	// Enrich the primary message and every thread message in one pass.
	all := append([]types.Message{result.Message}, result.Thread...)
	resolve.EnrichAuthors(ctx, client, all)
	result.Message = all[0]
	result.Thread = all[1:]
	if len(result.Thread) == 0 {
		result.Thread = nil
	}

	result.UserMapping = h.mentionMapping(ctx, client, result)

	return jsonResult(result)
}

// partialResult returns the message with a note about the thread fetch
// failure appended.
func (h *ReadMessageHandler) partialResult(result *types.ReadMessageResult, threadErr error) *mcp.CallToolResult {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode partial result: %s", err.Error()))
	}
	return mcp.NewToolResultText(fmt.Sprintf(
		"%s\n\nNote: Failed to fetch thread replies: %s",
		string(resultJSON), threadErr.Error()))
}

// mentionMapping collects user IDs mentioned in the message and thread and
// resolves them to profiles. Users that cannot be looked up are omitted.
func (h *ReadMessageHandler) mentionMapping(ctx context.Context, client slackclient.ClientInterface, result *types.ReadMessageResult) map[string]types.UserInfo {
	ids := client.ExtractMentions(result.Message.Text)
	for _, msg := range result.Thread {
		ids = append(ids, client.ExtractMentions(msg.Text)...)
	}
	return resolve.FetchUsers(ctx, client, ids)
}

// HandleFunc returns a function that can be used directly as an MCP tool handler.
func (h *ReadMessageHandler) HandleFunc() func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.Handle
}

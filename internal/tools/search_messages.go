package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	slackclient "github.com/slack-mcp-gateway/slack-mcp-gateway/internal/slack"
	"github.com/slack-mcp-gateway/slack-mcp-gateway/pkg/types"
)

// maxSearchCount is the largest search result page the tool will request.
const maxSearchCount = 100

// SearchMessagesHandler handles the search_messages MCP tool requests.
// Workspace search runs on the user token; without one configured the tool
// reports how to set it up rather than failing opaquely.
type SearchMessagesHandler struct {
	clients ClientProvider
}

// NewSearchMessagesHandler creates a new SearchMessagesHandler.
func NewSearchMessagesHandler(clients ClientProvider) *SearchMessagesHandler {
	return &SearchMessagesHandler{clients: clients}
}

// Tool returns the MCP tool definition for search_messages.
func (h *SearchMessagesHandler) Tool() mcp.Tool {
	return mcp.NewTool("search_messages",
		mcp.WithDescription("Search for messages across the Slack workspace. "+
			"Supports Slack search modifiers such as 'in:#channel', 'from:@user', and quoted phrases."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search query, including any Slack search modifiers."),
		),
		mcp.WithNumber("count",
			mcp.Description("Maximum matches to return (1-100, default 20)."),
		),
		mcp.WithString("sort",
			mcp.Description("Sort order: 'score' (default) or 'timestamp'."),
		),
	)
}

// Handle processes a search_messages tool call.
func (h *SearchMessagesHandler) Handle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := stringArg(request, "query", "")
	if query == "" {
		return mcp.NewToolResultError("missing required argument 'query'"), nil
	}

	count := clampCount(intArg(request, "count", 20), maxSearchCount)

	// Invalid sort values fall back to relevance ordering.
	sort := stringArg(request, "sort", "score")
	if sort != "score" && sort != "timestamp" {
		sort = "score"
	}

	client, err := h.clients.ClientFor(ctx)
	if err != nil {
		return errorResult("search messages", err), nil
	}

	matches, total, err := client.SearchMessages(ctx, query, count, sort)
	if err != nil {
		return errorResult("search messages", err), nil
	}

	for i := range matches {
		h.enrichMatch(ctx, client, &matches[i])
	}

	result := &types.SearchMessagesResult{
		Query:   query,
		Total:   total,
		Matches: matches,
	}

	// Best-effort: identify the searching user so callers can distinguish
	// their own messages in the results.
	if currentUser, err := client.GetCurrentUser(ctx); err == nil && currentUser != nil {
		result.CurrentUser = currentUser
	}

	return jsonResult(result)
}

// enrichMatch populates author name fields on a search match. A failed
// lookup leaves the match with only the raw user ID.
func (h *SearchMessagesHandler) enrichMatch(ctx context.Context, client slackclient.ClientInterface, match *types.SearchMatch) {
	if match.User == "" {
		return
	}
	info, err := client.GetUserInfo(ctx, match.User)
	if err != nil || info == nil {
		return
	}
	match.UserName = info.Name
	match.DisplayName = info.DisplayName
	match.RealName = info.RealName
}

// HandleFunc returns a function that can be used directly as an MCP tool handler.
func (h *SearchMessagesHandler) HandleFunc() func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.Handle
}

package tools

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/slack-mcp-gateway/slack-mcp-gateway/internal/resolve"
	slackclient "github.com/slack-mcp-gateway/slack-mcp-gateway/internal/slack"
	"github.com/slack-mcp-gateway/slack-mcp-gateway/pkg/types"
)

// newTargetBuilder wires a resolver and DM opener around a per-call client.
// Resolvers and targets live for a single tool invocation; nothing is cached
// between calls.
func newTargetBuilder(client slackclient.ClientInterface) *resolve.TargetBuilder {
	return resolve.NewTargetBuilder(resolve.NewResolver(client), client)
}

// jsonResult encodes v as a successful JSON tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode result: %s", err.Error())), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// resolutionFailure is the structured payload returned when user resolution
// fails. The candidate list survives intact so callers can render a
// disambiguation prompt and re-query by exact @username or user ID.
type resolutionFailure struct {
	Error      string           `json:"error"`
	Query      string           `json:"query"`
	Candidates []types.UserInfo `json:"candidates,omitempty"`
	Message    string           `json:"message"`
}

// errorResult converts an error into an MCP tool error result with a helpful,
// user-facing message. Resolution failures keep their structure; Slack API
// failures get the guidance the raw error lacks. action names the operation
// that failed, e.g. "send message".
func errorResult(action string, err error) *mcp.CallToolResult {
	var resErr *resolve.ResolutionError
	if errors.As(err, &resErr) {
		payload, jsonErr := json.Marshal(resolutionFailure{
			Error:      resErr.Code,
			Query:      resErr.Query,
			Candidates: resErr.Candidates,
			Message:    resErr.Error(),
		})
		if jsonErr != nil {
			return mcp.NewToolResultError(resErr.Error())
		}
		return mcp.NewToolResultError(string(payload))
	}

	if slackclient.IsUserTokenNotConfigured(err) {
		return mcp.NewToolResultError(
			"SLACK_USER_TOKEN not configured. Workspace search requires a user token (xoxp-) " +
				"with the search:read scope. Please set the SLACK_USER_TOKEN environment variable.")
	}
	if slackclient.IsRateLimited(err) {
		return mcp.NewToolResultError(
			"Rate limit exceeded. Slack limits API requests. Please wait and try again.")
	}
	if slackclient.IsInvalidToken(err) {
		return mcp.NewToolResultError(
			"Authentication failed. Please check that the Slack token is valid and not expired.")
	}
	if slackclient.IsChannelNotFound(err) {
		return mcp.NewToolResultError(
			"Channel not found. The channel may have been deleted, or the ID is incorrect.")
	}
	if slackclient.IsNotInChannel(err) {
		return mcp.NewToolResultError(
			"The bot is not a member of this channel. Please invite the bot to the channel first.")
	}
	if slackclient.IsMessageNotFound(err) {
		return mcp.NewToolResultError(
			"Message not found. The message may have been deleted, or the timestamp is incorrect.")
	}
	if slackclient.IsPermissionDenied(err) {
		return mcp.NewToolResultError(
			"Permission denied. The token may lack required scopes or the channel is archived.")
	}

	switch slackclient.GetErrorCode(err) {
	case types.ErrCodeDirectoryUnavailable:
		return mcp.NewToolResultError(fmt.Sprintf(
			"The workspace user directory could not be listed, so the identifier was not resolved. "+
				"No partial match was attempted.\n\nDetails: %s", err.Error()))
	case types.ErrCodeConversationOpenFailed:
		// The message already names the resolved user; pass it through.
		return mcp.NewToolResultError(err.Error())
	case types.ErrCodeInvalidURL:
		return mcp.NewToolResultError(fmt.Sprintf(
			"Invalid Slack URL format. Expected: https://workspace.slack.com/archives/{channel_id}/p{timestamp}\n\nDetails: %s",
			err.Error()))
	}

	return mcp.NewToolResultError(fmt.Sprintf("Failed to %s: %s", action, err.Error()))
}

// stringArg extracts a named string argument from a tool call request,
// falling back to defaultVal when the argument is absent or not a string.
func stringArg(req mcp.CallToolRequest, name, defaultVal string) string {
	args := req.GetArguments()
	if args == nil {
		return defaultVal
	}
	v, ok := args[name]
	if !ok {
		return defaultVal
	}
	s, ok := v.(string)
	if !ok {
		return defaultVal
	}
	return s
}

// intArg extracts a named int argument from a tool call request. The MCP
// protocol serialises numbers as float64, so both forms are accepted.
func intArg(req mcp.CallToolRequest, name string, defaultVal int) int {
	args := req.GetArguments()
	if args == nil {
		return defaultVal
	}
	v, ok := args[name]
	if !ok {
		return defaultVal
	}
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	}
	return defaultVal
}

// boolArg extracts a named bool argument from a tool call request.
func boolArg(req mcp.CallToolRequest, name string, defaultVal bool) bool {
	args := req.GetArguments()
	if args == nil {
		return defaultVal
	}
	v, ok := args[name]
	if !ok {
		return defaultVal
	}
	b, ok := v.(bool)
	if !ok {
		return defaultVal
	}
	return b
}

// clampCount bounds a page-size argument to [1, max].
func clampCount(count, max int) int {
	if count < 1 {
		return 1
	}
	if count > max {
		return max
	}
	return count
}

package tools

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"

	slackclient "github.com/slack-mcp-gateway/slack-mcp-gateway/internal/slack"
	"github.com/slack-mcp-gateway/slack-mcp-gateway/pkg/types"
)

// mockSlackClient is a function-field test double for the Slack client
// interface. Unset methods return a typed not-configured error so a test
// fails loudly when a handler makes an unexpected call.
type mockSlackClient struct {
	getMessage        func(ctx context.Context, channelID, timestamp string) (*types.Message, error)
	getThread         func(ctx context.Context, channelID, threadTS string) ([]types.Message, error)
	getChannelHistory func(ctx context.Context, channelID string, limit int, oldest, latest, cursor string) ([]types.Message, bool, string, error)
	getUserInfo       func(ctx context.Context, userID string) (*types.UserInfo, error)
	getUserByEmail    func(ctx context.Context, email string) (*types.UserInfo, error)
	getUserPresence   func(ctx context.Context, userID string) (types.Presence, error)
	getCurrentUser    func(ctx context.Context) (*types.UserInfo, error)
	usersPage         func(ctx context.Context, cursor string) ([]types.UserInfo, string, error)
	openDM            func(ctx context.Context, userID string) (string, error)
	listChannels      func(ctx context.Context, cursor string, limit int) ([]types.Channel, string, error)
	getChannelInfo    func(ctx context.Context, channelID string) (*types.Channel, error)
	postMessage       func(ctx context.Context, channelID, text, threadTS string) (*types.SendMessageResult, error)
	addReaction       func(ctx context.Context, name, channelID, timestamp string) error
	listFiles         func(ctx context.Context, channelID string, count int) ([]types.File, error)
	getFileInfo       func(ctx context.Context, fileID string) (*types.File, error)
	searchMessages    func(ctx context.Context, query string, count int, sort string) ([]types.SearchMatch, int, error)
	extractMentions   func(text string) []string

	// Call counters for interaction assertions.
	usersPageCalls int
	openDMCalls    int
	postCalls      int
}

func notConfigured(method string) *types.SlackError {
	return types.NewSlackError("mock_not_configured", "mock: "+method+" not configured")
}

func (m *mockSlackClient) GetMessage(ctx context.Context, channelID, timestamp string) (*types.Message, error) {
	if m.getMessage != nil {
		return m.getMessage(ctx, channelID, timestamp)
	}
	return nil, notConfigured("GetMessage")
}

func (m *mockSlackClient) GetThread(ctx context.Context, channelID, threadTS string) ([]types.Message, error) {
	if m.getThread != nil {
		return m.getThread(ctx, channelID, threadTS)
	}
	return nil, notConfigured("GetThread")
}

func (m *mockSlackClient) GetChannelHistory(ctx context.Context, channelID string, limit int, oldest, latest, cursor string) ([]types.Message, bool, string, error) {
	if m.getChannelHistory != nil {
		return m.getChannelHistory(ctx, channelID, limit, oldest, latest, cursor)
	}
	return nil, false, "", notConfigured("GetChannelHistory")
}

func (m *mockSlackClient) HasThread(message *types.Message) bool {
	return message != nil && message.ReplyCount > 0
}

func (m *mockSlackClient) GetUserInfo(ctx context.Context, userID string) (*types.UserInfo, error) {
	if m.getUserInfo != nil {
		return m.getUserInfo(ctx, userID)
	}
	return nil, types.NewSlackError(types.ErrCodeUserNotFound, "mock: user "+userID+" not found")
}

func (m *mockSlackClient) GetUserByEmail(ctx context.Context, email string) (*types.UserInfo, error) {
	if m.getUserByEmail != nil {
		return m.getUserByEmail(ctx, email)
	}
	return nil, notConfigured("GetUserByEmail")
}

func (m *mockSlackClient) GetUserPresence(ctx context.Context, userID string) (types.Presence, error) {
	if m.getUserPresence != nil {
		return m.getUserPresence(ctx, userID)
	}
	return types.PresenceUnknown, notConfigured("GetUserPresence")
}

func (m *mockSlackClient) GetCurrentUser(ctx context.Context) (*types.UserInfo, error) {
	if m.getCurrentUser != nil {
		return m.getCurrentUser(ctx)
	}
	return nil, notConfigured("GetCurrentUser")
}

func (m *mockSlackClient) UsersPage(ctx context.Context, cursor string) ([]types.UserInfo, string, error) {
	m.usersPageCalls++
	if m.usersPage != nil {
		return m.usersPage(ctx, cursor)
	}
	return nil, "", nil
}

func (m *mockSlackClient) OpenDM(ctx context.Context, userID string) (string, error) {
	m.openDMCalls++
	if m.openDM != nil {
		return m.openDM(ctx, userID)
	}
	return "", notConfigured("OpenDM")
}

func (m *mockSlackClient) ListChannels(ctx context.Context, cursor string, limit int) ([]types.Channel, string, error) {
	if m.listChannels != nil {
		return m.listChannels(ctx, cursor, limit)
	}
	return nil, "", notConfigured("ListChannels")
}

func (m *mockSlackClient) GetChannelInfo(ctx context.Context, channelID string) (*types.Channel, error) {
	if m.getChannelInfo != nil {
		return m.getChannelInfo(ctx, channelID)
	}
	return nil, notConfigured("GetChannelInfo")
}

func (m *mockSlackClient) PostMessage(ctx context.Context, channelID, text, threadTS string) (*types.SendMessageResult, error) {
	m.postCalls++
	if m.postMessage != nil {
		return m.postMessage(ctx, channelID, text, threadTS)
	}
	return nil, notConfigured("PostMessage")
}

func (m *mockSlackClient) AddReaction(ctx context.Context, name, channelID, timestamp string) error {
	if m.addReaction != nil {
		return m.addReaction(ctx, name, channelID, timestamp)
	}
	return notConfigured("AddReaction")
}

func (m *mockSlackClient) ListFiles(ctx context.Context, channelID string, count int) ([]types.File, error) {
	if m.listFiles != nil {
		return m.listFiles(ctx, channelID, count)
	}
	return nil, notConfigured("ListFiles")
}

func (m *mockSlackClient) GetFileInfo(ctx context.Context, fileID string) (*types.File, error) {
	if m.getFileInfo != nil {
		return m.getFileInfo(ctx, fileID)
	}
	return nil, notConfigured("GetFileInfo")
}

func (m *mockSlackClient) SearchMessages(ctx context.Context, query string, count int, sort string) ([]types.SearchMatch, int, error) {
	if m.searchMessages != nil {
		return m.searchMessages(ctx, query, count, sort)
	}
	return nil, 0, slackclient.ErrUserTokenNotConfigured
}

func (m *mockSlackClient) ExtractMentions(text string) []string {
	if m.extractMentions != nil {
		return m.extractMentions(text)
	}
	return nil
}

var _ slackclient.ClientInterface = (*mockSlackClient)(nil)

// provider wraps a mock client in a StaticProvider.
func provider(m *mockSlackClient) ClientProvider {
	return &StaticProvider{Client: m}
}

// toolReq builds a CallToolRequest with the given argument map.
func toolReq(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// firstText returns the text of the first TextContent in the result.
func firstText(t *testing.T, r *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, r)
	require.NotEmpty(t, r.Content, "result has no content")
	txt, ok := r.Content[0].(mcp.TextContent)
	require.True(t, ok, "first content item is not TextContent")
	return txt.Text
}

// directoryUser builds an active profile for directory-driven tests.
func directoryUser(id, name, real, display string) types.UserInfo {
	return types.UserInfo{ID: id, Name: name, RealName: real, DisplayName: display}
}

// singlePageDirectory configures the mock to serve the given users as one
// directory page and to answer GetUserInfo lookups from the same set.
func singlePageDirectory(m *mockSlackClient, users ...types.UserInfo) {
	m.usersPage = func(ctx context.Context, cursor string) ([]types.UserInfo, string, error) {
		if cursor != "" {
			return nil, "", nil
		}
		return users, "", nil
	}
	m.getUserInfo = func(ctx context.Context, userID string) (*types.UserInfo, error) {
		for i := range users {
			if users[i].ID == userID {
				u := users[i]
				return &u, nil
			}
		}
		return nil, types.NewSlackError(types.ErrCodeUserNotFound, "mock: user "+userID+" not found")
	}
}

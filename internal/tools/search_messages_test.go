package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slack-mcp-gateway/slack-mcp-gateway/pkg/types"
)

func TestSearchMessagesHandler_Success(t *testing.T) {
	mock := &mockSlackClient{
		searchMessages: func(ctx context.Context, query string, count int, sort string) ([]types.SearchMatch, int, error) {
			assert.Equal(t, "deploy failed", query)
			assert.Equal(t, 20, count, "default count")
			assert.Equal(t, "score", sort, "default sort")
			return []types.SearchMatch{
				{User: "U000001", Text: "deploy failed on prod", Timestamp: "1700000000.000100", ChannelID: "C01234567"},
			}, 1, nil
		},
		getUserInfo: func(ctx context.Context, userID string) (*types.UserInfo, error) {
			return &types.UserInfo{ID: userID, Name: "ada", DisplayName: "Ada", RealName: "Ada Lovelace"}, nil
		},
		getCurrentUser: func(ctx context.Context) (*types.UserInfo, error) {
			return &types.UserInfo{ID: "U0SEARCHER", Name: "searcher"}, nil
		},
	}

	h := NewSearchMessagesHandler(provider(mock))
	result, err := h.Handle(context.Background(), toolReq(map[string]any{"query": "deploy failed"}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var got types.SearchMessagesResult
	require.NoError(t, json.Unmarshal([]byte(firstText(t, result)), &got))
	assert.Equal(t, 1, got.Total)
	require.Len(t, got.Matches, 1)
	assert.Equal(t, "ada", got.Matches[0].UserName, "match authors are enriched")
	require.NotNil(t, got.CurrentUser)
	assert.Equal(t, "U0SEARCHER", got.CurrentUser.ID)
}

func TestSearchMessagesHandler_NoUserToken(t *testing.T) {
	// The mock's default SearchMessages reports a missing user token.
	h := NewSearchMessagesHandler(provider(&mockSlackClient{}))

	result, err := h.Handle(context.Background(), toolReq(map[string]any{"query": "anything"}))
	require.NoError(t, err)
	require.True(t, result.IsError)
	assert.Contains(t, firstText(t, result), "SLACK_USER_TOKEN")
}

func TestSearchMessagesHandler_ArgumentClamping(t *testing.T) {
	mock := &mockSlackClient{
		searchMessages: func(ctx context.Context, query string, count int, sort string) ([]types.SearchMatch, int, error) {
			assert.Equal(t, 100, count, "count is clamped to the maximum")
			assert.Equal(t, "score", sort, "invalid sort falls back to relevance")
			return nil, 0, nil
		},
		getCurrentUser: func(ctx context.Context) (*types.UserInfo, error) {
			return nil, types.NewSlackError(types.ErrCodeInvalidToken, "no auth")
		},
	}

	h := NewSearchMessagesHandler(provider(mock))
	result, err := h.Handle(context.Background(), toolReq(map[string]any{
		"query": "q",
		"count": 999,
		"sort":  "sideways",
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError, "a failed current-user lookup does not fail the search")
}

func TestSearchMessagesHandler_MissingQuery(t *testing.T) {
	h := NewSearchMessagesHandler(provider(&mockSlackClient{}))

	result, err := h.Handle(context.Background(), toolReq(map[string]any{}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

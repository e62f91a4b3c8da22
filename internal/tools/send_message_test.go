package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slack-mcp-gateway/slack-mcp-gateway/pkg/types"
)

func TestSendMessageHandler_ChannelIDPassthrough(t *testing.T) {
	mock := &mockSlackClient{
		postMessage: func(ctx context.Context, channelID, text, threadTS string) (*types.SendMessageResult, error) {
			assert.Equal(t, "C01234567", channelID)
			assert.Equal(t, "hello", text)
			assert.Empty(t, threadTS)
			return &types.SendMessageResult{ChannelID: channelID, Timestamp: "1700000000.000100"}, nil
		},
	}

	h := NewSendMessageHandler(provider(mock))
	result, err := h.Handle(context.Background(), toolReq(map[string]any{
		"channel": "C01234567",
		"text":    "hello",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	// A raw conversation ID never touches the directory or opens a DM.
	assert.Zero(t, mock.usersPageCalls)
	assert.Zero(t, mock.openDMCalls)
}

func TestSendMessageHandler_ChannelNameStripsPrefix(t *testing.T) {
	mock := &mockSlackClient{
		postMessage: func(ctx context.Context, channelID, text, threadTS string) (*types.SendMessageResult, error) {
			assert.Equal(t, "general", channelID, "the '#' prefix is stripped, no existence check")
			return &types.SendMessageResult{ChannelID: "C0GENERAL", Timestamp: "1700000000.000200"}, nil
		},
	}

	h := NewSendMessageHandler(provider(mock))
	result, err := h.Handle(context.Background(), toolReq(map[string]any{
		"channel": "#general",
		"text":    "hi all",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Zero(t, mock.usersPageCalls)
	assert.Zero(t, mock.openDMCalls)
}

func TestSendMessageHandler_UserRefOpensDM(t *testing.T) {
	mock := &mockSlackClient{}
	singlePageDirectory(mock,
		directoryUser("U000001", "ada", "Ada Lovelace", "ada"),
		directoryUser("U000002", "grace", "Grace Hopper", "grace"),
	)
	mock.openDM = func(ctx context.Context, userID string) (string, error) {
		assert.Equal(t, "U000001", userID)
		return "D0DMADA01", nil
	}
	mock.postMessage = func(ctx context.Context, channelID, text, threadTS string) (*types.SendMessageResult, error) {
		assert.Equal(t, "D0DMADA01", channelID)
		return &types.SendMessageResult{ChannelID: channelID, Timestamp: "1700000000.000300"}, nil
	}

	h := NewSendMessageHandler(provider(mock))
	result, err := h.Handle(context.Background(), toolReq(map[string]any{
		"channel": "@ada",
		"text":    "ping",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Equal(t, 1, mock.openDMCalls)

	var got struct {
		ChannelID string          `json:"channel_id"`
		Recipient *types.UserInfo `json:"recipient"`
	}
	require.NoError(t, json.Unmarshal([]byte(firstText(t, result)), &got))
	assert.Equal(t, "D0DMADA01", got.ChannelID)
	require.NotNil(t, got.Recipient)
	assert.Equal(t, "U000001", got.Recipient.ID)
}

func TestSendMessageHandler_AmbiguousUserSendsNothing(t *testing.T) {
	mock := &mockSlackClient{}
	// Two users share the real name; a case-insensitive query ties them.
	singlePageDirectory(mock,
		directoryUser("U000001", "ada1", "Ada Lovelace", "ada-l"),
		directoryUser("U000002", "ada2", "Ada Lovelace", "ada-k"),
	)

	h := NewSendMessageHandler(provider(mock))
	result, err := h.Handle(context.Background(), toolReq(map[string]any{
		"channel": "Ada Lovelace",
		"text":    "secret",
	}))
	require.NoError(t, err)
	require.True(t, result.IsError)

	// Hard stop: no DM opened, nothing posted.
	assert.Zero(t, mock.openDMCalls)
	assert.Zero(t, mock.postCalls)

	// The candidate list survives as structured JSON, not a bare string.
	var failure resolutionFailure
	require.NoError(t, json.Unmarshal([]byte(firstText(t, result)), &failure))
	assert.Equal(t, types.ErrCodeAmbiguousUser, failure.Error)
	assert.Equal(t, "Ada Lovelace", failure.Query)
	require.Len(t, failure.Candidates, 2)
	assert.Equal(t, "U000001", failure.Candidates[0].ID)
	assert.Equal(t, "U000002", failure.Candidates[1].ID)
}

func TestSendMessageHandler_DMOpenFailurePreservesIdentity(t *testing.T) {
	mock := &mockSlackClient{}
	singlePageDirectory(mock, directoryUser("U000001", "ada", "Ada Lovelace", "ada"))
	mock.openDM = func(ctx context.Context, userID string) (string, error) {
		return "", types.NewSlackError(types.ErrCodePermissionDenied, "cannot open DM")
	}

	h := NewSendMessageHandler(provider(mock))
	result, err := h.Handle(context.Background(), toolReq(map[string]any{
		"channel": "@ada",
		"text":    "ping",
	}))
	require.NoError(t, err)
	require.True(t, result.IsError)
	assert.Zero(t, mock.postCalls)

	text := firstText(t, result)
	assert.Contains(t, text, "@ada", "the resolved identity is reported")
	assert.Contains(t, text, "U000001")
}

func TestSendMessageHandler_MissingArguments(t *testing.T) {
	h := NewSendMessageHandler(provider(&mockSlackClient{}))

	result, err := h.Handle(context.Background(), toolReq(map[string]any{"text": "hello"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)

	result, err = h.Handle(context.Background(), toolReq(map[string]any{"channel": "C01234567"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestSendMessageHandler_ThreadReply(t *testing.T) {
	mock := &mockSlackClient{
		postMessage: func(ctx context.Context, channelID, text, threadTS string) (*types.SendMessageResult, error) {
			assert.Equal(t, "1700000000.000100", threadTS)
			return &types.SendMessageResult{ChannelID: channelID, Timestamp: "1700000000.000500"}, nil
		},
	}

	h := NewSendMessageHandler(provider(mock))
	result, err := h.Handle(context.Background(), toolReq(map[string]any{
		"channel":   "C01234567",
		"text":      "reply",
		"thread_ts": "1700000000.000100",
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
}

// Package slack provides a wrapper around the Slack API client
// for the conversations, users, files, and search surface of the gateway.
package slack

import (
	"context"
	"fmt"
	"regexp"

	"github.com/slack-go/slack"

	"github.com/slack-mcp-gateway/slack-mcp-gateway/pkg/types"
)

// mentionPattern matches Slack user mentions like <@U01234567> or <@U01234567|name>.
var mentionPattern = regexp.MustCompile(`<@(U[A-Z0-9]+)(?:\|[^>]*)?>`)

// Client wraps the Slack API client. The bot token drives all workspace
// operations; the optional user token is only used for workspace search,
// which Slack restricts to user tokens.
type Client struct {
	api    *slack.Client
	search *slack.Client
}

// NewClient creates a new Slack client with the provided bot token.
// userToken may be empty, in which case SearchMessages returns
// ErrUserTokenNotConfigured.
func NewClient(token, userToken string) *Client {
	c := &Client{
		api: slack.New(token),
	}
	if userToken != "" {
		c.search = slack.New(userToken)
	}
	return c
}

// GetMessage retrieves a single message from a Slack channel by its timestamp.
func (c *Client) GetMessage(ctx context.Context, channelID, timestamp string) (*types.Message, error) {
	params := &slack.GetConversationHistoryParameters{
		ChannelID: channelID,
		Oldest:    timestamp,
		Latest:    timestamp,
		Inclusive: true,
		Limit:     1,
	}

	history, err := c.api.GetConversationHistoryContext(ctx, params)
	if err != nil {
		return nil, wrapSlackError(err)
	}

	if !history.Ok {
		return nil, types.NewSlackError(types.ErrCodeMessageNotFound,
			fmt.Sprintf("Slack API error: %s", history.Error))
	}

	if len(history.Messages) == 0 {
		return nil, types.NewSlackError(types.ErrCodeMessageNotFound,
			fmt.Sprintf("message not found in channel %s with timestamp %s", channelID, timestamp))
	}

	msg := history.Messages[0]
	return convertMessage(&msg), nil
}

// GetThread retrieves all messages in a thread, including the parent message.
// It follows the reply cursor until the thread is exhausted.
func (c *Client) GetThread(ctx context.Context, channelID, threadTS string) ([]types.Message, error) {
	params := &slack.GetConversationRepliesParameters{
		ChannelID: channelID,
		Timestamp: threadTS,
	}

	var allMessages []types.Message
	cursor := ""

	for {
		params.Cursor = cursor

		messages, hasMore, nextCursor, err := c.api.GetConversationRepliesContext(ctx, params)
		if err != nil {
			return nil, wrapSlackError(err)
		}

		for i := range messages {
			allMessages = append(allMessages, *convertMessage(&messages[i]))
		}

		if !hasMore {
			break
		}
		cursor = nextCursor
	}

	if len(allMessages) == 0 {
		return nil, types.NewSlackError(types.ErrCodeMessageNotFound,
			fmt.Sprintf("thread not found in channel %s with timestamp %s", channelID, threadTS))
	}

	return allMessages, nil
}

// GetChannelHistory retrieves a page of messages from a conversation.
// Returns the messages, a has-more flag, and the cursor for the next page.
func (c *Client) GetChannelHistory(ctx context.Context, channelID string, limit int, oldest, latest, cursor string) ([]types.Message, bool, string, error) {
	params := &slack.GetConversationHistoryParameters{
		ChannelID: channelID,
		Limit:     limit,
		Oldest:    oldest,
		Latest:    latest,
		Cursor:    cursor,
	}

	history, err := c.api.GetConversationHistoryContext(ctx, params)
	if err != nil {
		return nil, false, "", wrapSlackError(err)
	}
	if !history.Ok {
		return nil, false, "", types.NewSlackError(types.ErrCodeChannelNotFound,
			fmt.Sprintf("Slack API error: %s", history.Error))
	}

	messages := make([]types.Message, 0, len(history.Messages))
	for i := range history.Messages {
		messages = append(messages, *convertMessage(&history.Messages[i]))
	}

	return messages, history.HasMore, history.ResponseMetaData.NextCursor, nil
}

// HasThread checks if a message has thread replies.
// This is determined by checking the ReplyCount field of the message.
func (c *Client) HasThread(message *types.Message) bool {
	return message != nil && message.ReplyCount > 0
}

// GetUserInfo retrieves a single user profile by Slack user ID.
func (c *Client) GetUserInfo(ctx context.Context, userID string) (*types.UserInfo, error) {
	user, err := c.api.GetUserInfoContext(ctx, userID)
	if err != nil {
		return nil, wrapSlackError(err)
	}
	if user == nil {
		return nil, types.NewSlackError(types.ErrCodeUserNotFound,
			fmt.Sprintf("user %s not found", userID))
	}
	return convertUser(user), nil
}

// GetUserByEmail retrieves a single user profile by email address.
func (c *Client) GetUserByEmail(ctx context.Context, email string) (*types.UserInfo, error) {
	user, err := c.api.GetUserByEmailContext(ctx, email)
	if err != nil {
		return nil, wrapSlackError(err)
	}
	if user == nil {
		return nil, types.NewSlackError(types.ErrCodeUserNotFound,
			fmt.Sprintf("no user with email %s", email))
	}
	return convertUser(user), nil
}

// GetUserPresence retrieves the presence of a user.
func (c *Client) GetUserPresence(ctx context.Context, userID string) (types.Presence, error) {
	presence, err := c.api.GetUserPresenceContext(ctx, userID)
	if err != nil {
		return types.PresenceUnknown, wrapSlackError(err)
	}
	switch presence.Presence {
	case "active":
		return types.PresenceActive, nil
	case "away":
		return types.PresenceAway, nil
	default:
		return types.PresenceUnknown, nil
	}
}

// GetCurrentUser retrieves the profile of the authenticated user.
func (c *Client) GetCurrentUser(ctx context.Context) (*types.UserInfo, error) {
	auth, err := c.api.AuthTestContext(ctx)
	if err != nil {
		return nil, wrapSlackError(err)
	}
	return c.GetUserInfo(ctx, auth.UserID)
}

// UsersPage fetches one page of the workspace user listing.
//
// slack-go exhausts the users.list cursor internally, so the real client
// always delivers the complete listing as a single page with an empty next
// cursor. The page contract exists for the resolver's directory, which
// follows cursors sequentially and is exercised page-by-page in tests.
func (c *Client) UsersPage(ctx context.Context, cursor string) ([]types.UserInfo, string, error) {
	if cursor != "" {
		return nil, "", nil
	}
	users, err := c.api.GetUsersContext(ctx)
	if err != nil {
		return nil, "", wrapSlackError(err)
	}
	profiles := make([]types.UserInfo, 0, len(users))
	for i := range users {
		profiles = append(profiles, *convertUser(&users[i]))
	}
	return profiles, "", nil
}

// OpenDM opens (or reuses) a direct-message conversation with the given user
// and returns its conversation ID.
func (c *Client) OpenDM(ctx context.Context, userID string) (string, error) {
	channel, _, _, err := c.api.OpenConversationContext(ctx, &slack.OpenConversationParameters{
		Users: []string{userID},
	})
	if err != nil {
		return "", wrapSlackError(err)
	}
	if channel == nil || channel.ID == "" {
		return "", types.NewSlackError(types.ErrCodeConversationOpenFailed,
			fmt.Sprintf("Slack did not return a conversation for user %s", userID))
	}
	return channel.ID, nil
}

// ListChannels retrieves a page of conversations visible to the token.
func (c *Client) ListChannels(ctx context.Context, cursor string, limit int) ([]types.Channel, string, error) {
	channels, nextCursor, err := c.api.GetConversationsContext(ctx, &slack.GetConversationsParameters{
		Cursor:          cursor,
		Limit:           limit,
		Types:           []string{"public_channel", "private_channel"},
		ExcludeArchived: false,
	})
	if err != nil {
		return nil, "", wrapSlackError(err)
	}

	result := make([]types.Channel, 0, len(channels))
	for i := range channels {
		result = append(result, *convertChannel(&channels[i]))
	}
	return result, nextCursor, nil
}

// GetChannelInfo retrieves details about a single conversation by ID.
func (c *Client) GetChannelInfo(ctx context.Context, channelID string) (*types.Channel, error) {
	channel, err := c.api.GetConversationInfoContext(ctx, &slack.GetConversationInfoInput{
		ChannelID: channelID,
	})
	if err != nil {
		return nil, wrapSlackError(err)
	}
	return convertChannel(channel), nil
}

// PostMessage posts a message to a conversation. threadTS may be empty to
// post a top-level message.
func (c *Client) PostMessage(ctx context.Context, channelID, text, threadTS string) (*types.SendMessageResult, error) {
	opts := []slack.MsgOption{slack.MsgOptionText(text, false)}
	if threadTS != "" {
		opts = append(opts, slack.MsgOptionTS(threadTS))
	}

	channel, timestamp, err := c.api.PostMessageContext(ctx, channelID, opts...)
	if err != nil {
		return nil, wrapSlackError(err)
	}
	return &types.SendMessageResult{
		ChannelID: channel,
		Timestamp: timestamp,
	}, nil
}

// AddReaction adds an emoji reaction to a message.
func (c *Client) AddReaction(ctx context.Context, name, channelID, timestamp string) error {
	if err := c.api.AddReactionContext(ctx, name, slack.NewRefToMessage(channelID, timestamp)); err != nil {
		return wrapSlackError(err)
	}
	return nil
}

// ListFiles retrieves files shared in a conversation.
func (c *Client) ListFiles(ctx context.Context, channelID string, count int) ([]types.File, error) {
	files, _, err := c.api.GetFilesContext(ctx, slack.GetFilesParameters{
		Channel: channelID,
		Count:   count,
	})
	if err != nil {
		return nil, wrapSlackError(err)
	}
	result := make([]types.File, 0, len(files))
	for i := range files {
		result = append(result, *convertFile(&files[i]))
	}
	return result, nil
}

// GetFileInfo retrieves details about a single file by ID.
func (c *Client) GetFileInfo(ctx context.Context, fileID string) (*types.File, error) {
	file, _, _, err := c.api.GetFileInfoContext(ctx, fileID, 0, 0)
	if err != nil {
		return nil, wrapSlackError(err)
	}
	if file == nil {
		return nil, types.NewSlackError(types.ErrCodeMessageNotFound,
			fmt.Sprintf("file %s not found", fileID))
	}
	return convertFile(file), nil
}

// SearchMessages searches the workspace for messages matching the query.
// Requires a user token; returns ErrUserTokenNotConfigured without one.
func (c *Client) SearchMessages(ctx context.Context, query string, count int, sort string) ([]types.SearchMatch, int, error) {
	if c.search == nil {
		return nil, 0, ErrUserTokenNotConfigured
	}

	params := slack.NewSearchParameters()
	params.Count = count
	params.Sort = sort

	results, err := c.search.SearchMessagesContext(ctx, query, params)
	if err != nil {
		return nil, 0, wrapSlackError(err)
	}

	matches := make([]types.SearchMatch, 0, len(results.Matches))
	for _, m := range results.Matches {
		matches = append(matches, types.SearchMatch{
			User:        m.User,
			UserName:    m.Username,
			Text:        m.Text,
			Timestamp:   m.Timestamp,
			ChannelID:   m.Channel.ID,
			ChannelName: m.Channel.Name,
			Permalink:   m.Permalink,
		})
	}
	return matches, results.Total, nil
}

// ExtractMentions returns the user IDs mentioned in the given message text.
func (c *Client) ExtractMentions(text string) []string {
	matches := mentionPattern.FindAllStringSubmatch(text, -1)
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m[1])
	}
	return ids
}

// convertMessage converts a Slack API message to our Message type.
func convertMessage(msg *slack.Message) *types.Message {
	out := &types.Message{
		User:       msg.User,
		Text:       msg.Text,
		Timestamp:  msg.Timestamp,
		ThreadTS:   msg.ThreadTimestamp,
		ReplyCount: msg.ReplyCount,
	}
	for _, r := range msg.Reactions {
		out.Reactions = append(out.Reactions, types.Reaction{
			Name:  r.Name,
			Count: r.Count,
			Users: r.Users,
		})
	}
	return out
}

// convertUser converts a Slack API user to our UserInfo type.
func convertUser(user *slack.User) *types.UserInfo {
	return &types.UserInfo{
		ID:          user.ID,
		Name:        user.Name,
		RealName:    user.Profile.RealName,
		DisplayName: user.Profile.DisplayName,
		Email:       user.Profile.Email,
		IsBot:       user.IsBot,
		IsDeleted:   user.Deleted,
	}
}

// convertChannel converts a Slack API channel to our Channel type.
func convertChannel(ch *slack.Channel) *types.Channel {
	return &types.Channel{
		ID:          ch.ID,
		Name:        ch.Name,
		Topic:       ch.Topic.Value,
		Purpose:     ch.Purpose.Value,
		IsPrivate:   ch.IsPrivate,
		IsIM:        ch.IsIM,
		IsMPIM:      ch.IsMpIM,
		IsArchived:  ch.IsArchived,
		MemberCount: ch.NumMembers,
	}
}

// convertFile converts a Slack API file to our File type.
func convertFile(f *slack.File) *types.File {
	return &types.File{
		ID:         f.ID,
		Name:       f.Name,
		Title:      f.Title,
		Mimetype:   f.Mimetype,
		Size:       f.Size,
		User:       f.User,
		URLPrivate: f.URLPrivate,
		Timestamp:  fmt.Sprintf("%d", int64(f.Created)),
	}
}

// ClientInterface defines the interface for Slack client operations.
// This interface is useful for mocking in tests.
type ClientInterface interface {
	GetMessage(ctx context.Context, channelID, timestamp string) (*types.Message, error)
	GetThread(ctx context.Context, channelID, threadTS string) ([]types.Message, error)
	GetChannelHistory(ctx context.Context, channelID string, limit int, oldest, latest, cursor string) ([]types.Message, bool, string, error)
	HasThread(message *types.Message) bool

	GetUserInfo(ctx context.Context, userID string) (*types.UserInfo, error)
	GetUserByEmail(ctx context.Context, email string) (*types.UserInfo, error)
	GetUserPresence(ctx context.Context, userID string) (types.Presence, error)
	GetCurrentUser(ctx context.Context) (*types.UserInfo, error)
	UsersPage(ctx context.Context, cursor string) ([]types.UserInfo, string, error)
	OpenDM(ctx context.Context, userID string) (string, error)

	ListChannels(ctx context.Context, cursor string, limit int) ([]types.Channel, string, error)
	GetChannelInfo(ctx context.Context, channelID string) (*types.Channel, error)
	PostMessage(ctx context.Context, channelID, text, threadTS string) (*types.SendMessageResult, error)
	AddReaction(ctx context.Context, name, channelID, timestamp string) error
	ListFiles(ctx context.Context, channelID string, count int) ([]types.File, error)
	GetFileInfo(ctx context.Context, fileID string) (*types.File, error)
	SearchMessages(ctx context.Context, query string, count int, sort string) ([]types.SearchMatch, int, error)

	ExtractMentions(text string) []string
}

// Ensure Client implements ClientInterface.
var _ ClientInterface = (*Client)(nil)

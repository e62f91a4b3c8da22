// Package types provides shared type definitions for the Slack MCP gateway.
package types

// Presence describes a user's presence as reported by Slack.
type Presence string

const (
	// PresenceActive indicates the user is currently active.
	PresenceActive Presence = "active"
	// PresenceAway indicates the user is away.
	PresenceAway Presence = "away"
	// PresenceUnknown indicates presence could not be determined.
	PresenceUnknown Presence = "unknown"
)

// UserInfo represents a Slack workspace user profile.
type UserInfo struct {
	// ID is the opaque Slack user identifier (e.g., "U01234567").
	ID string `json:"id"`
	// Name is the unique Slack username (handle).
	Name string `json:"name"`
	// RealName is the user's real name. May be empty.
	RealName string `json:"real_name,omitempty"`
	// DisplayName is the user's display name. May be empty.
	DisplayName string `json:"display_name,omitempty"`
	// Email is the user's email address, if visible to the token.
	Email string `json:"email,omitempty"`
	// IsBot indicates the user is a bot account.
	IsBot bool `json:"is_bot,omitempty"`
	// IsDeleted indicates the account has been deactivated.
	IsDeleted bool `json:"is_deleted,omitempty"`
	// Presence is the user's presence, if it was requested.
	Presence Presence `json:"presence,omitempty"`
}

// Message represents a Slack message.
type Message struct {
	// User is the Slack user ID of the message author.
	User string `json:"user"`
	// UserName is the resolved username of the author, if available.
	UserName string `json:"user_name,omitempty"`
	// DisplayName is the resolved display name of the author, if available.
	DisplayName string `json:"display_name,omitempty"`
	// RealName is the resolved real name of the author, if available.
	RealName string `json:"real_name,omitempty"`
	// Text is the message content.
	Text string `json:"text"`
	// Timestamp is the message timestamp in Slack API format (e.g., "1234567890.123456").
	Timestamp string `json:"timestamp"`
	// ThreadTS is the parent message timestamp if this message is part of a thread.
	// Empty string if the message is not a thread reply.
	ThreadTS string `json:"thread_ts,omitempty"`
	// ReplyCount is the number of replies in the thread (only set on parent messages).
	ReplyCount int `json:"reply_count,omitempty"`
	// Reactions are the emoji reactions attached to the message.
	Reactions []Reaction `json:"reactions,omitempty"`
}

// Reaction represents an emoji reaction on a message.
type Reaction struct {
	// Name is the emoji name without colons (e.g., "thumbsup").
	Name string `json:"name"`
	// Count is the number of users who reacted with this emoji.
	Count int `json:"count"`
	// Users are the user IDs who reacted, as far as Slack reports them.
	Users []string `json:"users,omitempty"`
}

// Channel represents a Slack conversation (public/private channel, IM or MPIM).
type Channel struct {
	// ID is the Slack conversation identifier (e.g., "C01234567" or "D01234567").
	ID string `json:"id"`
	// Name is the channel name without the '#' prefix. Empty for IMs.
	Name string `json:"name,omitempty"`
	// Topic is the channel topic.
	Topic string `json:"topic,omitempty"`
	// Purpose is the channel purpose.
	Purpose string `json:"purpose,omitempty"`
	// IsPrivate indicates a private channel or group.
	IsPrivate bool `json:"is_private,omitempty"`
	// IsIM indicates a direct-message conversation.
	IsIM bool `json:"is_im,omitempty"`
	// IsMPIM indicates a group direct-message conversation.
	IsMPIM bool `json:"is_mpim,omitempty"`
	// IsArchived indicates the channel is archived.
	IsArchived bool `json:"is_archived,omitempty"`
	// MemberCount is the number of members, when Slack reports it.
	MemberCount int `json:"member_count,omitempty"`
}

// File represents a file shared in a Slack conversation.
type File struct {
	// ID is the Slack file identifier (e.g., "F01234567").
	ID string `json:"id"`
	// Name is the file name.
	Name string `json:"name"`
	// Title is the file title, if distinct from the name.
	Title string `json:"title,omitempty"`
	// Mimetype is the file MIME type.
	Mimetype string `json:"mimetype,omitempty"`
	// Size is the file size in bytes.
	Size int `json:"size,omitempty"`
	// User is the user ID of the uploader.
	User string `json:"user,omitempty"`
	// URLPrivate is the token-gated download URL.
	URLPrivate string `json:"url_private,omitempty"`
	// Timestamp is the upload time in Slack API format.
	Timestamp string `json:"timestamp,omitempty"`
}

// SearchMatch represents a single message matched by a workspace search.
type SearchMatch struct {
	// User is the Slack user ID of the message author.
	User string `json:"user"`
	// UserName is the resolved username of the author, if available.
	UserName string `json:"user_name,omitempty"`
	// DisplayName is the resolved display name of the author, if available.
	DisplayName string `json:"display_name,omitempty"`
	// RealName is the resolved real name of the author, if available.
	RealName string `json:"real_name,omitempty"`
	// Text is the matched message content.
	Text string `json:"text"`
	// Timestamp is the message timestamp in Slack API format.
	Timestamp string `json:"timestamp"`
	// ChannelID is the conversation the match was found in.
	ChannelID string `json:"channel_id"`
	// ChannelName is the conversation name, if known.
	ChannelName string `json:"channel_name,omitempty"`
	// Permalink is the message permalink.
	Permalink string `json:"permalink,omitempty"`
}

// ParsedURL contains the components extracted from a Slack message URL.
type ParsedURL struct {
	// ChannelID is the Slack channel identifier (e.g., "C01234567").
	ChannelID string
	// Timestamp is the message timestamp in API format (e.g., "1355517523.000008").
	Timestamp string
	// ThreadTS is the parent thread timestamp, if this URL points to a thread.
	// Empty string for non-thread URLs.
	ThreadTS string
	// IsThread indicates whether this URL points to a threaded message.
	IsThread bool
}

// ReadMessageResult is the output schema for the read_message MCP tool.
type ReadMessageResult struct {
	// Message is the primary message referenced by the URL.
	Message Message `json:"message"`
	// Thread contains all messages in the thread, including the parent.
	// Empty if the message is not part of a thread.
	Thread []Message `json:"thread,omitempty"`
	// ChannelID is the Slack channel where the message was posted.
	ChannelID string `json:"channel_id"`
	// UserMapping maps mentioned user IDs to their profiles.
	UserMapping map[string]UserInfo `json:"user_mapping,omitempty"`
}

// ListMessagesResult is the output schema for the message-listing tools.
type ListMessagesResult struct {
	// ChannelID is the conversation the messages were read from.
	ChannelID string `json:"channel_id"`
	// Messages are the retrieved messages in the order Slack returned them.
	Messages []Message `json:"messages"`
	// HasMore indicates more history is available beyond this page.
	HasMore bool `json:"has_more,omitempty"`
	// NextCursor is the pagination cursor for the next page, if any.
	NextCursor string `json:"next_cursor,omitempty"`
}

// SearchMessagesResult is the output schema for the search_messages MCP tool.
type SearchMessagesResult struct {
	// Query is the search query that produced these matches.
	Query string `json:"query"`
	// Total is the total number of matches Slack reported.
	Total int `json:"total"`
	// Matches are the returned matches.
	Matches []SearchMatch `json:"matches"`
	// CurrentUser is the identity of the searching user, if it could be resolved.
	CurrentUser *UserInfo `json:"current_user,omitempty"`
}

// SendMessageResult is the output schema for the send_message MCP tool.
type SendMessageResult struct {
	// ChannelID is the conversation the message was posted to.
	ChannelID string `json:"channel_id"`
	// Timestamp is the timestamp of the posted message.
	Timestamp string `json:"timestamp"`
}

// SlackError represents an error from the Slack API, URL parsing, or user resolution.
type SlackError struct {
	// Code is a machine-readable error code.
	Code string `json:"code"`
	// Message is a human-readable error description.
	Message string `json:"message"`
}

// Error implements the error interface for SlackError.
func (e *SlackError) Error() string {
	return e.Message
}

// Common error codes for Slack and resolution operations.
const (
	// ErrCodeInvalidURL indicates the provided URL is not a valid Slack message URL.
	ErrCodeInvalidURL = "invalid_url"
	// ErrCodeMessageNotFound indicates the message could not be found.
	ErrCodeMessageNotFound = "message_not_found"
	// ErrCodeChannelNotFound indicates the channel could not be found.
	ErrCodeChannelNotFound = "channel_not_found"
	// ErrCodeNotInChannel indicates the bot is not a member of the channel.
	ErrCodeNotInChannel = "not_in_channel"
	// ErrCodeRateLimited indicates the Slack API rate limit was exceeded.
	ErrCodeRateLimited = "rate_limited"
	// ErrCodeInvalidToken indicates the Slack token is invalid or expired.
	ErrCodeInvalidToken = "invalid_token"
	// ErrCodePermissionDenied indicates the token lacks required permissions.
	ErrCodePermissionDenied = "permission_denied"
	// ErrCodeUserTokenNotConfigured indicates an operation that requires a user
	// token (xoxp-) was attempted without one configured.
	ErrCodeUserTokenNotConfigured = "user_token_not_configured"
	// ErrCodeDirectoryUnavailable indicates the workspace user listing failed.
	ErrCodeDirectoryUnavailable = "directory_unavailable"
	// ErrCodeUserNotFound indicates no user matched the given identifier.
	ErrCodeUserNotFound = "user_not_found"
	// ErrCodeAmbiguousUser indicates multiple users tied for the best match.
	ErrCodeAmbiguousUser = "ambiguous_user"
	// ErrCodeConversationOpenFailed indicates a direct-message conversation
	// could not be opened for a successfully resolved user.
	ErrCodeConversationOpenFailed = "conversation_open_failed"
)

// NewSlackError creates a new SlackError with the given code and message.
func NewSlackError(code, message string) *SlackError {
	return &SlackError{
		Code:    code,
		Message: message,
	}
}

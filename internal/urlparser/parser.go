// Package urlparser extracts channel and timestamp coordinates from Slack
// message URLs.
package urlparser

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/slack-mcp-gateway/slack-mcp-gateway/pkg/types"
)

// messageURLPattern matches Slack archive URLs:
// https://{workspace}.slack.com/archives/{conversation_id}/p{timestamp}
var messageURLPattern = regexp.MustCompile(`^https://[^/]+\.slack\.com/archives/([A-Z0-9]+)/p(\d+)$`)

// Parse extracts the conversation ID and timestamps from a Slack message URL.
// Both plain message URLs and thread URLs (with a thread_ts query parameter)
// are supported.
func Parse(slackURL string) (*types.ParsedURL, error) {
	if slackURL == "" {
		return nil, types.NewSlackError(types.ErrCodeInvalidURL, "URL cannot be empty")
	}

	parsed, err := url.Parse(slackURL)
	if err != nil {
		return nil, types.NewSlackError(types.ErrCodeInvalidURL,
			fmt.Sprintf("failed to parse URL: %v", err))
	}
	if !strings.HasSuffix(parsed.Host, ".slack.com") {
		return nil, types.NewSlackError(types.ErrCodeInvalidURL, "URL must be a slack.com URL")
	}

	// Match against the path without query or fragment.
	base := fmt.Sprintf("%s://%s%s", parsed.Scheme, parsed.Host, parsed.Path)
	matches := messageURLPattern.FindStringSubmatch(base)
	if matches == nil {
		return nil, types.NewSlackError(types.ErrCodeInvalidURL,
			"invalid Slack message URL format. Expected: https://workspace.slack.com/archives/{channel_id}/p{timestamp}")
	}

	timestamp, err := apiTimestamp(matches[2])
	if err != nil {
		return nil, types.NewSlackError(types.ErrCodeInvalidURL, err.Error())
	}

	result := &types.ParsedURL{
		ChannelID: matches[1],
		Timestamp: timestamp,
	}
	if threadTS := parsed.Query().Get("thread_ts"); threadTS != "" {
		result.ThreadTS = threadTS
		result.IsThread = true
	}
	return result, nil
}

// IsValidSlackURL reports whether a URL looks like a Slack message URL
// without fully parsing it.
func IsValidSlackURL(slackURL string) bool {
	parsed, err := url.Parse(slackURL)
	if err != nil || !strings.HasSuffix(parsed.Host, ".slack.com") {
		return false
	}
	base := fmt.Sprintf("%s://%s%s", parsed.Scheme, parsed.Host, parsed.Path)
	return messageURLPattern.MatchString(base)
}

// apiTimestamp converts the 16-digit URL timestamp (10 digits of seconds
// followed by 6 of microseconds) into Slack's API format with a '.' between
// the two parts: 1355517523000008 -> 1355517523.000008.
func apiTimestamp(urlTimestamp string) (string, error) {
	if len(urlTimestamp) != 16 {
		return "", fmt.Errorf("invalid timestamp format: expected 16 digits, got %d", len(urlTimestamp))
	}
	for _, c := range urlTimestamp {
		if c < '0' || c > '9' {
			return "", fmt.Errorf("invalid timestamp format: contains non-digit characters")
		}
	}
	return urlTimestamp[:10] + "." + urlTimestamp[10:], nil
}

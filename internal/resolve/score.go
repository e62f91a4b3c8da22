// Package resolve implements the user-resolution and disambiguation engine:
// turning free-form identifiers (@name, display name, partial name, raw ID,
// #channel) into unambiguous Slack entities, with explicit scored
// disambiguation when multiple candidates match.
package resolve

import (
	"strings"

	"github.com/slack-mcp-gateway/slack-mcp-gateway/pkg/types"
)

// Score tiers for matching a profile field against a query.
// Exact matches always outrank prefix matches, which always outrank
// substring matches; within a tier, username outranks real name, which
// outranks display name, which outranks email.
const (
	scoreUsernameExact    = 100
	scoreRealNameExact    = 90
	scoreDisplayNameExact = 85
	scoreEmailExact       = 80
	scoreUsernamePrefix   = 70
	scoreRealNamePrefix   = 60
	scoreDisplayPrefix    = 55
	scoreUsernameContains = 30
	scoreRealNameContains = 20
	scoreDisplayContains  = 15
	scoreEmailContains    = 5
)

// Normalize prepares a free-form identifier for comparison: the leading '@'
// is stripped, surrounding whitespace trimmed, and the result lower-cased.
func Normalize(query string) string {
	query = strings.TrimSpace(query)
	query = strings.TrimPrefix(query, "@")
	return strings.ToLower(strings.TrimSpace(query))
}

// Score evaluates how well a user profile matches a normalized query.
// The result is the highest tier satisfied by any field; tiers are never
// summed across fields, so a user whose username and real name both echo
// the query scores no higher than one matched on username alone.
// Returns 0 when no field matches; zero-scoring profiles are excluded from
// candidacy by the resolver.
func Score(u *types.UserInfo, query string) int {
	if query == "" {
		return 0
	}

	username := strings.ToLower(u.Name)
	realName := strings.ToLower(u.RealName)
	display := strings.ToLower(u.DisplayName)
	email := strings.ToLower(u.Email)

	switch {
	case username == query:
		return scoreUsernameExact
	case realName != "" && realName == query:
		return scoreRealNameExact
	case display != "" && display == query:
		return scoreDisplayNameExact
	case email != "" && email == query:
		return scoreEmailExact
	case strings.HasPrefix(username, query):
		return scoreUsernamePrefix
	case realName != "" && strings.HasPrefix(realName, query):
		return scoreRealNamePrefix
	case display != "" && strings.HasPrefix(display, query):
		return scoreDisplayPrefix
	case strings.Contains(username, query):
		return scoreUsernameContains
	case realName != "" && strings.Contains(realName, query):
		return scoreRealNameContains
	case display != "" && strings.Contains(display, query):
		return scoreDisplayContains
	case email != "" && strings.Contains(email, query):
		return scoreEmailContains
	default:
		return 0
	}
}

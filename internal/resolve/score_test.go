package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/slack-mcp-gateway/slack-mcp-gateway/pkg/types"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain name", input: "ada", want: "ada"},
		{name: "at prefix stripped", input: "@ada", want: "ada"},
		{name: "whitespace trimmed", input: "  ada  ", want: "ada"},
		{name: "lower-cased", input: "Ada Lovelace", want: "ada lovelace"},
		{name: "at then whitespace", input: "@ Ada", want: "ada"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestScore_Ladder(t *testing.T) {
	user := &types.UserInfo{
		ID:          "U01AB2CD3",
		Name:        "alovelace",
		RealName:    "Ada Lovelace",
		DisplayName: "Ada",
		Email:       "ada@analytical.example",
	}

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{name: "username exact", query: "alovelace", want: scoreUsernameExact},
		{name: "real name exact", query: "ada lovelace", want: scoreRealNameExact},
		{name: "display name exact", query: "ada", want: scoreDisplayNameExact},
		{name: "email exact", query: "ada@analytical.example", want: scoreEmailExact},
		{name: "username prefix", query: "alove", want: scoreUsernamePrefix},
		{name: "real name prefix", query: "ada l", want: scoreRealNamePrefix},
		{name: "username substring", query: "velace", want: scoreUsernameContains},
		{name: "real name substring", query: "ovela", want: scoreRealNameContains},
		{name: "email substring", query: "analytical", want: scoreEmailContains},
		{name: "no match", query: "babbage", want: 0},
		{name: "empty query", query: "", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(user, tt.query))
		})
	}
}

// A substring match never outranks a same-field prefix match, which never
// outranks an exact match.
func TestScore_Monotonic(t *testing.T) {
	user := &types.UserInfo{
		ID:          "U01AB2CD3",
		Name:        "alovelace",
		RealName:    "Ada Lovelace",
		DisplayName: "Ada",
	}

	exact := Score(user, "alovelace")
	prefix := Score(user, "alove")
	substring := Score(user, "velace")

	assert.Greater(t, exact, prefix, "exact must outrank prefix")
	assert.Greater(t, prefix, substring, "prefix must outrank substring")
	assert.Greater(t, substring, 0)
}

// The score is the maximum tier across fields, never a sum: a profile
// echoing the query in several fields scores the same as one matching on
// the best field alone.
func TestScore_MaxTierNotSum(t *testing.T) {
	multi := &types.UserInfo{
		ID:          "U1",
		Name:        "ada",
		RealName:    "ada",
		DisplayName: "ada",
		Email:       "ada@example.com",
	}
	single := &types.UserInfo{
		ID:   "U2",
		Name: "ada",
	}

	assert.Equal(t, Score(single, "ada"), Score(multi, "ada"))
	assert.Equal(t, scoreUsernameExact, Score(multi, "ada"))
}

func TestScore_EmptyFieldsNeverMatch(t *testing.T) {
	user := &types.UserInfo{
		ID:   "U1",
		Name: "ghost",
		// RealName, DisplayName, Email all empty.
	}

	// An empty field must never be treated as an exact match for anything.
	assert.Equal(t, 0, Score(user, "nobody"))
	assert.Equal(t, scoreUsernameExact, Score(user, "ghost"))
}

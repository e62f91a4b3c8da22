package resolve

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slack-mcp-gateway/slack-mcp-gateway/pkg/types"
)

// mockUserFetcher records lookups and serves profiles from a fixed map.
type mockUserFetcher struct {
	mu    sync.Mutex
	users map[string]types.UserInfo
	fail  map[string]bool
	calls []string
}

func (m *mockUserFetcher) GetUserInfo(ctx context.Context, userID string) (*types.UserInfo, error) {
	m.mu.Lock()
	m.calls = append(m.calls, userID)
	m.mu.Unlock()

	if m.fail[userID] {
		return nil, types.NewSlackError(types.ErrCodeUserNotFound, "mock: lookup failed")
	}
	if u, ok := m.users[userID]; ok {
		return &u, nil
	}
	return nil, types.NewSlackError(types.ErrCodeUserNotFound, "mock: unknown user")
}

func TestFetchUsers_DeduplicatesIDs(t *testing.T) {
	fetcher := &mockUserFetcher{
		users: map[string]types.UserInfo{
			"U1": user("U1", "ada", "Ada Lovelace", ""),
		},
	}

	found := FetchUsers(context.Background(), fetcher, []string{"U1", "U1", "", "U1"})
	require.Len(t, found, 1)
	assert.Len(t, fetcher.calls, 1, "each distinct ID is looked up once")
}

func TestFetchUsers_PartialFailureTolerated(t *testing.T) {
	fetcher := &mockUserFetcher{
		users: map[string]types.UserInfo{
			"U1": user("U1", "ada", "Ada Lovelace", ""),
			"U2": user("U2", "grace", "Grace Hopper", ""),
		},
		fail: map[string]bool{"U2": true},
	}

	found := FetchUsers(context.Background(), fetcher, []string{"U1", "U2"})
	require.Len(t, found, 1)
	assert.Equal(t, "ada", found["U1"].Name)
	_, ok := found["U2"]
	assert.False(t, ok, "a failed lookup drops only that user")
}

func TestFetchUsers_EmptyInput(t *testing.T) {
	fetcher := &mockUserFetcher{}
	assert.Nil(t, FetchUsers(context.Background(), fetcher, nil))
	assert.Empty(t, fetcher.calls)
}

func TestEnrichAuthors(t *testing.T) {
	fetcher := &mockUserFetcher{
		users: map[string]types.UserInfo{
			"U1": user("U1", "ada", "Ada Lovelace", "Ada"),
		},
		fail: map[string]bool{"U2": true},
	}

	msgs := []types.Message{
		{User: "U1", Text: "first"},
		{User: "U2", Text: "second"},
		{User: "U1", Text: "third"},
		{Text: "system message without author"},
	}

	EnrichAuthors(context.Background(), fetcher, msgs)

	assert.Equal(t, "ada", msgs[0].UserName)
	assert.Equal(t, "Ada Lovelace", msgs[0].RealName)
	assert.Equal(t, "Ada", msgs[0].DisplayName)

	// The failed author keeps only its raw ID.
	assert.Equal(t, "U2", msgs[1].User)
	assert.Empty(t, msgs[1].UserName)

	assert.Equal(t, "ada", msgs[2].UserName)
	assert.Len(t, fetcher.calls, 2, "distinct authors fetched once each")
}

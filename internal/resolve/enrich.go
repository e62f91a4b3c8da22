package resolve

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/slack-mcp-gateway/slack-mcp-gateway/pkg/types"
)

// enrichConcurrency bounds the fan-out of per-user lookups.
const enrichConcurrency = 4

// UserFetcher looks up a single user profile by ID.
type UserFetcher interface {
	GetUserInfo(ctx context.Context, userID string) (*types.UserInfo, error)
}

// FetchUsers resolves the given user IDs to profiles as a concurrent
// fan-out/fan-in batch with no ordering guarantee among lookups. A failed
// lookup drops that single user from the result rather than failing the
// batch; callers fall back to the raw ID.
func FetchUsers(ctx context.Context, client UserFetcher, ids []string) map[string]types.UserInfo {
	if len(ids) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(ids))
	distinct := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		distinct = append(distinct, id)
	}

	var mu sync.Mutex
	found := make(map[string]types.UserInfo, len(distinct))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(enrichConcurrency)
	for _, id := range distinct {
		g.Go(func() error {
			info, err := client.GetUserInfo(gctx, id)
			if err != nil || info == nil {
				// Partial-failure tolerance: the raw ID stands in.
				return nil
			}
			mu.Lock()
			found[id] = *info
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if len(found) == 0 {
		return nil
	}
	return found
}

// EnrichAuthors populates the author name fields of every message whose
// author could be looked up. Distinct author IDs are fetched concurrently;
// messages whose author lookup failed keep only the raw user ID.
func EnrichAuthors(ctx context.Context, client UserFetcher, msgs []types.Message) {
	ids := make([]string, 0, len(msgs))
	for i := range msgs {
		ids = append(ids, msgs[i].User)
	}

	users := FetchUsers(ctx, client, ids)
	for i := range msgs {
		if info, ok := users[msgs[i].User]; ok {
			msgs[i].UserName = info.Name
			msgs[i].DisplayName = info.DisplayName
			msgs[i].RealName = info.RealName
		}
	}
}

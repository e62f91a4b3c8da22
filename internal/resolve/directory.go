package resolve

import (
	"context"
	"fmt"

	"github.com/slack-mcp-gateway/slack-mcp-gateway/pkg/types"
)

// UserPager fetches one page of the workspace user listing. An empty cursor
// requests the first page; an empty next cursor signals the last page.
type UserPager interface {
	UsersPage(ctx context.Context, cursor string) ([]types.UserInfo, string, error)
}

// Directory enumerates the workspace user listing for a single resolution
// call. The snapshot is never cached across calls; every resolution re-reads
// the directory so that NotFound and Ambiguous decisions are always made
// against a complete, current listing.
type Directory struct {
	pager UserPager
}

// NewDirectory creates a Directory backed by the given pager.
func NewDirectory(pager UserPager) *Directory {
	return &Directory{pager: pager}
}

// ActiveUsers returns the complete listing of active, human users.
// Pages are fetched strictly in sequence, each cursor gating the next fetch,
// and concatenated before returning. Bot and deleted accounts are excluded.
// A failure on any page fails the whole enumeration; there is no
// partial-result fallback.
func (d *Directory) ActiveUsers(ctx context.Context) ([]types.UserInfo, error) {
	var all []types.UserInfo
	cursor := ""
	for {
		page, nextCursor, err := d.pager.UsersPage(ctx, cursor)
		if err != nil {
			return nil, types.NewSlackError(types.ErrCodeDirectoryUnavailable,
				fmt.Sprintf("failed to list workspace users: %s", err.Error()))
		}
		all = append(all, page...)
		if nextCursor == "" {
			break
		}
		cursor = nextCursor
	}

	active := make([]types.UserInfo, 0, len(all))
	for _, u := range all {
		if u.IsBot || u.IsDeleted {
			continue
		}
		active = append(active, u)
	}
	return active, nil
}

package resolve

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/slack-mcp-gateway/slack-mcp-gateway/pkg/types"
)

// userIDPattern matches the strict Slack user ID syntax.
var userIDPattern = regexp.MustCompile(`^U[A-Z0-9]+$`)

// maxSuggestions caps the number of candidates carried on an ambiguous
// resolution, enough for a disambiguation prompt without flooding the caller.
const maxSuggestions = 3

// Outcome tags the result of a user resolution.
type Outcome string

const (
	// OutcomeResolved means exactly one top-scoring candidate matched.
	OutcomeResolved Outcome = "resolved"
	// OutcomeAmbiguous means two or more candidates tied at the highest score.
	OutcomeAmbiguous Outcome = "ambiguous"
	// OutcomeNotFound means no candidate matched, or a syntactically valid
	// user ID was rejected by the directory lookup.
	OutcomeNotFound Outcome = "not_found"
)

// Resolution is the structured result of resolving a free-form identifier.
// Ambiguity and not-found are ordinary outcomes, not errors: the caller must
// be able to inspect the candidate list and render an actionable message.
type Resolution struct {
	// Outcome tags which variant this resolution is.
	Outcome Outcome `json:"outcome"`
	// Query is the original identifier as given by the caller.
	Query string `json:"query"`
	// User is the resolved profile. Only set when Outcome is OutcomeResolved.
	User *types.UserInfo `json:"user,omitempty"`
	// Candidates are the tied top-scoring profiles, capped at three.
	// Only set when Outcome is OutcomeAmbiguous.
	Candidates []types.UserInfo `json:"candidates,omitempty"`
	// TopScore is the score shared by the tied candidates on ambiguity.
	TopScore int `json:"top_score,omitempty"`
	// Reason describes why nothing matched. Only set on OutcomeNotFound.
	Reason string `json:"reason,omitempty"`
}

// Err converts a non-resolved resolution into a ResolutionError, preserving
// the candidate list. Returns nil for a resolved outcome.
func (r *Resolution) Err() error {
	switch r.Outcome {
	case OutcomeAmbiguous:
		return &ResolutionError{
			Code:       types.ErrCodeAmbiguousUser,
			Query:      r.Query,
			Candidates: r.Candidates,
		}
	case OutcomeNotFound:
		return &ResolutionError{
			Code:   types.ErrCodeUserNotFound,
			Query:  r.Query,
			Reason: r.Reason,
		}
	default:
		return nil
	}
}

// ResolutionError is a structured resolution failure. It retains the
// candidate list so callers can render a disambiguation prompt rather than a
// generic error string.
type ResolutionError struct {
	// Code is the machine-readable failure code (ambiguous_user or user_not_found).
	Code string
	// Query is the identifier that failed to resolve.
	Query string
	// Candidates are the tied candidates, when the failure is ambiguity.
	Candidates []types.UserInfo
	// Reason describes the failure, when the failure is not-found.
	Reason string
}

// Error renders an actionable message. For ambiguity it lists every
// candidate with enough detail to re-query by exact username or ID.
func (e *ResolutionError) Error() string {
	if e.Code == types.ErrCodeAmbiguousUser {
		var b strings.Builder
		fmt.Fprintf(&b, "multiple users match %q; be more specific or use an exact @username or user ID:", e.Query)
		for _, c := range e.Candidates {
			fmt.Fprintf(&b, "\n  - @%s (%s, %s)", c.Name, displayOrReal(&c), c.ID)
		}
		return b.String()
	}
	if e.Reason != "" {
		return fmt.Sprintf("no user matches %q: %s", e.Query, e.Reason)
	}
	return fmt.Sprintf("no user matches %q", e.Query)
}

// displayOrReal picks the most human-readable name a profile carries.
func displayOrReal(u *types.UserInfo) string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	if u.RealName != "" {
		return u.RealName
	}
	return u.Name
}

// UserLookup is the directory subset the resolver needs beyond pagination.
type UserLookup interface {
	UserPager
	GetUserInfo(ctx context.Context, userID string) (*types.UserInfo, error)
}

// scoredCandidate pairs a profile with its score for one resolution call.
type scoredCandidate struct {
	user  types.UserInfo
	score int
}

// Resolver turns free-form identifiers into exactly one Slack user, or an
// explicit ambiguity/not-found result. It never guesses: any branch that
// cannot produce a single confident match reports a structured outcome.
type Resolver struct {
	client UserLookup
}

// NewResolver creates a Resolver backed by the given directory client.
func NewResolver(client UserLookup) *Resolver {
	return &Resolver{client: client}
}

// ResolveUser resolves identifier to a single workspace user.
//
// Identifiers matching the strict user-ID syntax take a direct-lookup fast
// path that never enumerates the directory; a rejected ID is terminal
// NotFound. All other identifiers are normalized, scored against the full
// active-user snapshot, and resolved to the single top candidate. A tie at
// the top score is a hard stop reported as OutcomeAmbiguous.
//
// The returned error is non-nil only for infrastructure failures
// (directory unavailable); resolution outcomes are carried in Resolution.
func (r *Resolver) ResolveUser(ctx context.Context, identifier string) (*Resolution, error) {
	if userIDPattern.MatchString(identifier) {
		return r.resolveByID(ctx, identifier)
	}

	query := Normalize(identifier)
	if query == "" {
		return &Resolution{
			Outcome: OutcomeNotFound,
			Query:   identifier,
			Reason:  "empty identifier",
		}, nil
	}

	users, err := NewDirectory(r.client).ActiveUsers(ctx)
	if err != nil {
		return nil, err
	}

	candidates := make([]scoredCandidate, 0, len(users))
	for _, u := range users {
		if s := Score(&u, query); s > 0 {
			candidates = append(candidates, scoredCandidate{user: u, score: s})
		}
	}

	if len(candidates) == 0 {
		return &Resolution{
			Outcome: OutcomeNotFound,
			Query:   identifier,
			Reason:  "no matching user in the workspace directory",
		}, nil
	}

	// Stable sort keeps tied candidates in directory order; no secondary
	// key is defined for ties.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	top := candidates[0].score
	tied := []types.UserInfo{candidates[0].user}
	for _, c := range candidates[1:] {
		if c.score != top || len(tied) >= maxSuggestions {
			break
		}
		tied = append(tied, c.user)
	}

	if len(tied) > 1 {
		return &Resolution{
			Outcome:    OutcomeAmbiguous,
			Query:      identifier,
			Candidates: tied,
			TopScore:   top,
		}, nil
	}

	user := candidates[0].user
	return &Resolution{
		Outcome: OutcomeResolved,
		Query:   identifier,
		User:    &user,
	}, nil
}

// resolveByID is the direct-lookup fast path for strict user-ID syntax.
// A rejected ID short-circuits to NotFound without ever enumerating the
// directory.
func (r *Resolver) resolveByID(ctx context.Context, id string) (*Resolution, error) {
	user, err := r.client.GetUserInfo(ctx, id)
	if err != nil {
		var slackErr *types.SlackError
		if errors.As(err, &slackErr) && slackErr.Code == types.ErrCodeUserNotFound {
			return &Resolution{
				Outcome: OutcomeNotFound,
				Query:   id,
				Reason:  "unknown user ID",
			}, nil
		}
		return nil, err
	}
	return &Resolution{
		Outcome: OutcomeResolved,
		Query:   id,
		User:    user,
	}, nil
}

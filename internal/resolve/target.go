package resolve

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/slack-mcp-gateway/slack-mcp-gateway/pkg/types"
)

// conversationIDPattern matches raw Slack conversation IDs: channels (C),
// direct messages (D), and legacy private groups (G).
var conversationIDPattern = regexp.MustCompile(`^[CDG][A-Z0-9]+$`)

// refKind classifies a raw conversation argument. Classification happens
// exactly once, up front; no call site re-tests prefixes afterwards.
type refKind int

const (
	refConversationID refKind = iota
	refChannelName
	refUserRef
)

// classify determines what a raw conversation argument refers to and returns
// the kind together with the usable remainder of the argument.
func classify(raw string) (refKind, string) {
	trimmed := strings.TrimSpace(raw)
	if conversationIDPattern.MatchString(trimmed) {
		return refConversationID, trimmed
	}
	if name, ok := strings.CutPrefix(trimmed, "#"); ok {
		return refChannelName, name
	}
	return refUserRef, trimmed
}

// Target is the resolved addressable destination of a tool call: either a
// channel reference passed through, or a direct-message conversation opened
// for a resolved user. Targets live for a single tool invocation and are
// never cached.
type Target struct {
	// ConversationID is the conversation to operate on. For channel-name
	// references this is the bare name; Slack validates it downstream.
	ConversationID string
	// User is the resolved profile when the target is a direct message.
	User *types.UserInfo
}

// DMOpener opens (or reuses) a direct-message conversation with a user.
type DMOpener interface {
	OpenDM(ctx context.Context, userID string) (string, error)
}

// TargetBuilder turns a raw conversation argument into a concrete Target.
type TargetBuilder struct {
	resolver *Resolver
	opener   DMOpener
}

// NewTargetBuilder creates a TargetBuilder using the given resolver and
// DM opener.
func NewTargetBuilder(resolver *Resolver, opener DMOpener) *TargetBuilder {
	return &TargetBuilder{
		resolver: resolver,
		opener:   opener,
	}
}

// Build resolves a raw conversation argument, applying rules in order:
//
//  1. A syntactic conversation ID passes through unchanged.
//  2. A '#'-prefixed name is stripped and passed through; existence is
//     checked by the downstream API call, not here.
//  3. Anything else is a user reference: it is resolved, and a
//     direct-message conversation is opened with the resolved user.
//
// An ambiguous or not-found resolution propagates as a ResolutionError
// carrying the candidate list; no DM is opened and no identity is guessed.
// A DM-open failure after successful resolution reports
// conversation_open_failed with the resolved identity preserved.
func (b *TargetBuilder) Build(ctx context.Context, raw string) (*Target, error) {
	kind, value := classify(raw)
	switch kind {
	case refConversationID, refChannelName:
		return &Target{ConversationID: value}, nil
	default:
		return b.buildDM(ctx, value)
	}
}

// buildDM resolves a user reference and opens a direct-message conversation.
func (b *TargetBuilder) buildDM(ctx context.Context, identifier string) (*Target, error) {
	res, err := b.resolver.ResolveUser(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if res.Outcome != OutcomeResolved {
		return nil, res.Err()
	}

	conversationID, err := b.opener.OpenDM(ctx, res.User.ID)
	if err != nil {
		return nil, types.NewSlackError(types.ErrCodeConversationOpenFailed,
			fmt.Sprintf("resolved %q to @%s (%s) but could not open a direct message: %s",
				identifier, res.User.Name, res.User.ID, err.Error()))
	}

	return &Target{
		ConversationID: conversationID,
		User:           res.User,
	}, nil
}

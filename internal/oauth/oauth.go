package oauth

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// codeTTL bounds how long an authorization code may sit unexchanged.
	codeTTL = 10 * time.Minute
	// tokenTTL bounds the lifetime of issued access tokens.
	tokenTTL = 24 * time.Hour
)

// Flow errors returned by the Service. Handlers map these to OAuth error
// responses.
var (
	ErrUnknownClient      = errors.New("unknown client_id")
	ErrBadClientSecret    = errors.New("client_secret does not match")
	ErrBadRedirectURI     = errors.New("redirect_uri is not registered for this client")
	ErrInvalidCode        = errors.New("authorization code is invalid, expired, or already used")
	ErrInvalidSlackToken  = errors.New("slack token must start with xoxp- or xoxb-")
	ErrInvalidAccessToken = errors.New("access token is invalid or expired")
)

// Client is a registered OAuth client application.
type Client struct {
	ID           string    `json:"client_id"`
	Secret       string    `json:"client_secret"`
	Name         string    `json:"client_name"`
	RedirectURIs []string  `json:"redirect_uris"`
	CreatedAt    time.Time `json:"created_at"`
}

// AuthCode is a single-use authorization code bound to the Slack token the
// user supplied at the consent step. The PKCE code_challenge is stored but
// never verified against a verifier.
type AuthCode struct {
	Code          string
	ClientID      string
	RedirectURI   string
	State         string
	CodeChallenge string
	SlackToken    string
	ExpiresAt     time.Time
}

// Token is an issued bearer access token carrying the Slack token it was
// exchanged for.
type Token struct {
	AccessToken string
	ClientID    string
	SlackToken  string
	ExpiresAt   time.Time
}

// Session tracks one active authorized connection (e.g., an SSE stream).
type Session struct {
	ID          string
	AccessToken string
	CreatedAt   time.Time
}

// Service implements the authorization-code flow over injected stores.
type Service struct {
	clients  Store[Client]
	codes    Store[AuthCode]
	tokens   Store[Token]
	sessions Store[Session]
	sessMu   sync.Mutex
	logger   *slog.Logger
	now      func() time.Time
}

// Config carries the Service dependencies. Any nil store defaults to a
// fresh MemoryStore; a nil logger defaults to slog.Default().
type Config struct {
	Clients  Store[Client]
	Codes    Store[AuthCode]
	Tokens   Store[Token]
	Sessions Store[Session]
	Logger   *slog.Logger
}

// NewService creates an OAuth service from the given configuration.
func NewService(cfg Config) *Service {
	if cfg.Clients == nil {
		cfg.Clients = NewMemoryStore[Client]()
	}
	if cfg.Codes == nil {
		cfg.Codes = NewMemoryStore[AuthCode]()
	}
	if cfg.Tokens == nil {
		cfg.Tokens = NewMemoryStore[Token]()
	}
	if cfg.Sessions == nil {
		cfg.Sessions = NewMemoryStore[Session]()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Service{
		clients:  cfg.Clients,
		codes:    cfg.Codes,
		tokens:   cfg.Tokens,
		sessions: cfg.Sessions,
		logger:   cfg.Logger,
		now:      time.Now,
	}
}

// RegisterClient registers a new OAuth client and returns its credentials.
func (s *Service) RegisterClient(name string, redirectURIs []string) (*Client, error) {
	if len(redirectURIs) == 0 {
		return nil, errors.New("at least one redirect_uri is required")
	}
	for _, u := range redirectURIs {
		if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
			return nil, fmt.Errorf("redirect_uri %q must be an absolute http(s) URL", u)
		}
	}

	client := Client{
		ID:           uuid.NewString(),
		Secret:       uuid.NewString(),
		Name:         name,
		RedirectURIs: redirectURIs,
		CreatedAt:    s.now(),
	}
	s.clients.Set(client.ID, client)
	s.logger.Info("oauth client registered", "client_id", client.ID, "name", name)
	return &client, nil
}

// LookupClient returns a registered client by ID.
func (s *Service) LookupClient(clientID string) (*Client, error) {
	client, ok := s.clients.Get(clientID)
	if !ok {
		return nil, ErrUnknownClient
	}
	return &client, nil
}

// Authorize completes the consent step: it validates the client and redirect
// URI, accepts the user's Slack token, and issues a single-use authorization
// code. codeChallenge is stored verbatim and never verified.
func (s *Service) Authorize(clientID, redirectURI, state, codeChallenge, slackToken string) (*AuthCode, error) {
	client, ok := s.clients.Get(clientID)
	if !ok {
		return nil, ErrUnknownClient
	}
	if !redirectURIRegistered(&client, redirectURI) {
		return nil, ErrBadRedirectURI
	}
	if !strings.HasPrefix(slackToken, "xoxp-") && !strings.HasPrefix(slackToken, "xoxb-") {
		return nil, ErrInvalidSlackToken
	}

	code := AuthCode{
		Code:          uuid.NewString(),
		ClientID:      clientID,
		RedirectURI:   redirectURI,
		State:         state,
		CodeChallenge: codeChallenge,
		SlackToken:    slackToken,
		ExpiresAt:     s.now().Add(codeTTL),
	}
	s.codes.Set(code.Code, code)
	s.logger.Info("authorization code issued", "client_id", clientID)
	return &code, nil
}

// Exchange trades a valid authorization code for a bearer access token.
// The code is deleted whether or not the exchange succeeds past lookup, so
// a code can never be redeemed twice.
func (s *Service) Exchange(clientID, clientSecret, code, redirectURI string) (*Token, error) {
	client, ok := s.clients.Get(clientID)
	if !ok {
		return nil, ErrUnknownClient
	}
	if client.Secret != clientSecret {
		return nil, ErrBadClientSecret
	}

	authCode, ok := s.codes.Get(code)
	if !ok {
		return nil, ErrInvalidCode
	}
	s.codes.Delete(code)

	if authCode.ClientID != clientID || authCode.RedirectURI != redirectURI {
		return nil, ErrInvalidCode
	}
	if s.now().After(authCode.ExpiresAt) {
		return nil, ErrInvalidCode
	}

	token := Token{
		AccessToken: uuid.NewString(),
		ClientID:    clientID,
		SlackToken:  authCode.SlackToken,
		ExpiresAt:   s.now().Add(tokenTTL),
	}
	s.tokens.Set(token.AccessToken, token)
	s.logger.Info("access token issued", "client_id", clientID)
	return &token, nil
}

// TokenFor validates a bearer access token. Expired tokens are deleted on
// lookup; there is no background eviction.
func (s *Service) TokenFor(accessToken string) (*Token, error) {
	token, ok := s.tokens.Get(accessToken)
	if !ok {
		return nil, ErrInvalidAccessToken
	}
	if s.now().After(token.ExpiresAt) {
		s.tokens.Delete(accessToken)
		return nil, ErrInvalidAccessToken
	}
	return &token, nil
}

// Revoke deletes an access token and closes every session opened with it.
func (s *Service) Revoke(accessToken string) {
	s.tokens.Delete(accessToken)

	var stale []string
	s.sessions.Range(func(id string, sess Session) bool {
		if sess.AccessToken == accessToken {
			stale = append(stale, id)
		}
		return true
	})
	for _, id := range stale {
		s.sessions.Delete(id)
	}
	s.logger.Info("access token revoked", "sessions_closed", len(stale))
}

// SessionFor returns the active session for a validated access token,
// creating it on first use. The SSE transport derives every tool call's
// context from its own HTTP request, so this runs once per request; reusing
// the record keeps one session per authorized token rather than one per call.
func (s *Service) SessionFor(accessToken string) (*Session, error) {
	if _, err := s.TokenFor(accessToken); err != nil {
		return nil, err
	}

	s.sessMu.Lock()
	defer s.sessMu.Unlock()

	var existing *Session
	s.sessions.Range(func(_ string, sess Session) bool {
		if sess.AccessToken == accessToken {
			existing = &sess
			return false
		}
		return true
	})
	if existing != nil {
		return existing, nil
	}

	sess := Session{
		ID:          uuid.NewString(),
		AccessToken: accessToken,
		CreatedAt:   s.now(),
	}
	s.sessions.Set(sess.ID, sess)
	return &sess, nil
}

// EndSession removes a session. Ending an unknown session is a no-op.
func (s *Service) EndSession(sessionID string) {
	s.sessions.Delete(sessionID)
}

// redirectURIRegistered reports whether uri is one of the client's
// registered redirect URIs.
func redirectURIRegistered(c *Client, uri string) bool {
	for _, u := range c.RedirectURIs {
		if u == uri {
			return true
		}
	}
	return false
}

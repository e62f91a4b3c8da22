// Package server provides the MCP server setup, tool registration, and the
// stdio and SSE transports for the Slack MCP gateway.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/mark3labs/mcp-go/mcp"
	mcpsrv "github.com/mark3labs/mcp-go/server"

	"github.com/slack-mcp-gateway/slack-mcp-gateway/internal/oauth"
	slackclient "github.com/slack-mcp-gateway/slack-mcp-gateway/internal/slack"
	"github.com/slack-mcp-gateway/slack-mcp-gateway/internal/tools"
)

const (
	// ServerName is the name of the MCP server.
	ServerName = "slack-mcp-gateway"
	// ServerVersion is the version of the MCP server.
	ServerVersion = "1.0.0"
)

// shutdownTimeout bounds graceful HTTP shutdown on SSE serve teardown.
const shutdownTimeout = 10 * time.Second

// Server wraps the MCP server, the OAuth authorization service, and the
// Slack client plumbing shared by both transports.
type Server struct {
	mcp     *mcpsrv.MCPServer
	oauth   *oauth.Service
	factory oauth.ClientFactory
	logger  *slog.Logger
}

// Config holds the configuration for creating a new Server.
type Config struct {
	// SlackBotToken is the bot token (xoxb-) for the stdio transport's
	// static client and the SSE fallback client. Required.
	SlackBotToken string
	// SlackUserToken is an optional user token (xoxp-) enabling workspace
	// search on the static client.
	SlackUserToken string
	// Logger receives structured server logs. Defaults to slog.Default().
	Logger *slog.Logger
}

// New creates a new Slack MCP gateway server with the provided configuration.
func New(cfg Config) (*Server, error) {
	if cfg.SlackBotToken == "" {
		return nil, fmt.Errorf("SLACK_BOT_TOKEN is required")
	}
	static := slackclient.NewClient(cfg.SlackBotToken, cfg.SlackUserToken)
	return newServer(static, cfg.Logger), nil
}

// NewWithClient creates a server around a custom Slack client. This is
// primarily useful for testing with mock clients.
func NewWithClient(client slackclient.ClientInterface) *Server {
	return newServer(client, nil)
}

func newServer(static slackclient.ClientInterface, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	// OAuth sessions carry the token the user consented with. A consented
	// xoxp- token also powers search for that session.
	factory := func(slackToken string) slackclient.ClientInterface {
		return slackclient.NewClient(slackToken, slackToken)
	}

	// Tool calls prefer the per-session client injected by the OAuth layer
	// and fall back to the static env-token client on stdio.
	provider := &tools.ContextProvider{
		Lookup:   oauth.ClientFrom,
		Fallback: static,
	}

	s := &Server{
		mcp: mcpsrv.NewMCPServer(
			ServerName,
			ServerVersion,
			mcpsrv.WithToolCapabilities(true),
		),
		oauth:   oauth.NewService(oauth.Config{}),
		factory: factory,
		logger:  logger,
	}
	s.registerTools(provider)
	return s
}

// registerTools registers every MCP tool with the server.
func (s *Server) registerTools(provider tools.ClientProvider) {
	type tool interface {
		Tool() mcp.Tool
		HandleFunc() func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)
	}
	for _, h := range []tool{
		tools.NewFindUserHandler(provider),
		tools.NewGetUserProfileHandler(provider),
		tools.NewListUsersHandler(provider),
		tools.NewListChannelsHandler(provider),
		tools.NewSendMessageHandler(provider),
		tools.NewReadMessageHandler(provider),
		tools.NewListChannelMessagesHandler(provider),
		tools.NewGetThreadRepliesHandler(provider),
		tools.NewSearchMessagesHandler(provider),
		tools.NewAddReactionHandler(provider),
		tools.NewListFilesHandler(provider),
	} {
		s.mcp.AddTool(h.Tool(), h.HandleFunc())
	}
}

// ServeStdio runs the MCP server over stdin/stdout until ctx is cancelled.
// This is the standard transport for local agent integrations.
func (s *Server) ServeStdio(ctx context.Context) error {
	srv := mcpsrv.NewStdioServer(s.mcp)
	s.logger.InfoContext(ctx, "mcp server listening on stdio")
	if err := srv.Listen(ctx, os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
			return nil
		}
		return fmt.Errorf("mcp stdio server error: %w", err)
	}
	return nil
}

// ServeSSE runs the MCP server over SSE on addr until ctx is cancelled.
// The OAuth endpoints are mounted alongside the SSE transport, and each
// authorized stream gets a per-session Slack client bound to the token the
// user consented with.
func (s *Server) ServeSSE(ctx context.Context, addr string) error {
	httpSrv := &http.Server{
		Addr:    addr,
		Handler: s.sseRouter(fmt.Sprintf("http://%s", addr)),
	}

	s.logger.InfoContext(ctx, "mcp server listening on sse", "addr", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("mcp sse server error: %w", err)
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.InfoContext(ctx, "mcp server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("mcp sse server shutdown error: %w", err)
		}
		return nil
	case err := <-errCh:
		return err
	}
}

// sseRouter builds the HTTP handler for the SSE transport: the OAuth
// endpoints, the SSE stream, the message endpoint, and a health check.
// Both /sse and /message sit behind the bearer middleware: an unauthorized
// request gets a 401 with WWW-Authenticate, which points MCP clients at the
// OAuth metadata endpoint, and a message POST whose token expired mid-stream
// fails the same way instead of falling back to the env-token client.
func (s *Server) sseRouter(baseURL string) chi.Router {
	sse := mcpsrv.NewSSEServer(s.mcp,
		mcpsrv.WithBaseURL(baseURL),
		mcpsrv.WithSSEContextFunc(s.oauth.SSEContextFunc(s.factory)),
	)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	s.oauth.Register(r)
	authed := r.With(s.oauth.Middleware(s.factory))
	authed.Handle("/sse", sse)
	authed.Handle("/message", sse)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

// MCPServer returns the underlying MCP server instance.
func (s *Server) MCPServer() *mcpsrv.MCPServer {
	return s.mcp
}

// OAuth returns the OAuth authorization service.
func (s *Server) OAuth() *oauth.Service {
	return s.oauth
}

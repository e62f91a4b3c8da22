package oauth

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
)

// consentPage is the minimal consent form shown at the authorize endpoint.
// The user pastes a Slack token; submitting issues the authorization code.
var consentPage = template.Must(template.New("consent").Parse(`<!DOCTYPE html>
<html>
<head><title>Slack MCP Gateway - Authorize</title></head>
<body>
<h1>Authorize {{.ClientName}}</h1>
<p>Paste a Slack token (xoxp- or xoxb-) to grant this client access to your workspace.</p>
<form method="POST" action="/oauth/authorize">
  <input type="hidden" name="client_id" value="{{.ClientID}}">
  <input type="hidden" name="redirect_uri" value="{{.RedirectURI}}">
  <input type="hidden" name="state" value="{{.State}}">
  <input type="hidden" name="code_challenge" value="{{.CodeChallenge}}">
  <input type="password" name="slack_token" placeholder="xoxp-..." size="60" required>
  <button type="submit">Authorize</button>
</form>
</body>
</html>
`))

// Register attaches the OAuth endpoints to the given router.
func (s *Service) Register(r chi.Router) {
	r.Get("/.well-known/oauth-authorization-server", s.handleMetadata)
	r.Post("/oauth/register", s.handleRegister)
	r.Get("/oauth/authorize", s.handleAuthorizeForm)
	r.Post("/oauth/authorize", s.handleAuthorizeSubmit)
	r.Post("/oauth/token", s.handleToken)
	r.Post("/oauth/revoke", s.handleRevoke)
}

// Routes returns the OAuth endpoints as a standalone chi router.
func (s *Service) Routes() chi.Router {
	r := chi.NewRouter()
	s.Register(r)
	return r
}

// handleMetadata serves RFC 8414-style server metadata so MCP clients can
// discover the endpoints.
func (s *Service) handleMetadata(w http.ResponseWriter, r *http.Request) {
	base := baseURL(r)
	writeJSON(w, http.StatusOK, map[string]any{
		"issuer":                                base,
		"authorization_endpoint":                base + "/oauth/authorize",
		"token_endpoint":                        base + "/oauth/token",
		"registration_endpoint":                 base + "/oauth/register",
		"revocation_endpoint":                   base + "/oauth/revoke",
		"response_types_supported":              []string{"code"},
		"grant_types_supported":                 []string{"authorization_code"},
		"code_challenge_methods_supported":      []string{"S256", "plain"},
		"token_endpoint_auth_methods_supported": []string{"client_secret_post"},
	})
}

// registerRequest is the dynamic client registration payload.
type registerRequest struct {
	ClientName   string   `json:"client_name"`
	RedirectURIs []string `json:"redirect_uris"`
}

func (s *Service) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeOAuthError(w, http.StatusBadRequest, "invalid_request", "request body must be JSON")
		return
	}

	client, err := s.RegisterClient(req.ClientName, req.RedirectURIs)
	if err != nil {
		writeOAuthError(w, http.StatusBadRequest, "invalid_client_metadata", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"client_id":     client.ID,
		"client_secret": client.Secret,
		"client_name":   client.Name,
		"redirect_uris": client.RedirectURIs,
	})
}

func (s *Service) handleAuthorizeForm(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	clientID := q.Get("client_id")

	client, err := s.LookupClient(clientID)
	if err != nil {
		writeOAuthError(w, http.StatusBadRequest, "invalid_request", "unknown client_id")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = consentPage.Execute(w, map[string]string{
		"ClientName":    client.Name,
		"ClientID":      clientID,
		"RedirectURI":   q.Get("redirect_uri"),
		"State":         q.Get("state"),
		"CodeChallenge": q.Get("code_challenge"),
	})
}

func (s *Service) handleAuthorizeSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeOAuthError(w, http.StatusBadRequest, "invalid_request", "could not parse form")
		return
	}

	code, err := s.Authorize(
		r.PostFormValue("client_id"),
		r.PostFormValue("redirect_uri"),
		r.PostFormValue("state"),
		r.PostFormValue("code_challenge"),
		r.PostFormValue("slack_token"),
	)
	if err != nil {
		status := http.StatusBadRequest
		writeOAuthError(w, status, "access_denied", err.Error())
		return
	}

	redirect, err := url.Parse(code.RedirectURI)
	if err != nil {
		writeOAuthError(w, http.StatusBadRequest, "invalid_request", "bad redirect_uri")
		return
	}
	q := redirect.Query()
	q.Set("code", code.Code)
	if code.State != "" {
		q.Set("state", code.State)
	}
	redirect.RawQuery = q.Encode()

	http.Redirect(w, r, redirect.String(), http.StatusFound)
}

func (s *Service) handleToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeOAuthError(w, http.StatusBadRequest, "invalid_request", "could not parse form")
		return
	}

	if grant := r.PostFormValue("grant_type"); grant != "authorization_code" {
		writeOAuthError(w, http.StatusBadRequest, "unsupported_grant_type",
			fmt.Sprintf("grant_type %q is not supported", grant))
		return
	}

	// code_verifier is accepted here but deliberately not checked against
	// the stored code_challenge.
	token, err := s.Exchange(
		r.PostFormValue("client_id"),
		r.PostFormValue("client_secret"),
		r.PostFormValue("code"),
		r.PostFormValue("redirect_uri"),
	)
	if err != nil {
		code := "invalid_grant"
		if errors.Is(err, ErrUnknownClient) || errors.Is(err, ErrBadClientSecret) {
			code = "invalid_client"
		}
		writeOAuthError(w, http.StatusBadRequest, code, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"access_token": token.AccessToken,
		"token_type":   "Bearer",
		"expires_in":   int(tokenTTL.Seconds()),
	})
}

func (s *Service) handleRevoke(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeOAuthError(w, http.StatusBadRequest, "invalid_request", "could not parse form")
		return
	}
	s.Revoke(r.PostFormValue("token"))
	w.WriteHeader(http.StatusOK)
}

// baseURL reconstructs the external base URL of the request.
func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeOAuthError writes an RFC 6749 error response.
func writeOAuthError(w http.ResponseWriter, status int, code, description string) {
	writeJSON(w, status, map[string]string{
		"error":             code,
		"error_description": description,
	})
}

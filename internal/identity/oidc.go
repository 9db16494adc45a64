package identity

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// OIDCConfig holds OpenID Connect configuration for the redirect login flow.
type OIDCConfig struct {
	// Enabled indicates if OIDC authentication is enabled.
	Enabled bool
	// ProviderURL is the OIDC provider's discovery URL.
	ProviderURL string
	// ClientID is the OAuth2 client identifier.
	ClientID string
	// ClientSecret is the OAuth2 client secret.
	ClientSecret string
	// RedirectURL is the callback URL the provider redirects to.
	RedirectURL string
	// Scopes are the OAuth2 scopes to request (default: openid, profile, email).
	Scopes []string
	// RolesClaim is the ID token claim carrying role names (default "roles").
	RolesClaim string
}

// Client completes the redirect-based OIDC flow and re-derives users from
// persisted credentials. Token signature verification happens exactly once,
// at exchange time; afterwards the ID token is only read for its claims.
type Client struct {
	config   *OIDCConfig
	provider *oidc.Provider
	verifier *oidc.IDTokenVerifier
	oauth2   oauth2.Config
	http     *http.Client
}

// NewClient creates a new OIDC client using provider discovery.
func NewClient(ctx context.Context, config *OIDCConfig) (*Client, error) {
	if !config.Enabled {
		return nil, ErrOIDCDisabled
	}

	provider, err := oidc.NewProvider(ctx, config.ProviderURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create OIDC provider: %w", err)
	}

	verifier := provider.Verifier(&oidc.Config{
		ClientID: config.ClientID,
	})

	scopes := config.Scopes
	if len(scopes) == 0 {
		scopes = []string{oidc.ScopeOpenID, "profile", "email"}
	}

	oauth2Config := oauth2.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		RedirectURL:  config.RedirectURL,
		Endpoint:     provider.Endpoint(),
		Scopes:       scopes,
	}

	return &Client{
		config:   config,
		provider: provider,
		verifier: verifier,
		oauth2:   oauth2Config,
		http:     http.DefaultClient,
	}, nil
}

// AuthURL returns the provider's authorization URL carrying the state token.
func (c *Client) AuthURL(state string) string {
	return c.oauth2.AuthCodeURL(state)
}

// Exchange swaps the authorization code for tokens, verifies the ID token and
// returns the authenticated user together with the credential to persist.
func (c *Client) Exchange(ctx context.Context, code string) (*User, *Credential, error) {
	oauth2Token, err := c.oauth2.Exchange(ctx, code)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to exchange token: %w", err)
	}

	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok {
		return nil, nil, ErrNoIDToken
	}

	idToken, err := c.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to verify ID token: %w", err)
	}

	var claims map[string]interface{}
	if err = idToken.Claims(&claims); err != nil {
		return nil, nil, fmt.Errorf("failed to parse claims: %w", err)
	}

	user := c.userFromClaims(idToken.Subject, claims)

	cred := &Credential{
		Source:       SourceOIDC,
		Subject:      idToken.Subject,
		IDToken:      rawIDToken,
		AccessToken:  oauth2Token.AccessToken,
		RefreshToken: oauth2Token.RefreshToken,
		ExpiresAt:    idToken.Expiry,
	}

	return user, cred, nil
}

// Resolve re-derives the user from a persisted credential's ID token claims.
// The token was verified at exchange time; here it is only decoded.
func (c *Client) Resolve(_ context.Context, cred *Credential) (*User, error) {
	claims := jwt.MapClaims{}

	if _, _, err := jwt.NewParser().ParseUnverified(cred.IDToken, claims); err != nil {
		return nil, ErrCredentialExpired
	}

	return c.userFromClaims(cred.Subject, claims), nil
}

// EndSession revokes the remote session at the provider's revocation
// endpoint when one is advertised. Providers without one are a no-op.
func (c *Client) EndSession(ctx context.Context, cred *Credential) error {
	var endpoints struct {
		RevocationEndpoint string `json:"revocation_endpoint"`
	}

	if err := c.provider.Claims(&endpoints); err != nil || endpoints.RevocationEndpoint == "" {
		return nil
	}

	token := cred.RefreshToken
	if token == "" {
		token = cred.AccessToken
	}

	form := url.Values{
		"token":         {token},
		"client_id":     {c.config.ClientID},
		"client_secret": {c.config.ClientSecret},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		endpoints.RevocationEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build revocation request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}

	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("revocation endpoint returned %d", resp.StatusCode)
	}

	return nil
}

// userFromClaims maps standard and configured claims onto a console user.
func (c *Client) userFromClaims(subject string, claims map[string]interface{}) *User {
	user := &User{ID: subject}

	if v, ok := claims["email"].(string); ok {
		user.Email = v
	}

	if v, ok := claims["name"].(string); ok {
		user.Name = v
	}

	user.Roles = rolesFromClaims(claims, c.rolesClaim())

	return user
}

func (c *Client) rolesClaim() string {
	if c.config.RolesClaim != "" {
		return c.config.RolesClaim
	}

	return "roles"
}

func rolesFromClaims(claims map[string]interface{}, claim string) []string {
	v, ok := claims[claim]
	if !ok {
		return nil
	}

	switch vv := v.(type) {
	case []string:
		return vv
	case []interface{}:
		roles := make([]string, 0, len(vv))
		for _, r := range vv {
			if s, ok := r.(string); ok {
				roles = append(roles, s)
			}
		}

		return roles
	default:
		return nil
	}
}

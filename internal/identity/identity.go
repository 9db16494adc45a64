package identity

import (
	"context"
	"time"
)

// Source identifies which provider issued a credential.
type Source string

const (
	// SourceLocal marks credentials issued by the local database provider.
	SourceLocal Source = "local"
	// SourceOIDC marks credentials issued through the OIDC redirect flow.
	SourceOIDC Source = "oidc"
)

// User is the console's view of an authenticated principal.
type User struct {
	ID    string
	Email string
	Name  string
	Roles []string
}

// HasAnyRole reports whether the user holds at least one of the given roles.
// An empty argument list means no restriction and always matches.
func (u *User) HasAnyRole(roles ...string) bool {
	if len(roles) == 0 {
		return true
	}

	for _, want := range roles {
		for _, have := range u.Roles {
			if have == want {
				return true
			}
		}
	}

	return false
}

// Credentials carries an interactive login attempt.
type Credentials struct {
	Username string
	Password string
}

// Credential is the persisted proof of a completed authentication.
// It is opaque to everything but this package; the session layer only
// stores and replays it.
type Credential struct {
	Source       Source    `json:"source"`
	Subject      string    `json:"subject"`
	IDToken      string    `json:"id_token,omitempty"`
	AccessToken  string    `json:"access_token,omitempty"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Expired reports whether the credential is past its expiry.
func (c *Credential) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

// Service composes the configured providers behind one surface.
// Either provider may be nil when disabled by configuration.
type Service struct {
	local     *LocalProvider
	oidc      *Client
	localTTL  time.Duration
	nowSource func() time.Time
}

// NewService creates the identity service. ttl bounds the lifetime of
// credentials issued by the local provider.
func NewService(local *LocalProvider, oidc *Client, ttl time.Duration) *Service {
	return &Service{
		local:     local,
		oidc:      oidc,
		localTTL:  ttl,
		nowSource: time.Now,
	}
}

// Authenticate performs an interactive username/password login through the
// local provider.
func (s *Service) Authenticate(ctx context.Context, creds Credentials) (*User, *Credential, error) {
	if s.local == nil {
		return nil, nil, ErrLocalAuthDisabled
	}

	user, err := s.local.Authenticate(ctx, creds.Username, creds.Password)
	if err != nil {
		return nil, nil, err
	}

	cred := &Credential{
		Source:    SourceLocal,
		Subject:   user.ID,
		ExpiresAt: s.nowSource().Add(s.localTTL),
	}

	return user, cred, nil
}

// Resolve re-derives the user behind a persisted credential without user
// interaction. An expired or unusable credential yields ErrCredentialExpired;
// callers treat that the same as "not authenticated".
func (s *Service) Resolve(ctx context.Context, cred *Credential) (*User, error) {
	if cred == nil {
		return nil, ErrCredentialExpired
	}

	if cred.Expired(s.nowSource()) {
		return nil, ErrCredentialExpired
	}

	switch cred.Source {
	case SourceLocal:
		if s.local == nil {
			return nil, ErrLocalAuthDisabled
		}

		return s.local.Resolve(ctx, cred.Subject)
	case SourceOIDC:
		if s.oidc == nil {
			return nil, ErrOIDCDisabled
		}

		return s.oidc.Resolve(ctx, cred)
	default:
		return nil, ErrUnknownCredentialSource
	}
}

// EndSession revokes the remote session behind the credential where the
// provider supports it. Local credentials have no remote session to end.
func (s *Service) EndSession(ctx context.Context, cred *Credential) error {
	if cred == nil || cred.Source != SourceOIDC || s.oidc == nil {
		return nil
	}

	return s.oidc.EndSession(ctx, cred)
}

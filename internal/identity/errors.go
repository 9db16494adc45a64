package identity

import "errors"

var (
	// ErrInvalidCredentials is returned when the provided username and/or
	// password do not match a local account.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrUserNotFound is returned when a user behind a credential no longer
	// exists in the console database.
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAccountDisabled is returned when authenticating or resolving a
	// disabled account.
	ErrUserAccountDisabled = errors.New("user account is disabled")

	// ErrCredentialExpired is returned when a persisted credential is past
	// its expiry. Callers treat this the same as "not authenticated".
	ErrCredentialExpired = errors.New("credential expired")

	// ErrUnknownCredentialSource is returned when a persisted credential names
	// a provider this build does not know.
	ErrUnknownCredentialSource = errors.New("unknown credential source")

	// ErrLocalAuthDisabled is returned when local authentication is disabled
	// by configuration.
	ErrLocalAuthDisabled = errors.New("local authentication is disabled")

	// ErrOIDCDisabled is returned when OIDC is disabled via configuration.
	ErrOIDCDisabled = errors.New("oidc authentication is disabled")

	// ErrNoIDToken is returned when the OAuth2 token response doesn't contain
	// an ID token. This typically indicates a misconfigured OIDC provider.
	ErrNoIDToken = errors.New("no id_token in token response")
)

// Package identity implements the identity-provider boundary of the console.
//
// The console itself never validates tokens cryptographically and never talks
// to the identity provider beyond two well-defined flows:
//
//   - Local credential authentication against the console database with
//     Argon2id password hashing (LocalProvider).
//   - A redirect-based OAuth2/OIDC flow that terminates at the console's
//     callback route (Client); the code exchange and ID token verification
//     happen once, at callback time, and the resulting credential is
//     persisted by the session layer.
//
// The Service type composes both providers behind a single surface the
// session store consumes: Authenticate for interactive logins, Resolve to
// re-derive a user from a persisted credential, and EndSession to revoke
// the remote session on sign-out.
package identity

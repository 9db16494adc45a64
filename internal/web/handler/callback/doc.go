// Package callback completes the redirect-based OIDC login flow.
//
// The identity provider sends the browser back to the callback route with an
// authorization code. The handler verifies the CSRF state token, exchanges
// the code through the identity client, persists the resulting credential for
// a fresh session, and then hands the redirect decision to an explicit state
// machine (Flow) fed by session store snapshots: the browser is sent to the
// application root or back to the login page only after the store has made
// its first auth determination. While the store is still resolving, a
// neutral processing page is rendered that reloads the callback route.
package callback

// Package session owns the console's authentication state.
//
// A Store is the single source of truth for one browser session: whether the
// first auth determination has happened (initialized), whether the principal
// is authenticated, who they are, and whether a mutating operation is in
// flight. All writes funnel through Login, Logout and Refresh; no other
// component persists auth state on its own.
//
// State transitions are serialized per store: a second mutating call while
// one is in flight is rejected with ErrOperationInFlight rather than
// interleaved. Reads are cheap snapshots; components that need to react to
// transitions (the OAuth callback handler) subscribe with Watch.
//
// The Manager keeps one Store per session ID and persists the credential
// blob through a storage.Storage backend, so a store can re-derive its state
// after a process restart via Refresh.
package session

// Package guard protects console routes behind the session store.
//
// The redirect decision is a pure function of a session snapshot and the
// route's role requirement (Evaluate), so it can be tested by feeding
// synthetic states. The fiber middleware wraps that decision: it resolves
// the request's store, triggers the first refresh when the store has not
// initialized yet, and then either renders a loading placeholder, redirects,
// or lets the request through with the current user in fiber locals.
//
// Role checks use any-match semantics: one overlapping role between the
// user's set and the route's requirement is sufficient.
package guard

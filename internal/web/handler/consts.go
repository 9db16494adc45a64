// Package handler holds shared constants for the web handler packages.
package handler

const (
	// BaseLayout is the default path for layout templates.
	BaseLayout = "layouts/base"

	// RootPath is the root path of the route group.
	RootPath = "/"

	// SessionCookie is the name of the session cookie.
	SessionCookie = "session"

	// ErrNilDepsFatalLogMsg is used if a handler Init receives a nil dependency.
	ErrNilDepsFatalLogMsg = "handler dependency is nil"
)

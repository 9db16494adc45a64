package eventsapi

import "github.com/pkg/errors"

// ErrUnauthorized is returned when the API rejects the bearer token.
var ErrUnauthorized = errors.New("events api rejected the credential")

package session

import "errors"

var (
	// ErrOperationInFlight is returned when a login, logout or refresh is
	// invoked while another mutating operation on the same store is still
	// running. Callers are expected to drop the duplicate, not retry-loop.
	ErrOperationInFlight = errors.New("session operation already in flight")

	// ErrStorageNil is returned when a manager is constructed without a
	// credential storage backend.
	ErrStorageNil = errors.New("credential storage is nil")
)

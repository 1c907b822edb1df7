package usage

import (
	"errors"
)

var (
	// ErrNetwork marks a transport-level failure: the request never produced
	// an HTTP response. Load paths surface it with a retry hint.
	ErrNetwork = errors.New("server unreachable")

	// ErrUnauthorized marks a 401-class response. Session handling belongs to
	// the portal's auth layer; the client only reports it.
	ErrUnauthorized = errors.New("session expired or token invalid")

	// ErrStaleWrite marks a rejected update: the row changed server-side
	// since this client last read it. Never auto-retried.
	ErrStaleWrite = errors.New("row changed on server since last read")

	// ErrValidation marks any other 4xx carrying a message body.
	ErrValidation = errors.New("rejected by server")

	ErrNotFound = errors.New("usage row not found")
)

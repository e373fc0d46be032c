// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import (
	"errors"
	"strconv"
)

// Sentinel error kinds a SessionError wraps. Callers branch on these with
// errors.Is rather than inspecting SessionError directly.
var (
	// ErrHandshakeTimeout indicates no verack arrived within the
	// configured handshake timeout.
	ErrHandshakeTimeout = errors.New("peer: handshake timed out")

	// ErrConnectionClosed indicates the socket closed, whether cleanly
	// or with an error, before or after the handshake completed.
	ErrConnectionClosed = errors.New("peer: connection closed")

	// ErrConnectionFailed indicates an outbound Dial never reached a
	// live connection.
	ErrConnectionFailed = errors.New("peer: connection failed")
)

// SessionError describes a session-lifecycle failure: which sentinel kind
// it is, and, for ErrConnectionClosed, the close code (0 for a clean EOF,
// a platform errno otherwise, -1 if none could be extracted).
type SessionError struct {
	Kind error
	Code int
}

func (e *SessionError) Error() string {
	if e.Kind == ErrConnectionClosed {
		return "peer: connection closed (code " + strconv.Itoa(e.Code) + ")"
	}
	return e.Kind.Error()
}

// Unwrap lets errors.Is(err, peer.ErrConnectionClosed) and similar see
// through a *SessionError to its sentinel kind.
func (e *SessionError) Unwrap() error { return e.Kind }

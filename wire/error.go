// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import "errors"

// Sentinel errors for the wire-layer error taxonomy. Framing-layer failures
// (Truncated, Malformed, UnknownCommand, ChecksumMismatch) are logged by the
// peer session and the reader re-synchronizes on the next message; the
// session itself is never closed because of them.
var (
	// ErrTruncated indicates the input ended before a complete structure
	// could be read.
	ErrTruncated = errors.New("wire: truncated")

	// ErrMalformed indicates a structural rule was violated, such as an
	// oversize VarInt or a push that claims more bytes than remain.
	ErrMalformed = errors.New("wire: malformed")

	// ErrUnknownCommand indicates a message header named a command this
	// package does not recognize.
	ErrUnknownCommand = errors.New("wire: unknown command")

	// ErrChecksumMismatch indicates the header checksum did not match the
	// double-SHA-256 of the payload.
	ErrChecksumMismatch = errors.New("wire: checksum mismatch")
)

// MessageError describes a failure decoding or encoding a wire message. Op
// names the function where the failure occurred; Err is one of the package
// sentinel errors above so callers can branch with errors.Is.
type MessageError struct {
	Op  string
	Err error
	Msg string
}

func (e *MessageError) Error() string {
	if e.Msg == "" {
		return e.Op + ": " + e.Err.Error()
	}
	return e.Op + ": " + e.Msg + ": " + e.Err.Error()
}

// Unwrap allows errors.Is(err, wire.ErrTruncated) and similar to see through
// a *MessageError to the underlying sentinel.
func (e *MessageError) Unwrap() error { return e.Err }

func messageError(op string, kind error, msg string) *MessageError {
	return &MessageError{Op: op, Err: kind, Msg: msg}
}

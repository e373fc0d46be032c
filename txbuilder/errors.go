// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package txbuilder is an editable form of a transaction: it recognizes the
// standard scriptSig shapes on decode, tracks a missing-signature report per
// input, and can emit the transaction in the three forms a signer, an
// intermediate co-signer, and a broadcaster each need.
package txbuilder

import "errors"

// Sentinel error kinds a BuilderError wraps. Callers branch on these with
// errors.Is rather than inspecting BuilderError directly.
var (
	// ErrUnknownPublicKey indicates a key passed to Sign is not one of
	// the target input's signature slots.
	ErrUnknownPublicKey = errors.New("txbuilder: public key not a slot of this input")

	// ErrDuplicatePublicKey indicates a bare multisig redeem script
	// names the same public key more than once.
	ErrDuplicatePublicKey = errors.New("txbuilder: duplicate public key in redeem script")

	// ErrInvalidRedeemScript indicates a scriptSig shaped as bare multisig
	// (a leading OP_0 and at least three pushes) whose final push does not
	// parse as a bare multisig redeem script. No other form is tried.
	ErrInvalidRedeemScript = errors.New("txbuilder: invalid redeem script")

	// ErrInvalidPrivateKey indicates malformed private key bytes passed
	// to Sign.
	ErrInvalidPrivateKey = errors.New("txbuilder: invalid private key")

	// ErrSigningFailed indicates the underlying ECC signing operation
	// itself failed.
	ErrSigningFailed = errors.New("txbuilder: signing failed")

	// ErrDependencyMissing indicates AddInput referenced an outpoint
	// whose transaction was never registered.
	ErrDependencyMissing = errors.New("txbuilder: dependency not registered")

	// ErrUnrecognizedInput indicates a scriptSig is not a sequence of
	// pushes, or has none, and so matches none of PayToAddress, MofN, or
	// P2SH.
	ErrUnrecognizedInput = errors.New("txbuilder: unrecognized input form")

	// ErrOutputIndexOutOfRange indicates AddInput named an output the
	// predecessor transaction does not have.
	ErrOutputIndexOutOfRange = errors.New("txbuilder: output index out of range")

	// ErrPubKeyHashMismatch indicates the public key AddInput was given
	// does not hash to the predecessor output's pubkey hash.
	ErrPubKeyHashMismatch = errors.New("txbuilder: public key does not match output")

	// ErrUnsupportedPredecessor indicates the predecessor output's
	// scriptPubKey is neither pay-to-pubkey-hash nor pay-to-script-hash.
	ErrUnsupportedPredecessor = errors.New("txbuilder: unsupported predecessor script")

	// ErrInputIndexOutOfRange indicates Sign or AttachRedeemScript named
	// an input the builder does not have.
	ErrInputIndexOutOfRange = errors.New("txbuilder: input index out of range")
)

// BuilderError describes a builder-operation failure: which sentinel kind
// it is and the input index it concerns, when applicable (-1 otherwise).
type BuilderError struct {
	Kind       error
	InputIndex int
}

func (e *BuilderError) Error() string { return e.Kind.Error() }

// Unwrap lets errors.Is(err, txbuilder.ErrSigningFailed) and similar see
// through a *BuilderError to its sentinel kind.
func (e *BuilderError) Unwrap() error { return e.Kind }

func builderError(kind error, inputIndex int) *BuilderError {
	return &BuilderError{Kind: kind, InputIndex: inputIndex}
}

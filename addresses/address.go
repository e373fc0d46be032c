// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package addresses formats and parses the two standard address forms the
// transaction builder and HD keychain need to hand a human: pay-to-pubkey-
// hash and pay-to-script-hash, each a network version byte followed by a
// 20-byte RIPEMD160(SHA256(x)) digest, base58check-encoded.
package addresses

import (
	"errors"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/coinkit/p2pnode/chaincfg"
)

// ErrInvalidAddress is returned when a base58check address string fails to
// decode, carries a checksum that doesn't match, or names a version byte
// no registered network recognizes.
var ErrInvalidAddress = errors.New("addresses: invalid address")

const hash160Size = 20

// Address is a human-formatted, network-qualified pubkey or script hash.
type Address interface {
	// String returns the base58check-encoded address.
	String() string

	// Hash160 returns the 20-byte pubkey or script hash the address
	// commits to.
	Hash160() [hash160Size]byte
}

// PubKeyHashAddress is a pay-to-pubkey-hash address: DUP HASH160 <hash>
// EQUALVERIFY CHECKSIG.
type PubKeyHashAddress struct {
	hash   [hash160Size]byte
	params *chaincfg.Params
}

// NewPubKeyHashAddress wraps a 20-byte hash as a pubkey-hash address for
// the given network.
func NewPubKeyHashAddress(hash []byte, params *chaincfg.Params) (*PubKeyHashAddress, error) {
	if len(hash) != hash160Size {
		return nil, ErrInvalidAddress
	}
	a := &PubKeyHashAddress{params: params}
	copy(a.hash[:], hash)
	return a, nil
}

func (a *PubKeyHashAddress) Hash160() [hash160Size]byte { return a.hash }

func (a *PubKeyHashAddress) String() string {
	return base58.CheckEncode(a.hash[:], a.params.PubKeyHashAddrID)
}

// ScriptHashAddress is a pay-to-script-hash address: HASH160 <hash> EQUAL.
type ScriptHashAddress struct {
	hash   [hash160Size]byte
	params *chaincfg.Params
}

// NewScriptHashAddress wraps a 20-byte hash as a script-hash address for
// the given network.
func NewScriptHashAddress(hash []byte, params *chaincfg.Params) (*ScriptHashAddress, error) {
	if len(hash) != hash160Size {
		return nil, ErrInvalidAddress
	}
	a := &ScriptHashAddress{params: params}
	copy(a.hash[:], hash)
	return a, nil
}

func (a *ScriptHashAddress) Hash160() [hash160Size]byte { return a.hash }

func (a *ScriptHashAddress) String() string {
	return base58.CheckEncode(a.hash[:], a.params.ScriptHashAddrID)
}

// Decode parses a base58check address string into either a
// *PubKeyHashAddress or a *ScriptHashAddress, picking the type by matching
// the decoded version byte against the registered networks.
func Decode(addr string) (Address, error) {
	decoded, version, err := base58.CheckDecode(addr)
	if err != nil {
		return nil, ErrInvalidAddress
	}
	if len(decoded) != hash160Size {
		return nil, ErrInvalidAddress
	}

	switch {
	case chaincfg.IsPubKeyHashAddrID(version):
		return &PubKeyHashAddress{hash: toHash160(decoded), params: paramsForPubKeyHashID(version)}, nil
	case chaincfg.IsScriptHashAddrID(version):
		return &ScriptHashAddress{hash: toHash160(decoded), params: paramsForScriptHashID(version)}, nil
	default:
		return nil, ErrInvalidAddress
	}
}

func toHash160(b []byte) [hash160Size]byte {
	var h [hash160Size]byte
	copy(h[:], b)
	return h
}

// paramsForPubKeyHashID and paramsForScriptHashID return a Params value
// carrying just enough of the registered network's identity to re-encode
// the address it was decoded from. Decode only needs the version byte that
// produced a match, not any other network parameter, so a minimal stand-in
// is sufficient here.
func paramsForPubKeyHashID(id byte) *chaincfg.Params {
	return &chaincfg.Params{PubKeyHashAddrID: id}
}

func paramsForScriptHashID(id byte) *chaincfg.Params {
	return &chaincfg.Params{ScriptHashAddrID: id}
}

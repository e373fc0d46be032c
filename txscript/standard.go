// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package txscript recognizes the handful of standard scriptPubKey shapes
// the transaction builder needs to classify a predecessor output as it
// registers a dependency: pay-to-pubkey-hash, pay-to-script-hash, and bare
// multisig.
package txscript

import "errors"

// Standard opcodes this package's recognizers reference.
const (
	OpDup            = 0x76
	OpHash160        = 0xa9
	OpData20         = 0x14
	OpEqualVerify    = 0x88
	OpEqual          = 0x87
	OpCheckSig       = 0xac
	OpCheckMultiSig  = 0xae
	opSmallIntOffset = 0x50 // OP_1 == opSmallIntOffset+1, through OP_16
)

// ErrInvalidRedeemScript is returned when a script is probed as a bare
// multisig redeem script but does not parse as one.
var ErrInvalidRedeemScript = errors.New("txscript: invalid redeem script")

// ScriptClass identifies the recognized shape of a scriptPubKey or redeem
// script.
type ScriptClass int

const (
	// NonStandardTy is any script this package does not recognize.
	NonStandardTy ScriptClass = iota

	// PubKeyHashTy is DUP HASH160 <20-byte hash> EQUALVERIFY CHECKSIG.
	PubKeyHashTy

	// ScriptHashTy is HASH160 <20-byte hash> EQUAL.
	ScriptHashTy

	// MultiSigTy is OP_m <pubkey>... OP_n CHECKMULTISIG.
	MultiSigTy
)

// ExtractPubKeyHash reports whether script is the standard
// pay-to-pubkey-hash template and, if so, returns the 20-byte hash it
// commits to.
func ExtractPubKeyHash(script []byte) ([]byte, bool) {
	if len(script) == 25 &&
		script[0] == OpDup && script[1] == OpHash160 && script[2] == OpData20 &&
		script[23] == OpEqualVerify && script[24] == OpCheckSig {
		return script[3:23], true
	}
	return nil, false
}

// ExtractScriptHash reports whether script is the standard
// pay-to-script-hash template and, if so, returns the 20-byte hash it
// commits to.
func ExtractScriptHash(script []byte) ([]byte, bool) {
	if len(script) == 23 &&
		script[0] == OpHash160 && script[1] == OpData20 && script[22] == OpEqual {
		return script[2:22], true
	}
	return nil, false
}

// PayToPubKeyHashScript builds the standard pay-to-pubkey-hash template for
// the given 20-byte hash: DUP HASH160 <hash> EQUALVERIFY CHECKSIG.
func PayToPubKeyHashScript(hash []byte) []byte {
	script := make([]byte, 0, 25)
	script = append(script, OpDup, OpHash160, OpData20)
	script = append(script, hash...)
	script = append(script, OpEqualVerify, OpCheckSig)
	return script
}

// PayToScriptHashScript builds the standard pay-to-script-hash template for
// the given 20-byte hash: HASH160 <hash> EQUAL.
func PayToScriptHashScript(hash []byte) []byte {
	script := make([]byte, 0, 23)
	script = append(script, OpHash160, OpData20)
	script = append(script, hash...)
	script = append(script, OpEqual)
	return script
}

// MultiSigDetails is the decomposition of a parsed bare-multisig redeem
// script: the required signature count, the full ordered public key list,
// and the total key count.
type MultiSigDetails struct {
	RequiredSigs int
	PubKeys      [][]byte
	NumPubKeys   int
}

// ExtractMultiSig parses script as OP_m <pubKey>...<pubKey> OP_n
// OP_CHECKMULTISIG, failing with ErrInvalidRedeemScript on any deviation:
// m is script[0]-0x50, n is the second-to-last byte minus 0x50, and there
// must be exactly n pubkey pushes between them.
func ExtractMultiSig(script []byte) (*MultiSigDetails, error) {
	if len(script) < 3 || script[len(script)-1] != OpCheckMultiSig {
		return nil, ErrInvalidRedeemScript
	}

	m := int(script[0]) - opSmallIntOffset
	n := int(script[len(script)-2]) - opSmallIntOffset
	if m < 1 || m > 16 || n < 1 || n > 16 || m > n {
		return nil, ErrInvalidRedeemScript
	}

	pubKeys := make([][]byte, 0, n)
	i := 1
	for len(pubKeys) < n {
		if i >= len(script)-2 {
			return nil, ErrInvalidRedeemScript
		}
		length := int(script[i])
		if length < 1 || length > 0x4b {
			return nil, ErrInvalidRedeemScript
		}
		start := i + 1
		end := start + length
		if end > len(script)-2 {
			return nil, ErrInvalidRedeemScript
		}
		pubKeys = append(pubKeys, script[start:end])
		i = end
	}

	if i != len(script)-2 {
		return nil, ErrInvalidRedeemScript
	}

	return &MultiSigDetails{RequiredSigs: m, PubKeys: pubKeys, NumPubKeys: n}, nil
}

// MultiSigScript builds a bare-multisig redeem script from its components:
// OP_m <pubKey>...<pubKey> OP_n OP_CHECKMULTISIG.
func MultiSigScript(requiredSigs int, pubKeys [][]byte) ([]byte, error) {
	if requiredSigs < 1 || requiredSigs > 16 || len(pubKeys) < requiredSigs || len(pubKeys) > 16 {
		return nil, ErrInvalidRedeemScript
	}

	script := make([]byte, 0, 3+len(pubKeys)*34)
	script = append(script, byte(opSmallIntOffset+requiredSigs))
	for _, pk := range pubKeys {
		if len(pk) > 0x4b {
			return nil, ErrInvalidRedeemScript
		}
		script = append(script, byte(len(pk)))
		script = append(script, pk...)
	}
	script = append(script, byte(opSmallIntOffset+len(pubKeys)), OpCheckMultiSig)
	return script, nil
}

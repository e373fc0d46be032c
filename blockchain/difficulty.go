// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package blockchain holds the handful of block-validation computations
// that sit above the wire and merkle layers: target-bits arithmetic and
// the merkle-root invariant a decoded block must satisfy.
package blockchain

import (
	"errors"
	"math/big"

	"github.com/coinkit/p2pnode/merkle"
	"github.com/coinkit/p2pnode/wire"
)

// Errors surfaced by this package's target-bits conversions.
var (
	// ErrMantissaTooLarge is returned by BigToCompact when a compact
	// encoding's mantissa does not fit in the 23 bits it is allotted.
	ErrMantissaTooLarge = errors.New("blockchain: compact mantissa too large")

	// ErrExponentTooLarge is returned when a compact encoding's exponent
	// exceeds the range this package can shift a 256-bit target by.
	ErrExponentTooLarge = errors.New("blockchain: compact exponent too large")

	// ErrMerkleRootMismatch is returned by CheckMerkleRoot when a block's
	// computed transaction root disagrees with its header's MerkleRoot.
	ErrMerkleRootMismatch = errors.New("blockchain: merkle root mismatch")
)

const (
	// maxCompactExponent bounds the exponent byte BigToCompact will emit,
	// beyond which the result could not fit in a 256-bit target.
	maxCompactExponent = 32
)

var bigOne = big.NewInt(1)

// CompactToBig converts a compact "bits" encoding — (exponent<<24)|mantissa,
// with mantissa occupying the low 23 bits and its sign bit in bit 23 — into
// the big integer target it represents. A negative-sign bit yields a
// negative target exactly as the encoding describes, matching the historical
// behavior bits fields are checked against; CalcWork treats any
// non-positive target as carrying zero work.
func CompactToBig(bits uint32) *big.Int {
	mantissa := bits & 0x007fffff
	isNegative := bits&0x00800000 != 0
	exponent := bits >> 24

	var target big.Int
	if exponent <= 3 {
		mantissa >>= 8 * (3 - exponent)
		target.SetInt64(int64(mantissa))
	} else {
		target.SetInt64(int64(mantissa))
		target.Lsh(&target, uint(8*(exponent-3)))
	}

	if isNegative {
		target.Neg(&target)
	}
	return &target
}

// BigToCompact converts a big integer target into its compact "bits"
// encoding, shifting the mantissa right and incrementing the exponent
// whenever the mantissa's top bit would otherwise collide with the sign
// bit. It fails with ErrMantissaTooLarge or ErrExponentTooLarge if target
// cannot be represented in the 8-bit exponent / 23-bit mantissa encoding.
func BigToCompact(target *big.Int) (uint32, error) {
	if target.Sign() == 0 {
		return 0, nil
	}

	isNegative := target.Sign() < 0
	work := new(big.Int).Abs(target)

	exponent := uint((work.BitLen() + 7) / 8)
	var mantissa uint32
	if exponent <= 3 {
		mantissa = uint32(work.Int64())
		mantissa <<= 8 * (3 - exponent)
	} else {
		shifted := new(big.Int).Rsh(work, 8*(exponent-3))
		mantissa = uint32(shifted.Int64())
	}

	// If the sign bit (bit 23) is set from the shift above, divide the
	// mantissa by 256 and increment the exponent to avoid it being
	// misinterpreted as a negative number.
	if mantissa&0x00800000 != 0 {
		mantissa >>= 8
		exponent++
	}

	if mantissa > 0x007fffff {
		return 0, ErrMantissaTooLarge
	}
	if exponent > maxCompactExponent {
		return 0, ErrExponentTooLarge
	}

	bits := uint32(exponent)<<24 | mantissa
	if isNegative {
		bits |= 0x00800000
	}
	return bits, nil
}

// oneLsh256 is 2^256, used by CalcWork as the numerator of the work
// computation.
var oneLsh256 = new(big.Int).Lsh(big.NewInt(1), 256)

// CalcWork returns the work a block with the given bits field represents:
// floor(2^256 / (target + 1)), or zero if the target decodes to a
// non-positive value.
func CalcWork(bits uint32) *big.Int {
	target := CompactToBig(bits)
	if target.Sign() <= 0 {
		return big.NewInt(0)
	}

	denominator := new(big.Int).Add(target, bigOne)
	return new(big.Int).Div(oneLsh256, denominator)
}

// CheckMerkleRoot recomputes the merkle root over blk's transactions and
// compares it against blk.Header.MerkleRoot, returning ErrMerkleRootMismatch
// on disagreement.
func CheckMerkleRoot(blk *wire.MsgBlock) error {
	root := merkle.CalcRoot(blk.TxHashes())
	if !root.IsEqual(&blk.Header.MerkleRoot) {
		return ErrMerkleRootMismatch
	}
	return nil
}

// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package merkle builds and verifies the full and partial Merkle trees used
// to commit a block's transactions to its header and to prove that a subset
// of them were included without transferring the whole block.
package merkle

import (
	"errors"

	"github.com/coinkit/p2pnode/wire"
)

// Error kinds surfaced by this package.
var (
	// ErrTruncated indicates a partial tree ran out of hashes or flag bits
	// before its traversal completed.
	ErrTruncated = errors.New("merkle: truncated partial tree")

	// ErrExcessBits indicates a partial tree's flag byte string carried
	// trailing bits beyond what the traversal consumed, and at least one
	// of them was set.
	ErrExcessBits = errors.New("merkle: excess non-zero flag bits")

	// ErrRootMismatch indicates a partial tree's recomputed root does not
	// match the root it was built against.
	ErrRootMismatch = errors.New("merkle: recomputed root mismatch")
)

// hashPair returns the double-SHA-256 of left||right, both in internal
// (non-reversed) orientation.
func hashPair(left, right wire.Hash256) wire.Hash256 {
	var buf [wire.HashSize * 2]byte
	copy(buf[:wire.HashSize], left[:])
	copy(buf[wire.HashSize:], right[:])
	return wire.DoubleHash256(buf[:])
}

// CalcRoot computes the Merkle root over leaves. Internal nodes are the
// pairwise hash of their children; when a level has an odd count, its last
// hash is paired with itself. An empty leaf list yields the zero hash.
func CalcRoot(leaves []wire.Hash256) wire.Hash256 {
	if len(leaves) == 0 {
		return wire.Hash256{}
	}

	level := make([]wire.Hash256, len(leaves))
	copy(level, leaves)

	for len(level) > 1 {
		if len(level)%2 == 1 {
			level = append(level, level[len(level)-1])
		}
		next := make([]wire.Hash256, len(level)/2)
		for i := range next {
			next[i] = hashPair(level[2*i], level[2*i+1])
		}
		level = next
	}
	return level[0]
}

// treeDepth returns ceil(log2(n)) for n >= 1, the number of levels above
// the leaves in a tree with n leaves.
func treeDepth(n int) uint {
	var depth uint
	for (1 << depth) < n {
		depth++
	}
	return depth
}

// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"crypto/sha256"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// HashSize is the number of bytes in a Hash256.
const HashSize = chainhash.HashSize

// Hash256 is the fixed-size container for the output of DoubleSha256,
// aliased to the upstream chainhash.Hash so hashes built here compose
// directly with anything else built against that package. Internal
// orientation is chainhash's own: the byte order double-SHA-256 produces
// directly. String() and NewHash256FromStr reverse to the big-endian hex
// form conventionally used for display (block explorers, RPC, log lines).
type Hash256 = chainhash.Hash

// NewHash256FromStr parses the reversed, big-endian hex form produced by
// String back into a Hash256 in internal orientation.
func NewHash256FromStr(s string) (Hash256, error) {
	h, err := chainhash.NewHashFromStr(s)
	if err != nil {
		return Hash256{}, err
	}
	return *h, nil
}

// Sha256 returns the single SHA-256 digest of b.
func Sha256(b []byte) [32]byte {
	return sha256.Sum256(b)
}

// DoubleSha256 returns SHA-256(SHA-256(b)), the hash function used
// everywhere in this package unqualified as "hash".
func DoubleSha256(b []byte) [32]byte {
	first := sha256.Sum256(b)
	return sha256.Sum256(first[:])
}

// DoubleHash256 is DoubleSha256 wrapped in the canonical Hash256 container.
func DoubleHash256(b []byte) Hash256 {
	return Hash256(DoubleSha256(b))
}

// reverseHash returns a copy of h with its bytes reversed, used for the
// wire-level fields that carry the reversed orientation (OutPoint.Hash,
// BlockHeader.PrevBlock/MerkleRoot, InventoryItem.Hash).
func reverseHash(h Hash256) Hash256 {
	var out Hash256
	for i := 0; i < HashSize; i++ {
		out[i] = h[HashSize-1-i]
	}
	return out
}

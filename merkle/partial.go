// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package merkle

import (
	"fmt"

	"github.com/coinkit/p2pnode/wire"
)

// calcTreeWidth returns the number of nodes at the given height of a tree
// with numLeaves leaves, height 0 being the leaves themselves.
func calcTreeWidth(numLeaves int, height uint) int {
	return (numLeaves + (1 << height) - 1) >> height
}

// bitWriter accumulates bits LSB-first into a byte slice, matching the
// on-the-wire flag encoding.
type bitWriter struct {
	bytes []byte
	nBits uint
}

func (w *bitWriter) writeBit(bit bool) {
	if w.nBits%8 == 0 {
		w.bytes = append(w.bytes, 0)
	}
	if bit {
		w.bytes[w.nBits/8] |= 1 << (w.nBits % 8)
	}
	w.nBits++
}

// bitReader reads bits LSB-first from a byte slice.
type bitReader struct {
	bytes []byte
	pos   uint
}

func (r *bitReader) readBit() (bool, error) {
	if r.pos/8 >= uint(len(r.bytes)) {
		return false, ErrTruncated
	}
	bit := (r.bytes[r.pos/8]>>(r.pos%8))&1 != 0
	r.pos++
	return bit, nil
}

// PartialMerkleTree is the compact proof described in §4.3: the total leaf
// count, the minimal hash list, and a flag-bit string that together let a
// verifier recompute the root and recover which leaves were matched
// without needing the full leaf list.
type PartialMerkleTree struct {
	NumTransactions uint32
	Hashes          []wire.Hash256
	Flags           []byte
}

// BuildPartialMerkleTree consumes a matched/unmatched bit per leaf and
// produces the minimal (hash, flag-bit) sequence needed to re-derive the
// root and reveal the matched leaves.
func BuildPartialMerkleTree(leaves []wire.Hash256, matches []bool) (*PartialMerkleTree, error) {
	if len(leaves) != len(matches) {
		return nil, fmt.Errorf("merkle: %d leaves but %d match flags", len(leaves), len(matches))
	}

	pmt := &PartialMerkleTree{NumTransactions: uint32(len(leaves))}
	if len(leaves) == 0 {
		return pmt, nil
	}

	height := treeDepth(len(leaves))
	bw := &bitWriter{}

	var hashAt func(height uint, pos int) wire.Hash256
	hashAt = func(height uint, pos int) wire.Hash256 {
		if height == 0 {
			return leaves[pos]
		}
		left := hashAt(height-1, pos*2)
		width := calcTreeWidth(len(leaves), height-1)
		right := left
		if pos*2+1 < width {
			right = hashAt(height-1, pos*2+1)
		}
		return hashPair(left, right)
	}

	var anyMatchInRange = func(height uint, pos int) bool {
		width := 1 << height
		start := pos * width
		end := start + width
		if end > len(leaves) {
			end = len(leaves)
		}
		for i := start; i < end; i++ {
			if matches[i] {
				return true
			}
		}
		return false
	}

	var traverse func(height uint, pos int)
	traverse = func(height uint, pos int) {
		match := anyMatchInRange(height, pos)
		bw.writeBit(match)

		if height == 0 || !match {
			pmt.Hashes = append(pmt.Hashes, hashAt(height, pos))
			return
		}

		traverse(height-1, pos*2)
		width := calcTreeWidth(len(leaves), height-1)
		if pos*2+1 < width {
			traverse(height-1, pos*2+1)
		}
	}
	traverse(height, 0)

	pmt.Flags = bw.bytes
	return pmt, nil
}

// Extract recomputes the root and returns the indexes and hashes of every
// matched leaf, in leaf order. It fails with ErrTruncated if the hash list
// or flag bits run out mid-traversal, with ErrExcessBits if any flag bit
// beyond the last one the traversal consumed is set, and with
// ErrRootMismatch if the recomputed root does not equal expectedRoot.
func (pmt *PartialMerkleTree) Extract(expectedRoot wire.Hash256) ([]int, []wire.Hash256, error) {
	numLeaves := int(pmt.NumTransactions)
	if numLeaves == 0 {
		if len(pmt.Hashes) != 0 {
			return nil, nil, fmt.Errorf("merkle: empty tree carries hashes")
		}
		return nil, nil, nil
	}

	height := treeDepth(numLeaves)
	br := &bitReader{bytes: pmt.Flags}
	hashIdx := 0

	var matchedIdx []int
	var matchedHashes []wire.Hash256

	var traverse func(height uint, pos int) (wire.Hash256, error)
	traverse = func(height uint, pos int) (wire.Hash256, error) {
		match, err := br.readBit()
		if err != nil {
			return wire.Hash256{}, ErrTruncated
		}

		if height == 0 || !match {
			if hashIdx >= len(pmt.Hashes) {
				return wire.Hash256{}, ErrTruncated
			}
			h := pmt.Hashes[hashIdx]
			hashIdx++
			if height == 0 && match {
				matchedIdx = append(matchedIdx, pos)
				matchedHashes = append(matchedHashes, h)
			}
			return h, nil
		}

		left, err := traverse(height-1, pos*2)
		if err != nil {
			return wire.Hash256{}, err
		}

		width := calcTreeWidth(numLeaves, height-1)
		right := left
		if pos*2+1 < width {
			right, err = traverse(height-1, pos*2+1)
			if err != nil {
				return wire.Hash256{}, err
			}
		}
		return hashPair(left, right), nil
	}

	root, err := traverse(height, 0)
	if err != nil {
		return nil, nil, err
	}

	// Every bit beyond the traversal's last consumed one must be zero;
	// this includes padding to the enclosing byte.
	for i := br.pos; i/8 < uint(len(pmt.Flags)); i++ {
		bit := (pmt.Flags[i/8] >> (i % 8)) & 1
		if bit != 0 {
			return nil, nil, ErrExcessBits
		}
	}

	if !root.IsEqual(&expectedRoot) {
		return nil, nil, ErrRootMismatch
	}

	return matchedIdx, matchedHashes, nil
}

// SerializeSize returns the serialized size of pmt per the wire layout
// {txCount u32 LE, VarInt-prefixed hash list, VarInt-prefixed flag bytes}.
func (pmt *PartialMerkleTree) SerializeSize() int {
	return 4 + wire.VarIntSerializeSize(uint64(len(pmt.Hashes))) + len(pmt.Hashes)*wire.HashSize +
		wire.VarIntSerializeSize(uint64(len(pmt.Flags))) + len(pmt.Flags)
}

// Serialize appends pmt's wire encoding to buf and returns the result.
func (pmt *PartialMerkleTree) Serialize(buf []byte) []byte {
	var scratch [4]byte
	scratch[0] = byte(pmt.NumTransactions)
	scratch[1] = byte(pmt.NumTransactions >> 8)
	scratch[2] = byte(pmt.NumTransactions >> 16)
	scratch[3] = byte(pmt.NumTransactions >> 24)
	buf = append(buf, scratch[:]...)

	buf = wire.AppendVarInt(buf, uint64(len(pmt.Hashes)))
	for _, h := range pmt.Hashes {
		buf = append(buf, h[:]...)
	}

	buf = wire.AppendVarBytes(buf, pmt.Flags)
	return buf
}

// ParsePartialMerkleTree decodes a PartialMerkleTree from its wire form.
func ParsePartialMerkleTree(b []byte) (*PartialMerkleTree, int, error) {
	if len(b) < 4 {
		return nil, 0, fmt.Errorf("merkle: %w: tx count", ErrTruncated)
	}
	pmt := &PartialMerkleTree{
		NumTransactions: uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24,
	}
	off := 4

	hashCount, n, err := wire.ReadVarInt(b[off:])
	if err != nil {
		return nil, 0, err
	}
	off += n

	pmt.Hashes = make([]wire.Hash256, 0, hashCount)
	for i := uint64(0); i < hashCount; i++ {
		if len(b)-off < wire.HashSize {
			return nil, 0, fmt.Errorf("merkle: %w: hash list", ErrTruncated)
		}
		var h wire.Hash256
		copy(h[:], b[off:off+wire.HashSize])
		pmt.Hashes = append(pmt.Hashes, h)
		off += wire.HashSize
	}

	flags, n, err := wire.ReadVarBytes(b[off:], wire.MaxMessagePayload, "merkle flags")
	if err != nil {
		return nil, 0, err
	}
	pmt.Flags = flags
	off += n

	return pmt, off, nil
}

// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package merkle

import (
	"testing"

	"github.com/davecgh/go-spew/spew"

	"github.com/coinkit/p2pnode/wire"
)

func leafHash(b byte) wire.Hash256 {
	var h wire.Hash256
	h[0] = b
	return h
}

func TestCalcRootEmpty(t *testing.T) {
	root := CalcRoot(nil)
	if root != (wire.Hash256{}) {
		t.Error("empty leaf list should yield the zero hash")
	}
}

func TestCalcRootSingleLeafIsItself(t *testing.T) {
	leaf := leafHash(0x42)
	if root := CalcRoot([]wire.Hash256{leaf}); root != leaf {
		t.Errorf("single-leaf root = %s, want %s", root, leaf)
	}
}

func TestCalcRootOddLeafDuplication(t *testing.T) {
	leaves := []wire.Hash256{leafHash(1), leafHash(2), leafHash(3)}
	got := CalcRoot(leaves)

	// By the duplication rule, the odd leaf is paired with itself at each
	// level: root = hash(hash(1,2), hash(3,3)).
	want := hashPair(hashPair(leaves[0], leaves[1]), hashPair(leaves[2], leaves[2]))
	if got != want {
		t.Errorf("CalcRoot = %s, want %s", got, want)
	}
}

func TestPartialMerkleTreeFullMatchRoundTrip(t *testing.T) {
	leaves := make([]wire.Hash256, 7)
	matches := make([]bool, 7)
	for i := range leaves {
		leaves[i] = leafHash(byte(i + 1))
		matches[i] = true
	}
	root := CalcRoot(leaves)

	pmt, err := BuildPartialMerkleTree(leaves, matches)
	if err != nil {
		t.Fatalf("BuildPartialMerkleTree: %v", err)
	}

	idx, hashes, err := pmt.Extract(root)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(idx) != len(leaves) {
		t.Fatalf("matched %d leaves, want %d", len(idx), len(leaves))
	}
	for i, leafIdx := range idx {
		if leafIdx != i || hashes[i] != leaves[i] {
			t.Errorf("matched leaf %d = (%d, %s), want (%d, %s)", i, leafIdx, hashes[i], i, leaves[i])
		}
	}
}

func TestPartialMerkleTreePartialMatch(t *testing.T) {
	leaves := make([]wire.Hash256, 5)
	for i := range leaves {
		leaves[i] = leafHash(byte(i + 1))
	}
	matches := []bool{false, true, false, false, true}
	root := CalcRoot(leaves)

	pmt, err := BuildPartialMerkleTree(leaves, matches)
	if err != nil {
		t.Fatalf("BuildPartialMerkleTree: %v", err)
	}

	idx, hashes, err := pmt.Extract(root)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(idx) != 2 || idx[0] != 1 || idx[1] != 4 {
		t.Fatalf("matched indexes = %v, want [1 4]", idx)
	}
	if hashes[0] != leaves[1] || hashes[1] != leaves[4] {
		t.Error("matched hashes do not correspond to the matched leaves")
	}
}

func TestPartialMerkleTreeSerializeRoundTrip(t *testing.T) {
	leaves := []wire.Hash256{leafHash(1), leafHash(2), leafHash(3), leafHash(4)}
	matches := []bool{false, true, false, false}

	pmt, err := BuildPartialMerkleTree(leaves, matches)
	if err != nil {
		t.Fatalf("BuildPartialMerkleTree: %v", err)
	}

	buf := pmt.Serialize(nil)
	if len(buf) != pmt.SerializeSize() {
		t.Fatalf("SerializeSize() = %d, encoded %d bytes", pmt.SerializeSize(), len(buf))
	}

	got, n, err := ParsePartialMerkleTree(buf)
	if err != nil {
		t.Fatalf("ParsePartialMerkleTree: %v", err)
	}
	if n != len(buf) {
		t.Fatalf("consumed %d bytes, want %d", n, len(buf))
	}
	if got.NumTransactions != pmt.NumTransactions || len(got.Hashes) != len(pmt.Hashes) {
		t.Fatalf("parsed tree does not match original\ngot:  %s\nwant: %s", spew.Sdump(got), spew.Sdump(pmt))
	}

	root := CalcRoot(leaves)
	if _, _, err := got.Extract(root); err != nil {
		t.Fatalf("Extract on parsed tree: %v", err)
	}
}

func TestPartialMerkleTreeRootMismatch(t *testing.T) {
	leaves := []wire.Hash256{leafHash(1), leafHash(2)}
	matches := []bool{true, false}

	pmt, err := BuildPartialMerkleTree(leaves, matches)
	if err != nil {
		t.Fatalf("BuildPartialMerkleTree: %v", err)
	}

	_, _, err = pmt.Extract(leafHash(0xff))
	if err != ErrRootMismatch {
		t.Errorf("Extract against wrong root = %v, want ErrRootMismatch", err)
	}
}

func TestPartialMerkleTreeTruncated(t *testing.T) {
	pmt := &PartialMerkleTree{NumTransactions: 2, Flags: []byte{0x01}}
	_, _, err := pmt.Extract(wire.Hash256{})
	if err != ErrTruncated {
		t.Errorf("Extract with no hashes = %v, want ErrTruncated", err)
	}
}

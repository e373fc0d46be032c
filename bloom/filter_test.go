// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bloom

import (
	"testing"

	"github.com/coinkit/p2pnode/wire"
)

func TestFilterInsertAndMatch(t *testing.T) {
	f := NewFilter(10, 0, 0.01, UpdateNone)

	data := []byte("a transaction identifier, more or less")
	if f.Matches(data) {
		t.Fatal("unloaded filter should not match")
	}

	f.Insert(data)
	if !f.Matches(data) {
		t.Error("filter should match data it was loaded with")
	}
	if f.Matches([]byte("something else entirely")) {
		t.Error("filter matched data it was never given (or got very unlucky)")
	}
}

func TestFilterSerializeRoundTrip(t *testing.T) {
	f := NewFilter(5, 0xdeadbeef, 0.001, UpdateAll)
	f.Insert([]byte("loaded before serializing"))

	buf := f.Serialize(nil)
	if len(buf) != f.SerializeSize() {
		t.Fatalf("SerializeSize() = %d, encoded %d bytes", f.SerializeSize(), len(buf))
	}

	bits, n, err := wire.ReadVarBytes(buf, wire.MaxMessagePayload, "filter bits")
	if err != nil {
		t.Fatalf("ReadVarBytes: %v", err)
	}
	rest := buf[n:]
	hashFuncs := uint32(rest[0]) | uint32(rest[1])<<8 | uint32(rest[2])<<16 | uint32(rest[3])<<24
	tweak := uint32(rest[4]) | uint32(rest[5])<<8 | uint32(rest[6])<<16 | uint32(rest[7])<<24
	updateType := UpdateFlag(rest[8])

	loaded := LoadFilter(bits, hashFuncs, tweak, updateType)
	if !loaded.Matches([]byte("loaded before serializing")) {
		t.Error("filter reloaded from its wire form lost its inserted element")
	}
}

func TestMatchTxAndUpdateByOutpoint(t *testing.T) {
	f := NewFilter(10, 0, 0.01, UpdateAll)

	pubKey := []byte("a 20-byte-ish data push")
	script := append([]byte{byte(len(pubKey))}, pubKey...)

	unrelated := &wire.MsgTx{TxOut: []*wire.TxOut{wire.NewTxOut(1000, []byte{0x51})}}
	if f.MatchTxAndUpdate(unrelated) {
		t.Fatal("filter with no loaded data should not match an unrelated tx")
	}

	f.Insert(pubKey)
	funding := &wire.MsgTx{TxOut: []*wire.TxOut{wire.NewTxOut(1000, script)}}
	if !f.MatchTxAndUpdate(funding) {
		t.Fatal("filter loaded with the pushed data should match the funding tx")
	}

	// MatchTxAndUpdate's UpdateAll path should have inserted funding's
	// outpoint, so a later spend of it matches by outpoint alone.
	fundingHash := funding.TxHash()
	spend := &wire.MsgTx{
		TxIn: []*wire.TxIn{{PreviousOutPoint: wire.NewOutPoint(fundingHash, 0)}},
	}
	if !f.MatchTxAndUpdate(spend) {
		t.Error("a later spend of the matched output should also match")
	}
}

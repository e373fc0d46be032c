// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package addresses

import (
	"testing"

	"github.com/coinkit/p2pnode/chaincfg"
)

func TestPubKeyHashAddressRoundTrip(t *testing.T) {
	hash := make([]byte, hash160Size)
	for i := range hash {
		hash[i] = byte(i)
	}

	addr, err := NewPubKeyHashAddress(hash, &chaincfg.MainNetParams)
	if err != nil {
		t.Fatalf("NewPubKeyHashAddress: %v", err)
	}

	decoded, err := Decode(addr.String())
	if err != nil {
		t.Fatalf("Decode(%s): %v", addr.String(), err)
	}
	pkh, ok := decoded.(*PubKeyHashAddress)
	if !ok {
		t.Fatalf("Decode returned %T, want *PubKeyHashAddress", decoded)
	}
	if pkh.Hash160() != addr.Hash160() {
		t.Error("round-tripped address hash does not match")
	}
}

func TestScriptHashAddressRoundTrip(t *testing.T) {
	hash := make([]byte, hash160Size)
	for i := range hash {
		hash[i] = byte(0xff - i)
	}

	addr, err := NewScriptHashAddress(hash, &chaincfg.MainNetParams)
	if err != nil {
		t.Fatalf("NewScriptHashAddress: %v", err)
	}

	decoded, err := Decode(addr.String())
	if err != nil {
		t.Fatalf("Decode(%s): %v", addr.String(), err)
	}
	if _, ok := decoded.(*ScriptHashAddress); !ok {
		t.Fatalf("Decode returned %T, want *ScriptHashAddress", decoded)
	}
}

func TestNewPubKeyHashAddressWrongLength(t *testing.T) {
	if _, err := NewPubKeyHashAddress([]byte{1, 2, 3}, &chaincfg.MainNetParams); err != ErrInvalidAddress {
		t.Errorf("NewPubKeyHashAddress with bad length = %v, want ErrInvalidAddress", err)
	}
}

func TestDecodeInvalidChecksum(t *testing.T) {
	if _, err := Decode("1BvBMSEYstWetqTFn5Au4m4GFg7xJaNVN3x"); err == nil {
		t.Error("expected error decoding an address with a corrupted checksum")
	}
}

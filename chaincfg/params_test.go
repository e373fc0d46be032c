// Copyright (c) 2014-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"bytes"
	"testing"

	"github.com/coinkit/p2pnode/wire"
)

func TestDefaultNetworksAreRegistered(t *testing.T) {
	if !IsPubKeyHashAddrID(MainNetParams.PubKeyHashAddrID) {
		t.Error("mainnet PubKeyHashAddrID not registered")
	}
	if !IsScriptHashAddrID(TestNetParams.ScriptHashAddrID) {
		t.Error("testnet ScriptHashAddrID not registered")
	}
	if !IsBech32SegwitPrefix(MainNetParams.Bech32HRPSegwit + "1") {
		t.Error("mainnet bech32 prefix not registered")
	}
}

func TestRegisterDuplicateNet(t *testing.T) {
	if err := Register(&MainNetParams); err != ErrDuplicateNet {
		t.Errorf("re-registering mainnet = %v, want ErrDuplicateNet", err)
	}
}

func TestRegisterNewNetwork(t *testing.T) {
	params := &Params{
		Name:             "simnet-test",
		Net:              wire.SimNet,
		PubKeyHashAddrID: 0x3f,
		ScriptHashAddrID: 0x7b,
		HDPrivateKeyID:   [4]byte{0x04, 0x20, 0xb9, 0x00},
		HDPublicKeyID:    [4]byte{0x04, 0x20, 0xbd, 0x3a},
		Bech32HRPSegwit:  "sb",
	}
	if err := Register(params); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if !IsPubKeyHashAddrID(0x3f) {
		t.Error("newly registered PubKeyHashAddrID not recognized")
	}

	pub, err := HDPrivateKeyToPublicKeyID(params.HDPrivateKeyID[:])
	if err != nil {
		t.Fatalf("HDPrivateKeyToPublicKeyID: %v", err)
	}
	if !bytes.Equal(pub, params.HDPublicKeyID[:]) {
		t.Errorf("HD public key id = % x, want % x", pub, params.HDPublicKeyID)
	}
}

func TestHDPrivateKeyToPublicKeyIDUnknown(t *testing.T) {
	if _, err := HDPrivateKeyToPublicKeyID([]byte{0xde, 0xad, 0xbe, 0xef}); err != ErrUnknownHDKeyID {
		t.Errorf("unknown HD key id = %v, want ErrUnknownHDKeyID", err)
	}
}

func TestRegisterHDKeyIDWrongLength(t *testing.T) {
	if err := RegisterHDKeyID([]byte{0x01, 0x02}, []byte{0x01, 0x02, 0x03, 0x04}); err != ErrInvalidHDKeyID {
		t.Errorf("RegisterHDKeyID with a short public id = %v, want ErrInvalidHDKeyID", err)
	}
}

// Copyright (c) 2014-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package hdkeychain

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coinkit/p2pnode/chaincfg"
)

const bip32TestSeedHex = "fffcf9f6f3f0edeae7e4e1dedbd8d5d2cfccc9c6c3c0bdbab7b4b1aeaba8a5a29f9c999693908d8a8784817e7b7875726f6c696663605d5a5754514e4b484542"

func TestBIP32TestVector2MasterKey(t *testing.T) {
	seed, err := hex.DecodeString(bip32TestSeedHex)
	require.NoError(t, err)

	master, err := NewMaster(seed, &chaincfg.MainNetParams)
	require.NoError(t, err)

	const want = "xprv9s21ZrQH143K31xYSDQpPDxsXRTUcvj2iNHm5NUtrGiGG5e2DtALGdso3pGz6ssrdK4PFmM8NSpSBHNqPqm55Qn3LqFtT2emdEXVYsCzC2U"
	assert.Equal(t, want, master.String())
}

func TestBIP32TestVector2DerivationPath(t *testing.T) {
	seed, err := hex.DecodeString(bip32TestSeedHex)
	require.NoError(t, err)

	master, err := NewMaster(seed, &chaincfg.MainNetParams)
	require.NoError(t, err)

	child0, err := master.Child(0)
	require.NoError(t, err)
	child1, err := child0.Child(HardenedKeyStart + 2147483647)
	require.NoError(t, err)
	child2, err := child1.Child(1)
	require.NoError(t, err)

	pub, err := child2.Neuter(&chaincfg.MainNetParams)
	require.NoError(t, err)

	const want = "xpub6DF8uhdarytz3FWdA8TvFSvvAh8dP3283MY7p2V4SeE2wyWmG5mg5EwVvmdMVCQcoNJxGoWaU9DCWh89LojfZ537wTfunKau47EL2dhHKon"
	assert.Equal(t, want, pub.String())
}

func TestExtendedKeySerializeStringRoundTrip(t *testing.T) {
	seed, _ := hex.DecodeString(bip32TestSeedHex)
	master, err := NewMaster(seed, &chaincfg.MainNetParams)
	require.NoError(t, err)

	s := master.String()
	parsed, err := NewKeyFromString(s)
	require.NoError(t, err)
	assert.Equal(t, s, parsed.String())
	assert.True(t, parsed.IsPrivate())
}

func TestChildHardenedFromPublicFails(t *testing.T) {
	seed, _ := hex.DecodeString(bip32TestSeedHex)
	master, err := NewMaster(seed, &chaincfg.MainNetParams)
	require.NoError(t, err)
	pub, err := master.Neuter(&chaincfg.MainNetParams)
	require.NoError(t, err)

	_, err = pub.Child(HardenedKeyStart)
	assert.Equal(t, ErrHardenedChildFromPublic, err)
}

func TestECPrivKeyOnNeuteredKeyFails(t *testing.T) {
	seed, _ := hex.DecodeString(bip32TestSeedHex)
	master, err := NewMaster(seed, &chaincfg.MainNetParams)
	require.NoError(t, err)
	pub, err := master.Neuter(&chaincfg.MainNetParams)
	require.NoError(t, err)

	_, err = pub.ECPrivKey()
	assert.Equal(t, ErrNotPrivate, err)
}

// Copyright (c) 2014-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chaincfg holds the small set of process-wide parameters that
// differ by network: the magic bytes a peer session greets with, the
// address and extended-key version bytes a keychain or address formatter
// consults, and the proof-of-work limit the difficulty engine is bounded
// by. Library packages look these up through the registry below rather
// than importing a specific network's Params directly, so callers may
// register additional networks without modifying this package.
package chaincfg

import (
	"errors"
	"math/big"
	"strings"

	"github.com/coinkit/p2pnode/wire"
)

var bigOne = big.NewInt(1)

// mainPowLimit is the highest proof-of-work value a main-network block may
// have: 2^224 - 1.
var mainPowLimit = new(big.Int).Sub(new(big.Int).Lsh(bigOne, 224), bigOne)

// regressionPowLimit is the highest proof-of-work value a regression-test
// network block may have: 2^255 - 1.
var regressionPowLimit = new(big.Int).Sub(new(big.Int).Lsh(bigOne, 255), bigOne)

// Params defines a peer-to-peer network by the parameters a node must agree
// with its peers on: the magic bytes exchanged in every message header, the
// address and extended-key version bytes, and the proof-of-work limit.
type Params struct {
	// Name is a human-readable identifier for the network.
	Name string

	// Net is the magic bytes that open every message header on this
	// network.
	Net wire.BitcoinNet

	// DefaultPort is the default peer-to-peer TCP port for the network.
	DefaultPort string

	// PowLimit is the highest allowed proof-of-work target, as a big
	// integer.
	PowLimit *big.Int

	// PowLimitBits is PowLimit in its compact ("bits") encoding.
	PowLimitBits uint32

	// PubKeyHashAddrID is the version byte that prefixes a pay-to-pubkey-hash
	// address on this network.
	PubKeyHashAddrID byte

	// ScriptHashAddrID is the version byte that prefixes a pay-to-script-hash
	// address on this network.
	ScriptHashAddrID byte

	// PrivateKeyID is the version byte that prefixes a WIF-encoded private
	// key on this network.
	PrivateKeyID byte

	// HDPrivateKeyID and HDPublicKeyID are the four-byte version prefixes
	// of base58check-encoded BIP32 extended private and public keys,
	// respectively.
	HDPrivateKeyID [4]byte
	HDPublicKeyID  [4]byte

	// HDCoinType is the BIP44 coin type used in this network's default HD
	// derivation path.
	HDCoinType uint32

	// Bech32HRPSegwit is the human-readable part used by Bech32-encoded
	// witness addresses on this network.
	Bech32HRPSegwit string
}

// MainNetParams defines the parameters for the production network.
var MainNetParams = Params{
	Name:             "mainnet",
	Net:              wire.MainNet,
	DefaultPort:      "8333",
	PowLimit:         mainPowLimit,
	PowLimitBits:     0x1d00ffff,
	PubKeyHashAddrID: 0x00,
	ScriptHashAddrID: 0x05,
	PrivateKeyID:     0x80,
	HDPrivateKeyID:   [4]byte{0x04, 0x88, 0xad, 0xe4},
	HDPublicKeyID:    [4]byte{0x04, 0x88, 0xb2, 0x1e},
	HDCoinType:       0,
	Bech32HRPSegwit:  "bc",
}

// TestNetParams defines the parameters for a public test network.
var TestNetParams = Params{
	Name:             "testnet",
	Net:              wire.TestNet3,
	DefaultPort:      "18333",
	PowLimit:         mainPowLimit,
	PowLimitBits:     0x1d00ffff,
	PubKeyHashAddrID: 0x6f,
	ScriptHashAddrID: 0xc4,
	PrivateKeyID:     0xef,
	HDPrivateKeyID:   [4]byte{0x04, 0x35, 0x83, 0x94},
	HDPublicKeyID:    [4]byte{0x04, 0x35, 0x87, 0xcf},
	HDCoinType:       1,
	Bech32HRPSegwit:  "tb",
}

// RegressionNetParams defines the parameters for a local regression-test
// network with a greatly relaxed proof-of-work limit.
var RegressionNetParams = Params{
	Name:             "regtest",
	Net:              wire.TestNet,
	DefaultPort:      "18444",
	PowLimit:         regressionPowLimit,
	PowLimitBits:     0x207fffff,
	PubKeyHashAddrID: 0x6f,
	ScriptHashAddrID: 0xc4,
	PrivateKeyID:     0xef,
	HDPrivateKeyID:   [4]byte{0x04, 0x35, 0x83, 0x94},
	HDPublicKeyID:    [4]byte{0x04, 0x35, 0x87, 0xcf},
	HDCoinType:       1,
	Bech32HRPSegwit:  "bcrt",
}

var (
	// ErrDuplicateNet is returned by Register when params.Net has already
	// been registered, either by an earlier Register call or by one of
	// the default networks above.
	ErrDuplicateNet = errors.New("chaincfg: duplicate network")

	// ErrUnknownHDKeyID is returned by HDPrivateKeyToPublicKeyID when id
	// does not match any registered network's HDPrivateKeyID.
	ErrUnknownHDKeyID = errors.New("chaincfg: unknown hd private key id")

	// ErrInvalidHDKeyID is returned by RegisterHDKeyID when either id is
	// not exactly 4 bytes.
	ErrInvalidHDKeyID = errors.New("chaincfg: invalid hd key id length")
)

var (
	registeredNets       = make(map[wire.BitcoinNet]struct{})
	pubKeyHashAddrIDs    = make(map[byte]struct{})
	scriptHashAddrIDs    = make(map[byte]struct{})
	bech32SegwitPrefixes = make(map[string]struct{})
	hdPrivToPubKeyIDs    = make(map[[4]byte][4]byte)
)

// Register records params.Net, its address version bytes, and its HD
// key version bytes in the process-wide registry so IsPubKeyHashAddrID,
// IsScriptHashAddrID, and HDPrivateKeyToPublicKeyID can recognize them.
// Callers should register every network they intend to operate on as
// early as possible, typically from a main package's init.
func Register(params *Params) error {
	if _, ok := registeredNets[params.Net]; ok {
		return ErrDuplicateNet
	}
	registeredNets[params.Net] = struct{}{}
	pubKeyHashAddrIDs[params.PubKeyHashAddrID] = struct{}{}
	scriptHashAddrIDs[params.ScriptHashAddrID] = struct{}{}

	if err := RegisterHDKeyID(params.HDPublicKeyID[:], params.HDPrivateKeyID[:]); err != nil {
		return err
	}

	bech32SegwitPrefixes[params.Bech32HRPSegwit+"1"] = struct{}{}
	return nil
}

func mustRegister(params *Params) {
	if err := Register(params); err != nil {
		panic("chaincfg: failed to register network: " + err.Error())
	}
}

// IsPubKeyHashAddrID reports whether id prefixes a pay-to-pubkey-hash
// address on any registered network.
func IsPubKeyHashAddrID(id byte) bool {
	_, ok := pubKeyHashAddrIDs[id]
	return ok
}

// IsScriptHashAddrID reports whether id prefixes a pay-to-script-hash
// address on any registered network.
func IsScriptHashAddrID(id byte) bool {
	_, ok := scriptHashAddrIDs[id]
	return ok
}

// IsBech32SegwitPrefix reports whether prefix (including its trailing '1'
// separator) is a known segwit human-readable part on any registered
// network.
func IsBech32SegwitPrefix(prefix string) bool {
	_, ok := bech32SegwitPrefixes[strings.ToLower(prefix)]
	return ok
}

// RegisterHDKeyID records the public/private version-byte pair so
// HDPrivateKeyToPublicKeyID can map one to the other later. Both slices
// must be exactly 4 bytes.
func RegisterHDKeyID(hdPublicKeyID, hdPrivateKeyID []byte) error {
	if len(hdPublicKeyID) != 4 || len(hdPrivateKeyID) != 4 {
		return ErrInvalidHDKeyID
	}
	var privKey, pubKey [4]byte
	copy(privKey[:], hdPrivateKeyID)
	copy(pubKey[:], hdPublicKeyID)
	hdPrivToPubKeyIDs[privKey] = pubKey
	return nil
}

// HDPrivateKeyToPublicKeyID returns the public version-byte id registered
// alongside the given private version-byte id.
func HDPrivateKeyToPublicKeyID(id []byte) ([]byte, error) {
	if len(id) != 4 {
		return nil, ErrUnknownHDKeyID
	}
	var key [4]byte
	copy(key[:], id)
	pub, ok := hdPrivToPubKeyIDs[key]
	if !ok {
		return nil, ErrUnknownHDKeyID
	}
	return pub[:], nil
}

func init() {
	mustRegister(&MainNetParams)
	mustRegister(&TestNetParams)
	mustRegister(&RegressionNetParams)
}

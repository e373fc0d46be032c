// Copyright (c) 2014-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package hdkeychain implements BIP0032 hierarchical deterministic key
// derivation: a master key and chain code derived from a seed, child keys
// derived from a parent by index, and the 78-byte base58check-encoded
// extended key format used to exchange them.
package hdkeychain

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"errors"
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/coinkit/p2pnode/chaincfg"
	"golang.org/x/crypto/ripemd160"
)

// HardenedKeyStart is the index of the first hardened child key, per BIP32.
const HardenedKeyStart = uint32(0x80000000)

// MaxDepth is the deepest a key may be derived, since depth is serialized
// as a single byte.
const MaxDepth = 255

const (
	serializedKeyLen = 78
	pubKeyLen        = 33
	privKeyLen       = 32
)

// Errors this package's derivation and parsing can fail with.
var (
	// ErrDerivationFailed signals that a derived child's private key (or,
	// for the public-only path, its resulting point) fell outside the
	// valid range. Per BIP32, the caller should increment the index and
	// retry; this package does not retry on the caller's behalf.
	ErrDerivationFailed = errors.New("hdkeychain: derivation failed, retry with next index")

	// ErrHardenedChildFromPublic is returned by Child when deriving a
	// hardened index from a public-only (neutered) extended key, which
	// BIP32 makes impossible without the private key.
	ErrHardenedChildFromPublic = errors.New("hdkeychain: cannot derive a hardened child from a public key")

	// ErrNotPrivate is returned by ECPrivKey (and anything that needs the
	// private scalar) when called on a neutered extended key.
	ErrNotPrivate = errors.New("hdkeychain: extended key is not a private key")

	// ErrInvalidExtendedKey is returned when a serialized extended key is
	// malformed: wrong length, bad checksum, or public key data that does
	// not parse as a curve point.
	ErrInvalidExtendedKey = errors.New("hdkeychain: invalid extended key")

	// ErrMaxDepth is returned by Child once depth would overflow the
	// single byte it's serialized into.
	ErrMaxDepth = errors.New("hdkeychain: cannot derive a child beyond max depth")
)

// masterHMACKey is the fixed HMAC key BIP32 uses to derive a master key
// from a seed.
var masterHMACKey = []byte("Bitcoin seed")

// ExtendedKey is a BIP32 node: either a private key with its chain code,
// or the "neutered" public-only form of one, along with enough of its
// ancestry (depth, parent fingerprint, child number) to serialize and
// re-parse it.
type ExtendedKey struct {
	version   [4]byte
	key       []byte // 32-byte private scalar, or 33-byte compressed pubkey
	chainCode []byte // 32 bytes
	parentFP  [4]byte
	depth     uint8
	childNum  uint32
	isPrivate bool
}

// NewMaster derives the master extended private key from a seed, per
// BIP32: I = HMAC-SHA512("Bitcoin seed", seed); IL becomes the master
// private key, IR the master chain code. Fails with ErrDerivationFailed if
// IL is zero or not a valid secp256k1 scalar.
func NewMaster(seed []byte, params *chaincfg.Params) (*ExtendedKey, error) {
	h := hmac.New(sha512.New, masterHMACKey)
	h.Write(seed)
	sum := h.Sum(nil)

	il, ir := sum[:32], sum[32:]
	if !validPrivateScalar(il) {
		return nil, ErrDerivationFailed
	}

	key := &ExtendedKey{
		key:       append([]byte(nil), il...),
		chainCode: append([]byte(nil), ir...),
		depth:     0,
		childNum:  0,
		isPrivate: true,
	}
	copy(key.version[:], params.HDPrivateKeyID[:])
	return key, nil
}

// validPrivateScalar reports whether b, interpreted as a big-endian 32-byte
// integer, is a nonzero value less than the secp256k1 group order.
func validPrivateScalar(b []byte) bool {
	n := new(big.Int).SetBytes(b)
	if n.Sign() == 0 {
		return false
	}
	return n.Cmp(btcec.S256().N) < 0
}

// IsPrivate reports whether key carries the private scalar rather than
// only the public key.
func (k *ExtendedKey) IsPrivate() bool { return k.isPrivate }

// Depth returns the number of derivation steps between key and the master.
func (k *ExtendedKey) Depth() uint8 { return k.depth }

// ChildNum returns the index key was derived at.
func (k *ExtendedKey) ChildNum() uint32 { return k.childNum }

// pubKeyBytes returns the 33-byte compressed public key, computing it from
// the private scalar if necessary.
func (k *ExtendedKey) pubKeyBytes() []byte {
	if !k.isPrivate {
		return k.key
	}
	_, pub := btcec.PrivKeyFromBytes(k.key)
	return pub.SerializeCompressed()
}

// fingerprint returns the first 4 bytes of RIPEMD160(SHA256(pubkey)), used
// as a child's ParentFP field.
func (k *ExtendedKey) fingerprint() [4]byte {
	shaSum := sha256.Sum256(k.pubKeyBytes())
	r := ripemd160.New()
	r.Write(shaSum[:])
	digest := r.Sum(nil)

	var fp [4]byte
	copy(fp[:], digest[:4])
	return fp
}

// Child derives the extended key at index i from k, per BIP32: indices at
// or above HardenedKeyStart are "hardened" and require k to carry the
// private key. Fails with ErrHardenedChildFromPublic, ErrMaxDepth, or
// ErrDerivationFailed (per validPrivateScalar / point-at-infinity checks);
// per BIP32, a caller that receives ErrDerivationFailed should retry at
// i+1.
func (k *ExtendedKey) Child(i uint32) (*ExtendedKey, error) {
	isHardened := i >= HardenedKeyStart
	if isHardened && !k.isPrivate {
		return nil, ErrHardenedChildFromPublic
	}
	if k.depth == MaxDepth {
		return nil, ErrMaxDepth
	}

	var data []byte
	if isHardened {
		data = make([]byte, 0, 37)
		data = append(data, 0x00)
		data = append(data, k.key...)
	} else {
		data = append([]byte(nil), k.pubKeyBytes()...)
	}
	var idx [4]byte
	idx[0] = byte(i >> 24)
	idx[1] = byte(i >> 16)
	idx[2] = byte(i >> 8)
	idx[3] = byte(i)
	data = append(data, idx[:]...)

	h := hmac.New(sha512.New, k.chainCode)
	h.Write(data)
	sum := h.Sum(nil)
	il, ir := sum[:32], sum[32:]

	ilNum := new(big.Int).SetBytes(il)
	if ilNum.Cmp(btcec.S256().N) >= 0 {
		return nil, ErrDerivationFailed
	}

	child := &ExtendedKey{
		version:   k.version,
		chainCode: append([]byte(nil), ir...),
		parentFP:  k.fingerprint(),
		depth:     k.depth + 1,
		childNum:  i,
		isPrivate: k.isPrivate,
	}

	if k.isPrivate {
		parentNum := new(big.Int).SetBytes(k.key)
		childNum := new(big.Int).Add(ilNum, parentNum)
		childNum.Mod(childNum, btcec.S256().N)
		if childNum.Sign() == 0 {
			return nil, ErrDerivationFailed
		}
		keyBytes := childNum.Bytes()
		padded := make([]byte, privKeyLen)
		copy(padded[privKeyLen-len(keyBytes):], keyBytes)
		child.key = padded
		return child, nil
	}

	ilx, ily := btcec.S256().ScalarBaseMult(il)
	parentPub, err := btcec.ParsePubKey(k.key)
	if err != nil {
		return nil, ErrInvalidExtendedKey
	}
	sumX, sumY := btcec.S256().Add(ilx, ily, parentPub.X(), parentPub.Y())
	if sumX.Sign() == 0 && sumY.Sign() == 0 {
		return nil, ErrDerivationFailed
	}
	child.key = pointToCompressed(sumX, sumY)
	return child, nil
}

// pointToCompressed serializes an elliptic curve point in SEC1 compressed
// form: a 0x02/0x03 parity prefix followed by the 32-byte X coordinate.
func pointToCompressed(x, y *big.Int) []byte {
	out := make([]byte, pubKeyLen)
	if y.Bit(0) == 0 {
		out[0] = 0x02
	} else {
		out[0] = 0x03
	}
	xBytes := x.Bytes()
	copy(out[1+(32-len(xBytes)):], xBytes)
	return out
}

// Neuter returns the public-only form of k: the same chain code and
// derivation path, but with the private scalar discarded. Neutering a
// key that is already public-only returns it unchanged.
func (k *ExtendedKey) Neuter(params *chaincfg.Params) (*ExtendedKey, error) {
	if !k.isPrivate {
		return k, nil
	}

	pubVersion, err := chaincfg.HDPrivateKeyToPublicKeyID(k.version[:])
	if err != nil {
		return nil, err
	}

	n := &ExtendedKey{
		key:       k.pubKeyBytes(),
		chainCode: append([]byte(nil), k.chainCode...),
		parentFP:  k.parentFP,
		depth:     k.depth,
		childNum:  k.childNum,
		isPrivate: false,
	}
	copy(n.version[:], pubVersion)
	return n, nil
}

// ECPrivKey returns the key's private scalar. Fails with ErrNotPrivate if
// k is a neutered (public-only) key.
func (k *ExtendedKey) ECPrivKey() (*btcec.PrivateKey, error) {
	if !k.isPrivate {
		return nil, ErrNotPrivate
	}
	priv, _ := btcec.PrivKeyFromBytes(k.key)
	return priv, nil
}

// ECPubKey returns the key's public key.
func (k *ExtendedKey) ECPubKey() (*btcec.PublicKey, error) {
	if k.isPrivate {
		_, pub := btcec.PrivKeyFromBytes(k.key)
		return pub, nil
	}
	return btcec.ParsePubKey(k.key)
}

// serialize appends the 78-byte BIP32 extended key encoding of k to buf:
// version, depth, parent fingerprint, child number, chain code, and
// key data (a leading 0x00 byte followed by the 32-byte private scalar,
// or the 33-byte compressed public key).
func (k *ExtendedKey) serialize(buf []byte) []byte {
	buf = append(buf, k.version[:]...)
	buf = append(buf, k.depth)
	buf = append(buf, k.parentFP[:]...)

	var childNum [4]byte
	childNum[0] = byte(k.childNum >> 24)
	childNum[1] = byte(k.childNum >> 16)
	childNum[2] = byte(k.childNum >> 8)
	childNum[3] = byte(k.childNum)
	buf = append(buf, childNum[:]...)

	buf = append(buf, k.chainCode...)

	if k.isPrivate {
		buf = append(buf, 0x00)
		buf = append(buf, k.key...)
	} else {
		buf = append(buf, k.key...)
	}
	return buf
}

// String returns the base58check-encoded extended key.
func (k *ExtendedKey) String() string {
	buf := k.serialize(make([]byte, 0, serializedKeyLen))
	return base58.Encode(appendChecksum(buf))
}

// appendChecksum appends the first 4 bytes of double-SHA-256(buf) to buf,
// the checksum base58check encoding relies on.
func appendChecksum(buf []byte) []byte {
	first := sha256.Sum256(buf)
	second := sha256.Sum256(first[:])
	return append(buf, second[:4]...)
}

// NewKeyFromString parses a base58check-encoded extended key. It does not
// check the version bytes at all: a leading 0x00 byte in the key data makes
// the result a private key, anything else a public key.
func NewKeyFromString(s string) (*ExtendedKey, error) {
	decoded := base58.Decode(s)
	if len(decoded) != serializedKeyLen+4 {
		return nil, ErrInvalidExtendedKey
	}

	payload, checksum := decoded[:serializedKeyLen], decoded[serializedKeyLen:]
	first := sha256.Sum256(payload)
	second := sha256.Sum256(first[:])
	for i := 0; i < 4; i++ {
		if checksum[i] != second[i] {
			return nil, ErrInvalidExtendedKey
		}
	}

	k := &ExtendedKey{}
	copy(k.version[:], payload[0:4])
	k.depth = payload[4]
	copy(k.parentFP[:], payload[5:9])
	k.childNum = uint32(payload[9])<<24 | uint32(payload[10])<<16 | uint32(payload[11])<<8 | uint32(payload[12])
	k.chainCode = append([]byte(nil), payload[13:45]...)

	keyData := payload[45:78]
	if keyData[0] == 0x00 {
		k.isPrivate = true
		k.key = append([]byte(nil), keyData[1:]...)
	} else {
		k.isPrivate = false
		if _, err := btcec.ParsePubKey(keyData); err != nil {
			return nil, ErrInvalidExtendedKey
		}
		k.key = append([]byte(nil), keyData...)
	}

	return k, nil
}

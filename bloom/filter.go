// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package bloom implements the probabilistic membership filter a peer
// loads onto a session with filterload so it can request merkleblock
// proofs instead of full blocks.
package bloom

import (
	"math"

	"github.com/coinkit/p2pnode/wire"
)

// UpdateFlag controls whether and how matchAndUpdate adds an output's
// outpoint back into the filter once its script matched.
type UpdateFlag byte

const (
	// UpdateNone never adds outpoints back into the filter.
	UpdateNone UpdateFlag = 0

	// UpdateAll adds the outpoint of every matched output.
	UpdateAll UpdateFlag = 1

	// UpdateP2PubkeyOnly adds the outpoint only when the matched output
	// is a pay-to-pubkey or bare-multisig script.
	UpdateP2PubkeyOnly UpdateFlag = 2
)

const (
	// maxFilterBytes bounds the serialized bit array, matching the
	// upstream protocol's ceiling.
	maxFilterBytes = 36000

	// maxHashFuncs bounds nHashFuncs for the same reason.
	maxHashFuncs = 50

	// ln2Squared and ln2 are used when sizing a filter from a desired
	// false-positive rate.
	ln2Squared = 0.4804530139182014246671025263266649717305529515945455
	ln2        = 0.6931471805599453094172321214581765680755001343602552
)

// Filter is a Bloom filter over transaction identifiers, outpoints, and
// pushed script data, used to probe whether a peer's blocks or mempool
// contain objects of interest without revealing exactly which ones.
type Filter struct {
	bits       []byte
	hashFuncs  uint32
	tweak      uint32
	updateType UpdateFlag
}

// NewFilter returns a filter sized for elements entries at the given
// false-positive rate fp, seeded with tweak, using updateType for
// matchAndUpdate.
func NewFilter(elements, tweak uint32, fp float64, updateType UpdateFlag) *Filter {
	dataLen := uint32(-1 * float64(elements) * math.Log(fp) / ln2Squared / 8)
	if dataLen > maxFilterBytes {
		dataLen = maxFilterBytes
	}
	if dataLen == 0 {
		dataLen = 1
	}

	hashFuncs := uint32(float64(dataLen*8) / float64(elements) * ln2)
	if hashFuncs > maxHashFuncs {
		hashFuncs = maxHashFuncs
	}
	if hashFuncs == 0 {
		hashFuncs = 1
	}

	return &Filter{
		bits:       make([]byte, dataLen),
		hashFuncs:  hashFuncs,
		tweak:      tweak,
		updateType: updateType,
	}
}

// LoadFilter reconstructs a filter from its wire form.
func LoadFilter(bits []byte, hashFuncs, tweak uint32, updateType UpdateFlag) *Filter {
	return &Filter{bits: bits, hashFuncs: hashFuncs, tweak: tweak, updateType: updateType}
}

// hash returns the bit index data maps to under hash function i.
func (f *Filter) hash(i uint32, data []byte) uint32 {
	seed := i*0xfba4c795 + f.tweak
	return murmur3(seed, data) % (uint32(len(f.bits)) * 8)
}

func (f *Filter) setBit(idx uint32) { f.bits[idx>>3] |= 1 << (idx & 7) }
func (f *Filter) isBitSet(idx uint32) bool {
	return f.bits[idx>>3]&(1<<(idx&7)) != 0
}

// Insert sets the nHashFuncs bits data maps to.
func (f *Filter) Insert(data []byte) {
	for i := uint32(0); i < f.hashFuncs; i++ {
		f.setBit(f.hash(i, data))
	}
}

// AddHash inserts a Hash256 into the filter.
func (f *Filter) AddHash(h *wire.Hash256) { f.Insert(h.CloneBytes()) }

// Matches reports whether every bit data maps to is set.
func (f *Filter) Matches(data []byte) bool {
	for i := uint32(0); i < f.hashFuncs; i++ {
		if !f.isBitSet(f.hash(i, data)) {
			return false
		}
	}
	return true
}

// MatchesOutPoint reports whether op's serialized form matches the filter.
func (f *Filter) MatchesOutPoint(op wire.OutPoint) bool {
	buf := make([]byte, 0, 36)
	buf = append(buf, op.Hash[:]...)
	buf = append(buf,
		byte(op.Index), byte(op.Index>>8), byte(op.Index>>16), byte(op.Index>>24))
	return f.Matches(buf)
}

// MatchTxAndUpdate reports whether tx matches the filter, checking its
// hash, each input's previous outpoint, and every data push in each
// output's script. A matched output's outpoint is inserted back into the
// filter per the configured UpdateFlag, so that a later spend of it also
// matches.
func (f *Filter) MatchTxAndUpdate(tx *wire.MsgTx) bool {
	matched := false

	txHash := tx.TxHash()
	if f.Matches(txHash.CloneBytes()) {
		matched = true
	}

	for i, out := range tx.TxOut {
		for _, data := range pushedData(out.PkScript) {
			if !f.Matches(data) {
				continue
			}
			matched = true

			switch f.updateType {
			case UpdateAll:
				f.AddHash(&txHash)
				f.Insert(outpointBytes(txHash, uint32(i)))
			case UpdateP2PubkeyOnly:
				if isPubkeyOrMultisig(out.PkScript) {
					f.Insert(outpointBytes(txHash, uint32(i)))
				}
			}
		}
	}
	if matched {
		return true
	}

	for _, in := range tx.TxIn {
		if f.MatchesOutPoint(in.PreviousOutPoint) {
			return true
		}
		for _, data := range pushedData(in.SignatureScript) {
			if f.Matches(data) {
				return true
			}
		}
	}

	return false
}

func outpointBytes(hash wire.Hash256, index uint32) []byte {
	buf := make([]byte, 0, 36)
	buf = append(buf, hash[:]...)
	buf = append(buf, byte(index), byte(index>>8), byte(index>>16), byte(index>>24))
	return buf
}

// SerializeSize returns the size of the filter's wire form: the raw bit
// array, VarInt-prefixed, followed by nHashFuncs, nTweak, and the flags
// byte.
func (f *Filter) SerializeSize() int {
	return wire.VarIntSerializeSize(uint64(len(f.bits))) + len(f.bits) + 4 + 4 + 1
}

// Serialize appends the filter's wire form to buf.
func (f *Filter) Serialize(buf []byte) []byte {
	buf = wire.AppendVarBytes(buf, f.bits)
	buf = append(buf,
		byte(f.hashFuncs), byte(f.hashFuncs>>8), byte(f.hashFuncs>>16), byte(f.hashFuncs>>24))
	buf = append(buf,
		byte(f.tweak), byte(f.tweak>>8), byte(f.tweak>>16), byte(f.tweak>>24))
	return append(buf, byte(f.updateType))
}

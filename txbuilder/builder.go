// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txbuilder

import (
	"bytes"
	"encoding/binary"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/coinkit/p2pnode/txscript"
	"github.com/coinkit/p2pnode/wire"
)

// SighashAll is the only sighash flag this builder produces.
const SighashAll uint32 = 1

// Builder is an editable transaction: typed inputs that know how to emit
// their own scriptSig, a dependency map of predecessor transactions, and a
// missing-signature report cached per input.
type Builder struct {
	Version  uint32
	LockTime uint32
	Outputs  []*wire.TxOut

	inputs []*Input
	deps   map[wire.Hash256]*wire.MsgTx

	report      []MissingSigReport
	reportValid bool
}

// New returns an empty builder ready to accept outputs and inputs.
func New() *Builder {
	return &Builder{
		Version: wire.TxVersion,
		deps:    make(map[wire.Hash256]*wire.MsgTx),
	}
}

// AddOutput appends a new output.
func (b *Builder) AddOutput(value int64, pkScript []byte) {
	b.Outputs = append(b.Outputs, wire.NewTxOut(value, pkScript))
	b.invalidate()
}

// RegisterDependency records tx so its outputs are available to AddInput
// and so getSerialized carries it alongside the editable transaction.
func (b *Builder) RegisterDependency(tx *wire.MsgTx) {
	b.deps[tx.TxHash()] = tx
}

// StripDependencies drops every registered dependency not referenced by any
// current input.
func (b *Builder) StripDependencies() {
	referenced := make(map[wire.Hash256]bool, len(b.inputs))
	for _, in := range b.inputs {
		referenced[in.PreviousOutPoint.Hash] = true
	}
	for hash := range b.deps {
		if !referenced[hash] {
			delete(b.deps, hash)
		}
	}
}

// Inputs returns the builder's current inputs. The returned slice shares
// storage with the builder; callers must not mutate it.
func (b *Builder) Inputs() []*Input { return b.inputs }

func (b *Builder) invalidate() { b.reportValid = false }

// AddInput registers a new input spending outIndex of the predecessor
// transaction identified by outHash, which must already be registered via
// RegisterDependency. The predecessor output's scriptPubKey must be either
// pay-to-pubkey-hash, in which case pubKey must hash to the committed
// pubkey hash and a PayToAddress input is created with no signature yet, or
// pay-to-script-hash, in which case an OpaqueP2SH input stub is created
// naming the predecessor's script hash; its redeem script and signatures
// are supplied afterward via AttachRedeemScript.
func (b *Builder) AddInput(outHash wire.Hash256, outIndex uint32, pubKey []byte, sequence uint32) error {
	dep, ok := b.deps[outHash]
	if !ok {
		return builderError(ErrDependencyMissing, -1)
	}
	if int(outIndex) >= len(dep.TxOut) {
		return builderError(ErrOutputIndexOutOfRange, -1)
	}
	pkScript := dep.TxOut[outIndex].PkScript
	prevOut := wire.NewOutPoint(outHash, outIndex)

	if hash, ok := txscript.ExtractPubKeyHash(pkScript); ok {
		if !bytes.Equal(hash160(pubKey), hash) {
			return builderError(ErrPubKeyHashMismatch, len(b.inputs))
		}
		b.inputs = append(b.inputs, &Input{
			Kind:             PayToAddress,
			PreviousOutPoint: prevOut,
			Sequence:         sequence,
			PubKey:           append([]byte(nil), pubKey...),
		})
		b.invalidate()
		return nil
	}

	if _, ok := txscript.ExtractScriptHash(pkScript); ok {
		b.inputs = append(b.inputs, &Input{
			Kind:             OpaqueP2SH,
			PreviousOutPoint: prevOut,
			Sequence:         sequence,
		})
		b.invalidate()
		return nil
	}

	return builderError(ErrUnsupportedPredecessor, len(b.inputs))
}

// AttachRedeemScript supplies the redeem script for an input AddInput
// created as a pay-to-script-hash stub. When the script parses as bare
// multisig the input is reclassified as MofN with one empty signature slot
// per public key; otherwise it remains OpaqueP2SH with an empty signature
// list.
func (b *Builder) AttachRedeemScript(inputIndex int, redeemScript []byte) error {
	if inputIndex < 0 || inputIndex >= len(b.inputs) {
		return builderError(ErrInputIndexOutOfRange, inputIndex)
	}
	in := b.inputs[inputIndex]
	if details, err := txscript.ExtractMultiSig(redeemScript); err == nil {
		in.Kind = MofN
		in.RedeemScript = redeemScript
		in.PubKeysList = details.PubKeys
		in.RequiredSigs = details.RequiredSigs
		in.Signatures = make([][]byte, len(details.PubKeys))
	} else {
		in.Kind = OpaqueP2SH
		in.RedeemScript = redeemScript
		in.Signatures = nil
	}
	b.invalidate()
	return nil
}

// MissingSignatures returns the current per-input missing-signature
// report, recomputing and caching it if the builder has mutated since the
// last call.
func (b *Builder) MissingSignatures() []MissingSigReport {
	if b.reportValid {
		return b.report
	}
	report := make([]MissingSigReport, len(b.inputs))
	for i, in := range b.inputs {
		report[i] = in.missingSigReport(i)
	}
	b.report = report
	b.reportValid = true
	return report
}

// toWire renders the builder's current state as a wire.MsgTx, emitting
// every input's scriptSig in mode.
func (b *Builder) toWire(mode ScriptMode) *wire.MsgTx {
	tx := &wire.MsgTx{Version: b.Version, LockTime: b.LockTime}
	for _, in := range b.inputs {
		tx.TxIn = append(tx.TxIn, &wire.TxIn{
			PreviousOutPoint: in.PreviousOutPoint,
			SignatureScript:  in.scriptSig(mode),
			Sequence:         in.Sequence,
		})
	}
	tx.TxOut = append(tx.TxOut, b.Outputs...)
	return tx
}

// Edit renders the builder's current state in Edit form: every signature
// slot present, empty ones pushed as zero bytes.
func (b *Builder) Edit() *wire.MsgTx { return b.toWire(EditMode) }

// Broadcast renders the builder's current state in Broadcast form: empty
// signature slots omitted.
func (b *Builder) Broadcast() *wire.MsgTx { return b.toWire(BroadcastMode) }

// sigHash computes the SIGHASH_ALL digest for input i: the double-SHA-256
// of the transaction serialized with only input i's scriptSig set to its
// Sign-mode template (every other input's scriptSig emptied), followed by
// the little-endian SIGHASH_ALL flag.
func (b *Builder) sigHash(i int) wire.Hash256 {
	tx := &wire.MsgTx{Version: b.Version, LockTime: b.LockTime}
	for j, in := range b.inputs {
		script := []byte{}
		if j == i {
			script = in.scriptSig(SignMode)
		}
		tx.TxIn = append(tx.TxIn, &wire.TxIn{
			PreviousOutPoint: in.PreviousOutPoint,
			SignatureScript:  script,
			Sequence:         in.Sequence,
		})
	}
	tx.TxOut = append(tx.TxOut, b.Outputs...)

	buf := tx.Serialize(make([]byte, 0, tx.SerializeSize()+4))
	var sh [4]byte
	binary.LittleEndian.PutUint32(sh[:], SighashAll)
	buf = append(buf, sh[:]...)
	return wire.DoubleHash256(buf)
}

// Sign computes input inputIndex's SIGHASH_ALL signature with privKeyBytes
// and deposits it into the matching signature slot: the sole slot for a
// PayToAddress input, or the slot whose public key matches for MofN. It
// fails with ErrInvalidPrivateKey for malformed key bytes, ErrSigningFailed
// if the ECC signing operation itself fails, and ErrUnknownPublicKey if the
// key's public key is not a slot of this input.
func (b *Builder) Sign(inputIndex int, privKeyBytes []byte) error {
	if inputIndex < 0 || inputIndex >= len(b.inputs) {
		return builderError(ErrInputIndexOutOfRange, inputIndex)
	}
	if len(privKeyBytes) != 32 {
		return builderError(ErrInvalidPrivateKey, inputIndex)
	}
	priv, pub := btcec.PrivKeyFromBytes(privKeyBytes)
	if priv == nil {
		return builderError(ErrInvalidPrivateKey, inputIndex)
	}
	pubKeyBytes := pub.SerializeCompressed()

	in := b.inputs[inputIndex]
	hash := b.sigHash(inputIndex)

	sig := ecdsa.Sign(priv, hash[:])
	if sig == nil {
		return builderError(ErrSigningFailed, inputIndex)
	}
	rawSig := append(sig.Serialize(), byte(SighashAll))

	switch in.Kind {
	case PayToAddress:
		if !bytes.Equal(pubKeyBytes, in.PubKey) {
			return builderError(ErrUnknownPublicKey, inputIndex)
		}
		in.Signature = rawSig

	case MofN:
		slot := -1
		for i, pk := range in.PubKeysList {
			if bytes.Equal(pk, pubKeyBytes) {
				slot = i
				break
			}
		}
		if slot < 0 {
			return builderError(ErrUnknownPublicKey, inputIndex)
		}
		in.Signatures[slot] = rawSig

	default:
		return builderError(ErrUnknownPublicKey, inputIndex)
	}

	b.invalidate()
	return nil
}

// GetSerialized emits the builder's Edit-form transaction followed by the
// serialization of each registered dependency, concatenated with no
// separator: each MsgTx's own length-prefixed field structure makes the
// boundary self-describing to SetSerialized.
func (b *Builder) GetSerialized() []byte {
	tx := b.Edit()
	out := tx.Serialize(make([]byte, 0, tx.SerializeSize()))
	for _, dep := range b.deps {
		out = dep.Serialize(out)
	}
	return out
}

// SetSerialized replaces the builder's state by parsing buf as produced by
// GetSerialized: the leading transaction becomes the editable transaction
// (its inputs re-recognized from the shape of their scriptSig alone; the
// trailing dependencies are not consulted for this), and every further
// transaction parsed from the remainder is registered as a dependency.
func SetSerialized(buf []byte) (*Builder, error) {
	tx := &wire.MsgTx{}
	n, err := tx.Parse(buf)
	if err != nil {
		return nil, err
	}
	rest := buf[n:]

	b := New()
	b.Version = tx.Version
	b.LockTime = tx.LockTime
	b.Outputs = tx.TxOut

	for len(rest) > 0 {
		dep := &wire.MsgTx{}
		n, err := dep.Parse(rest)
		if err != nil {
			return nil, err
		}
		b.deps[dep.TxHash()] = dep
		rest = rest[n:]
	}

	for i, ti := range tx.TxIn {
		in, err := recognizeInput(ti.PreviousOutPoint, ti.Sequence, ti.SignatureScript)
		if err != nil {
			return nil, builderError(err, i)
		}
		b.inputs = append(b.inputs, in)
	}

	return b, nil
}

// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"encoding/binary"
	"fmt"
)

// TxVersion is the transaction version this package writes by default.
const TxVersion = 1

// MaxTxInSequenceNum is the maximum sequence number a TxIn may carry.
const MaxTxInSequenceNum uint32 = 0xffffffff

const (
	// minTxInPayload is OutPoint(36) + VarInt(1) + Sequence(4).
	minTxInPayload = 36 + 1 + 4
	maxTxInPerTx   = MaxMessagePayload / minTxInPayload

	// minTxOutPayload is Value(8) + VarInt(1).
	minTxOutPayload = 9
	maxTxOutPerTx   = MaxMessagePayload / minTxOutPayload
)

// OutPoint identifies a previous transaction output by hash and index. Hash
// is reversed on the wire relative to its internal orientation.
type OutPoint struct {
	Hash  Hash256
	Index uint32
}

// NewOutPoint returns an OutPoint for the given hash and index.
func NewOutPoint(hash Hash256, index uint32) OutPoint {
	return OutPoint{Hash: hash, Index: index}
}

func (op OutPoint) serializeSize() int { return HashSize + 4 }

func (op OutPoint) serialize(buf []byte) []byte {
	reversed := reverseHash(op.Hash)
	buf = append(buf, reversed[:]...)
	var idx [4]byte
	binary.LittleEndian.PutUint32(idx[:], op.Index)
	return append(buf, idx[:]...)
}

func parseOutPoint(b []byte) (OutPoint, int, error) {
	var op OutPoint
	if len(b) < op.serializeSize() {
		return op, 0, messageError("OutPoint.Parse", ErrTruncated, "outpoint")
	}
	var wireHash Hash256
	copy(wireHash[:], b[:HashSize])
	op.Hash = reverseHash(wireHash)
	op.Index = binary.LittleEndian.Uint32(b[HashSize:])
	return op, op.serializeSize(), nil
}

// TxIn is a transaction input: the output it spends, the script that
// authorizes spending it, and the sequence number.
type TxIn struct {
	PreviousOutPoint OutPoint
	SignatureScript  []byte
	Sequence         uint32
}

// NewTxIn returns a TxIn with the default maximum sequence number.
func NewTxIn(prevOut OutPoint, sigScript []byte) *TxIn {
	return &TxIn{PreviousOutPoint: prevOut, SignatureScript: sigScript, Sequence: MaxTxInSequenceNum}
}

func (ti *TxIn) serializeSize() int {
	return ti.PreviousOutPoint.serializeSize() +
		VarIntSerializeSize(uint64(len(ti.SignatureScript))) + len(ti.SignatureScript) + 4
}

func (ti *TxIn) serialize(buf []byte) []byte {
	buf = ti.PreviousOutPoint.serialize(buf)
	buf = AppendVarBytes(buf, ti.SignatureScript)
	var seq [4]byte
	binary.LittleEndian.PutUint32(seq[:], ti.Sequence)
	return append(buf, seq[:]...)
}

func parseTxIn(b []byte) (*TxIn, int, error) {
	op, n, err := parseOutPoint(b)
	if err != nil {
		return nil, 0, err
	}
	off := n

	script, n, err := ReadVarBytes(b[off:], MaxMessagePayload, "signature script")
	if err != nil {
		return nil, 0, err
	}
	off += n

	if len(b)-off < 4 {
		return nil, 0, messageError("TxIn.Parse", ErrTruncated, "sequence")
	}
	seq := binary.LittleEndian.Uint32(b[off:])
	off += 4

	return &TxIn{PreviousOutPoint: op, SignatureScript: script, Sequence: seq}, off, nil
}

// TxOut is a transaction output: a value and the script that must be
// satisfied to spend it.
type TxOut struct {
	Value        int64
	PkScript     []byte
}

// NewTxOut returns a TxOut for the given value and script.
func NewTxOut(value int64, pkScript []byte) *TxOut {
	return &TxOut{Value: value, PkScript: pkScript}
}

func (to *TxOut) serializeSize() int {
	return 8 + VarIntSerializeSize(uint64(len(to.PkScript))) + len(to.PkScript)
}

func (to *TxOut) serialize(buf []byte) []byte {
	var val [8]byte
	binary.LittleEndian.PutUint64(val[:], uint64(to.Value))
	buf = append(buf, val[:]...)
	return AppendVarBytes(buf, to.PkScript)
}

func parseTxOut(b []byte) (*TxOut, int, error) {
	if len(b) < 8 {
		return nil, 0, messageError("TxOut.Parse", ErrTruncated, "value")
	}
	value := int64(binary.LittleEndian.Uint64(b))
	off := 8

	script, n, err := ReadVarBytes(b[off:], MaxMessagePayload, "pk script")
	if err != nil {
		return nil, 0, err
	}
	off += n

	return &TxOut{Value: value, PkScript: script}, off, nil
}

// MsgTx is a bitcoin transaction: a version, its inputs and outputs, and a
// lock time. Its identity hash is the double-SHA-256 of its serialization.
type MsgTx struct {
	Version  uint32
	TxIn     []*TxIn
	TxOut    []*TxOut
	LockTime uint32
}

// NewMsgTx returns an empty transaction with the default version.
func NewMsgTx() *MsgTx {
	return &MsgTx{Version: TxVersion}
}

// AddTxIn appends ti to the transaction's inputs.
func (msg *MsgTx) AddTxIn(ti *TxIn) { msg.TxIn = append(msg.TxIn, ti) }

// AddTxOut appends to to the transaction's outputs.
func (msg *MsgTx) AddTxOut(to *TxOut) { msg.TxOut = append(msg.TxOut, to) }

// TxHash returns the transaction's identity hash: the double-SHA-256 of its
// serialized form.
func (msg *MsgTx) TxHash() Hash256 {
	buf := msg.Serialize(make([]byte, 0, msg.SerializeSize()))
	return DoubleHash256(buf)
}

// Copy returns a deep copy of msg so mutating it does not affect the
// original.
func (msg *MsgTx) Copy() *MsgTx {
	out := &MsgTx{
		Version:  msg.Version,
		TxIn:     make([]*TxIn, len(msg.TxIn)),
		TxOut:    make([]*TxOut, len(msg.TxOut)),
		LockTime: msg.LockTime,
	}
	for i, ti := range msg.TxIn {
		script := make([]byte, len(ti.SignatureScript))
		copy(script, ti.SignatureScript)
		out.TxIn[i] = &TxIn{
			PreviousOutPoint: ti.PreviousOutPoint,
			SignatureScript:  script,
			Sequence:         ti.Sequence,
		}
	}
	for i, to := range msg.TxOut {
		script := make([]byte, len(to.PkScript))
		copy(script, to.PkScript)
		out.TxOut[i] = &TxOut{Value: to.Value, PkScript: script}
	}
	return out
}

func (msg *MsgTx) Command() string { return CmdTx }

func (msg *MsgTx) SerializeSize() int {
	n := 8 + VarIntSerializeSize(uint64(len(msg.TxIn))) + VarIntSerializeSize(uint64(len(msg.TxOut)))
	for _, ti := range msg.TxIn {
		n += ti.serializeSize()
	}
	for _, to := range msg.TxOut {
		n += to.serializeSize()
	}
	return n
}

func (msg *MsgTx) Serialize(buf []byte) []byte {
	var ver [4]byte
	binary.LittleEndian.PutUint32(ver[:], msg.Version)
	buf = append(buf, ver[:]...)

	buf = AppendVarInt(buf, uint64(len(msg.TxIn)))
	for _, ti := range msg.TxIn {
		buf = ti.serialize(buf)
	}

	buf = AppendVarInt(buf, uint64(len(msg.TxOut)))
	for _, to := range msg.TxOut {
		buf = to.serialize(buf)
	}

	var lt [4]byte
	binary.LittleEndian.PutUint32(lt[:], msg.LockTime)
	return append(buf, lt[:]...)
}

func (msg *MsgTx) Parse(b []byte) (int, error) {
	if len(b) < 4 {
		return 0, messageError("MsgTx.Parse", ErrTruncated, "version")
	}
	msg.Version = binary.LittleEndian.Uint32(b)
	off := 4

	inCount, n, err := ReadVarInt(b[off:])
	if err != nil {
		return 0, err
	}
	off += n
	if inCount > maxTxInPerTx {
		return 0, messageError("MsgTx.Parse", ErrMalformed,
			fmt.Sprintf("too many inputs: %d", inCount))
	}
	msg.TxIn = make([]*TxIn, 0, inCount)
	for i := uint64(0); i < inCount; i++ {
		ti, n, err := parseTxIn(b[off:])
		if err != nil {
			return 0, err
		}
		msg.TxIn = append(msg.TxIn, ti)
		off += n
	}

	outCount, n, err := ReadVarInt(b[off:])
	if err != nil {
		return 0, err
	}
	off += n
	if outCount > maxTxOutPerTx {
		return 0, messageError("MsgTx.Parse", ErrMalformed,
			fmt.Sprintf("too many outputs: %d", outCount))
	}
	msg.TxOut = make([]*TxOut, 0, outCount)
	for i := uint64(0); i < outCount; i++ {
		to, n, err := parseTxOut(b[off:])
		if err != nil {
			return 0, err
		}
		msg.TxOut = append(msg.TxOut, to)
		off += n
	}

	if len(b)-off < 4 {
		return 0, messageError("MsgTx.Parse", ErrTruncated, "lock time")
	}
	msg.LockTime = binary.LittleEndian.Uint32(b[off:])
	off += 4

	return off, nil
}

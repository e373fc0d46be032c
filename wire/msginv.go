// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"encoding/binary"
	"fmt"
)

// InvType identifies the kind of object an InventoryItem refers to.
type InvType uint32

const (
	InvTypeError InvType = 0
	InvTypeTx    InvType = 1
	InvTypeBlock InvType = 2
)

// InventoryItem identifies a single object (a transaction or a block) by
// type and hash. Hash is reversed on the wire relative to its internal
// orientation.
type InventoryItem struct {
	Type InvType
	Hash Hash256
}

const invItemSize = 4 + HashSize

// MaxInvPerMsg bounds the number of entries a single inv/getdata message
// may carry.
const MaxInvPerMsg = 50000

func serializeInvList(buf []byte, items []InventoryItem) []byte {
	buf = AppendVarInt(buf, uint64(len(items)))
	var scratch [4]byte
	for _, it := range items {
		binary.LittleEndian.PutUint32(scratch[:], uint32(it.Type))
		buf = append(buf, scratch[:]...)
		reversed := reverseHash(it.Hash)
		buf = append(buf, reversed[:]...)
	}
	return buf
}

func parseInvList(op string, b []byte) ([]InventoryItem, int, error) {
	count, off, err := ReadVarInt(b)
	if err != nil {
		return nil, 0, err
	}
	if count > MaxInvPerMsg {
		return nil, 0, messageError(op, ErrMalformed,
			fmt.Sprintf("inventory count %d exceeds max %d", count, MaxInvPerMsg))
	}

	items := make([]InventoryItem, 0, count)
	for i := uint64(0); i < count; i++ {
		if len(b)-off < invItemSize {
			return nil, 0, messageError(op, ErrTruncated, "inventory item")
		}
		typ := InvType(binary.LittleEndian.Uint32(b[off:]))
		off += 4
		var wireHash Hash256
		copy(wireHash[:], b[off:off+HashSize])
		off += HashSize
		items = append(items, InventoryItem{Type: typ, Hash: reverseHash(wireHash)})
	}
	return items, off, nil
}

// MsgInv announces objects the sending peer has available.
type MsgInv struct {
	InvList []InventoryItem
}

func NewMsgInv() *MsgInv { return &MsgInv{InvList: make([]InventoryItem, 0, 10)} }

func (m *MsgInv) AddInvVect(it InventoryItem) error {
	if len(m.InvList) >= MaxInvPerMsg {
		return messageError("MsgInv.AddInvVect", ErrMalformed, "too many inventory items")
	}
	m.InvList = append(m.InvList, it)
	return nil
}

func (m *MsgInv) Command() string     { return CmdInv }
func (m *MsgInv) SerializeSize() int {
	return VarIntSerializeSize(uint64(len(m.InvList))) + len(m.InvList)*invItemSize
}
func (m *MsgInv) Serialize(buf []byte) []byte { return serializeInvList(buf, m.InvList) }
func (m *MsgInv) Parse(b []byte) (int, error) {
	items, n, err := parseInvList("MsgInv.Parse", b)
	if err != nil {
		return 0, err
	}
	m.InvList = items
	return n, nil
}

// MsgGetData requests the full content for a list of previously announced
// inventory items. Its wire shape is identical to MsgInv.
type MsgGetData struct {
	InvList []InventoryItem
}

func NewMsgGetData() *MsgGetData { return &MsgGetData{InvList: make([]InventoryItem, 0, 10)} }

func (m *MsgGetData) AddInvVect(it InventoryItem) error {
	if len(m.InvList) >= MaxInvPerMsg {
		return messageError("MsgGetData.AddInvVect", ErrMalformed, "too many inventory items")
	}
	m.InvList = append(m.InvList, it)
	return nil
}

func (m *MsgGetData) Command() string { return CmdGetData }
func (m *MsgGetData) SerializeSize() int {
	return VarIntSerializeSize(uint64(len(m.InvList))) + len(m.InvList)*invItemSize
}
func (m *MsgGetData) Serialize(buf []byte) []byte { return serializeInvList(buf, m.InvList) }
func (m *MsgGetData) Parse(b []byte) (int, error) {
	items, n, err := parseInvList("MsgGetData.Parse", b)
	if err != nil {
		return 0, err
	}
	m.InvList = items
	return n, nil
}

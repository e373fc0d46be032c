// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import "fmt"

// maxTxPerBlock bounds the number of transactions MsgBlock.Parse will
// allocate for before the bytes backing them have arrived.
const maxTxPerBlock = MaxMessagePayload / minTxOutPayload

// MsgBlock carries a full block: its header followed by every transaction
// it contains.
type MsgBlock struct {
	Header       BlockHeader
	Transactions []*MsgTx
}

// AddTransaction appends tx to the block.
func (m *MsgBlock) AddTransaction(tx *MsgTx) { m.Transactions = append(m.Transactions, tx) }

// BlockHash returns the block's identity hash: its header's hash.
func (m *MsgBlock) BlockHash() Hash256 { return m.Header.BlockHash() }

// TxHashes returns the identity hash of every transaction in the block, in
// order, suitable as merkle tree leaves.
func (m *MsgBlock) TxHashes() []Hash256 {
	hashes := make([]Hash256, len(m.Transactions))
	for i, tx := range m.Transactions {
		hashes[i] = tx.TxHash()
	}
	return hashes
}

func (m *MsgBlock) Command() string { return CmdBlock }

func (m *MsgBlock) SerializeSize() int {
	n := blockHeaderLen + VarIntSerializeSize(uint64(len(m.Transactions)))
	for _, tx := range m.Transactions {
		n += tx.SerializeSize()
	}
	return n
}

func (m *MsgBlock) Serialize(buf []byte) []byte {
	buf = m.Header.serialize(buf)
	buf = AppendVarInt(buf, uint64(len(m.Transactions)))
	for _, tx := range m.Transactions {
		buf = tx.Serialize(buf)
	}
	return buf
}

func (m *MsgBlock) Parse(b []byte) (int, error) {
	header, n, err := parseBlockHeader(b)
	if err != nil {
		return 0, err
	}
	m.Header = header
	off := n

	count, n, err := ReadVarInt(b[off:])
	if err != nil {
		return 0, err
	}
	off += n
	if count > maxTxPerBlock {
		return 0, messageError("MsgBlock.Parse", ErrMalformed,
			fmt.Sprintf("too many transactions: %d", count))
	}

	m.Transactions = make([]*MsgTx, 0, count)
	for i := uint64(0); i < count; i++ {
		tx := new(MsgTx)
		n, err := tx.Parse(b[off:])
		if err != nil {
			return 0, err
		}
		m.Transactions = append(m.Transactions, tx)
		off += n
	}

	return off, nil
}

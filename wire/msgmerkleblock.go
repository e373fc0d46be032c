// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

// MsgMerkleBlock answers a filtered block request: a header plus a
// compressed Merkle proof of which transactions matched the requesting
// peer's Bloom filter. The proof's shape is opaque here; the merkle
// package builds and verifies it from raw hashes and flag bits, and this
// type carries the already-serialized hash list and flags alongside the
// header and total transaction count.
type MsgMerkleBlock struct {
	Header          BlockHeader
	Transactions    uint32
	Hashes          []Hash256
	Flags           []byte
}

func (m *MsgMerkleBlock) Command() string { return CmdMerkleBlock }

func (m *MsgMerkleBlock) SerializeSize() int {
	return blockHeaderLen + 4 +
		VarIntSerializeSize(uint64(len(m.Hashes))) + len(m.Hashes)*HashSize +
		VarIntSerializeSize(uint64(len(m.Flags))) + len(m.Flags)
}

func (m *MsgMerkleBlock) Serialize(buf []byte) []byte {
	buf = m.Header.serialize(buf)

	var scratch [4]byte
	scratch[0] = byte(m.Transactions)
	scratch[1] = byte(m.Transactions >> 8)
	scratch[2] = byte(m.Transactions >> 16)
	scratch[3] = byte(m.Transactions >> 24)
	buf = append(buf, scratch[:]...)

	buf = AppendVarInt(buf, uint64(len(m.Hashes)))
	for _, h := range m.Hashes {
		buf = append(buf, h[:]...)
	}

	return AppendVarBytes(buf, m.Flags)
}

func (m *MsgMerkleBlock) Parse(b []byte) (int, error) {
	header, n, err := parseBlockHeader(b)
	if err != nil {
		return 0, err
	}
	m.Header = header
	off := n

	if len(b)-off < 4 {
		return 0, messageError("MsgMerkleBlock.Parse", ErrTruncated, "transaction count")
	}
	m.Transactions = uint32(b[off]) | uint32(b[off+1])<<8 | uint32(b[off+2])<<16 | uint32(b[off+3])<<24
	off += 4

	hashCount, n, err := ReadVarInt(b[off:])
	if err != nil {
		return 0, err
	}
	off += n

	m.Hashes = make([]Hash256, 0, hashCount)
	for i := uint64(0); i < hashCount; i++ {
		if len(b)-off < HashSize {
			return 0, messageError("MsgMerkleBlock.Parse", ErrTruncated, "merkle hash")
		}
		var h Hash256
		copy(h[:], b[off:off+HashSize])
		m.Hashes = append(m.Hashes, h)
		off += HashSize
	}

	flags, n, err := ReadVarBytes(b[off:], MaxMessagePayload, "merkle flags")
	if err != nil {
		return 0, err
	}
	m.Flags = flags
	off += n

	return off, nil
}

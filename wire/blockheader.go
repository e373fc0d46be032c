// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import "encoding/binary"

// blockHeaderLen is the serialized size of a BlockHeader: three 4-byte
// fields (version, timestamp, bits), two 32-byte hashes, and the 4-byte
// nonce.
const blockHeaderLen = 4 + HashSize + HashSize + 4 + 4 + 4

// BlockHeader identifies and commits to the contents of a block without
// requiring its full transaction list.
type BlockHeader struct {
	Version    int32
	PrevBlock  Hash256
	MerkleRoot Hash256
	Timestamp  int64
	Bits       uint32
	Nonce      uint32
}

// BlockHash returns the header's identity hash: the double-SHA-256 of its
// serialized form.
func (h *BlockHeader) BlockHash() Hash256 {
	buf := h.serialize(make([]byte, 0, blockHeaderLen))
	return DoubleHash256(buf)
}

func (h *BlockHeader) serialize(buf []byte) []byte {
	var scratch [8]byte

	binary.LittleEndian.PutUint32(scratch[:4], uint32(h.Version))
	buf = append(buf, scratch[:4]...)

	prevBlock := reverseHash(h.PrevBlock)
	buf = append(buf, prevBlock[:]...)
	merkleRoot := reverseHash(h.MerkleRoot)
	buf = append(buf, merkleRoot[:]...)

	binary.LittleEndian.PutUint32(scratch[:4], uint32(h.Timestamp))
	buf = append(buf, scratch[:4]...)

	binary.LittleEndian.PutUint32(scratch[:4], h.Bits)
	buf = append(buf, scratch[:4]...)

	binary.LittleEndian.PutUint32(scratch[:4], h.Nonce)
	return append(buf, scratch[:4]...)
}

func parseBlockHeader(b []byte) (BlockHeader, int, error) {
	var h BlockHeader
	if len(b) < blockHeaderLen {
		return h, 0, messageError("BlockHeader.Parse", ErrTruncated, "block header")
	}
	off := 0

	h.Version = int32(binary.LittleEndian.Uint32(b[off:]))
	off += 4

	var wireHash Hash256
	copy(wireHash[:], b[off:off+HashSize])
	h.PrevBlock = reverseHash(wireHash)
	off += HashSize

	copy(wireHash[:], b[off:off+HashSize])
	h.MerkleRoot = reverseHash(wireHash)
	off += HashSize

	h.Timestamp = int64(binary.LittleEndian.Uint32(b[off:]))
	off += 4

	h.Bits = binary.LittleEndian.Uint32(b[off:])
	off += 4

	h.Nonce = binary.LittleEndian.Uint32(b[off:])
	off += 4

	return h, off, nil
}

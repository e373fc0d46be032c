// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"encoding/binary"
	"fmt"
)

// MaxBlockLocatorsPerMsg bounds the number of locator hashes a getblocks or
// getheaders message may carry.
const MaxBlockLocatorsPerMsg = 500

func serializeLocator(buf []byte, protocolVersion uint32, locator []Hash256, hashStop Hash256) []byte {
	var scratch [4]byte
	binary.LittleEndian.PutUint32(scratch[:], protocolVersion)
	buf = append(buf, scratch[:]...)

	buf = AppendVarInt(buf, uint64(len(locator)))
	for _, h := range locator {
		buf = append(buf, h[:]...)
	}
	return append(buf, hashStop[:]...)
}

// parseLocator decodes the {protocolVersion, locator hashes, hashStop}
// layout shared by getblocks and getheaders. The protocol version occupies
// the first 4 bytes; the locator count is read starting at offset 4, the
// position after it, not offset 0 — a superseded revision of the source
// material parsed the count from offset 0 in at least one code path, which
// this package does not reproduce.
func parseLocator(op string, b []byte) (uint32, []Hash256, Hash256, int, error) {
	var hashStop Hash256
	if len(b) < 4 {
		return 0, nil, hashStop, 0, messageError(op, ErrTruncated, "protocol version")
	}
	protocolVersion := binary.LittleEndian.Uint32(b)
	off := 4

	count, n, err := ReadVarInt(b[off:])
	if err != nil {
		return 0, nil, hashStop, 0, err
	}
	off += n
	if count > MaxBlockLocatorsPerMsg {
		return 0, nil, hashStop, 0, messageError(op, ErrMalformed,
			fmt.Sprintf("locator count %d exceeds max %d", count, MaxBlockLocatorsPerMsg))
	}

	locator := make([]Hash256, 0, count)
	for i := uint64(0); i < count; i++ {
		if len(b)-off < HashSize {
			return 0, nil, hashStop, 0, messageError(op, ErrTruncated, "locator hash")
		}
		var h Hash256
		copy(h[:], b[off:off+HashSize])
		locator = append(locator, h)
		off += HashSize
	}

	if len(b)-off < HashSize {
		return 0, nil, hashStop, 0, messageError(op, ErrTruncated, "hash stop")
	}
	copy(hashStop[:], b[off:off+HashSize])
	off += HashSize

	return protocolVersion, locator, hashStop, off, nil
}

// MsgGetBlocks requests an inv of block hashes starting after the first
// locator hash the receiver recognizes, up to HashStop (or 500 entries,
// whichever comes first).
type MsgGetBlocks struct {
	ProtocolVersion    uint32
	BlockLocatorHashes []Hash256
	HashStop           Hash256
}

func (m *MsgGetBlocks) AddBlockLocatorHash(h Hash256) error {
	if len(m.BlockLocatorHashes) >= MaxBlockLocatorsPerMsg {
		return messageError("MsgGetBlocks.AddBlockLocatorHash", ErrMalformed, "too many locator hashes")
	}
	m.BlockLocatorHashes = append(m.BlockLocatorHashes, h)
	return nil
}

func (m *MsgGetBlocks) Command() string { return CmdGetBlocks }
func (m *MsgGetBlocks) SerializeSize() int {
	return 4 + VarIntSerializeSize(uint64(len(m.BlockLocatorHashes))) +
		len(m.BlockLocatorHashes)*HashSize + HashSize
}
func (m *MsgGetBlocks) Serialize(buf []byte) []byte {
	return serializeLocator(buf, m.ProtocolVersion, m.BlockLocatorHashes, m.HashStop)
}
func (m *MsgGetBlocks) Parse(b []byte) (int, error) {
	pver, locator, stop, n, err := parseLocator("MsgGetBlocks.Parse", b)
	if err != nil {
		return 0, err
	}
	m.ProtocolVersion = pver
	m.BlockLocatorHashes = locator
	m.HashStop = stop
	return n, nil
}

// MsgGetHeaders requests a headers message in response, using the same
// locator layout as MsgGetBlocks.
type MsgGetHeaders struct {
	ProtocolVersion    uint32
	BlockLocatorHashes []Hash256
	HashStop           Hash256
}

func (m *MsgGetHeaders) AddBlockLocatorHash(h Hash256) error {
	if len(m.BlockLocatorHashes) >= MaxBlockLocatorsPerMsg {
		return messageError("MsgGetHeaders.AddBlockLocatorHash", ErrMalformed, "too many locator hashes")
	}
	m.BlockLocatorHashes = append(m.BlockLocatorHashes, h)
	return nil
}

func (m *MsgGetHeaders) Command() string { return CmdGetHeaders }
func (m *MsgGetHeaders) SerializeSize() int {
	return 4 + VarIntSerializeSize(uint64(len(m.BlockLocatorHashes))) +
		len(m.BlockLocatorHashes)*HashSize + HashSize
}
func (m *MsgGetHeaders) Serialize(buf []byte) []byte {
	return serializeLocator(buf, m.ProtocolVersion, m.BlockLocatorHashes, m.HashStop)
}
func (m *MsgGetHeaders) Parse(b []byte) (int, error) {
	pver, locator, stop, n, err := parseLocator("MsgGetHeaders.Parse", b)
	if err != nil {
		return 0, err
	}
	m.ProtocolVersion = pver
	m.BlockLocatorHashes = locator
	m.HashStop = stop
	return n, nil
}

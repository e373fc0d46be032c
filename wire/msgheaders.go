// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import "fmt"

// MaxBlockHeadersPerMsg bounds the number of headers a single headers
// message may carry.
const MaxBlockHeadersPerMsg = 2000

// MsgHeaders answers a getheaders request with a run of block headers. Each
// header is followed by a VarInt transaction count that is always zero,
// matching the historical wire layout.
type MsgHeaders struct {
	Headers []*BlockHeader
}

// NewMsgHeaders returns a headers message with no entries.
func NewMsgHeaders() *MsgHeaders {
	return &MsgHeaders{Headers: make([]*BlockHeader, 0, 10)}
}

// AddBlockHeader appends h to the message.
func (m *MsgHeaders) AddBlockHeader(h *BlockHeader) error {
	if len(m.Headers) >= MaxBlockHeadersPerMsg {
		return messageError("MsgHeaders.AddBlockHeader", ErrMalformed, "too many headers")
	}
	m.Headers = append(m.Headers, h)
	return nil
}

func (m *MsgHeaders) Command() string { return CmdHeaders }

func (m *MsgHeaders) SerializeSize() int {
	// Each entry is a header plus a one-byte VarInt(0) transaction count.
	return VarIntSerializeSize(uint64(len(m.Headers))) + len(m.Headers)*(blockHeaderLen+1)
}

func (m *MsgHeaders) Serialize(buf []byte) []byte {
	buf = AppendVarInt(buf, uint64(len(m.Headers)))
	for _, h := range m.Headers {
		buf = h.serialize(buf)
		buf = AppendVarInt(buf, 0)
	}
	return buf
}

func (m *MsgHeaders) Parse(b []byte) (int, error) {
	count, off, err := ReadVarInt(b)
	if err != nil {
		return 0, err
	}
	if count > MaxBlockHeadersPerMsg {
		return 0, messageError("MsgHeaders.Parse", ErrMalformed,
			fmt.Sprintf("header count %d exceeds max %d", count, MaxBlockHeadersPerMsg))
	}

	m.Headers = make([]*BlockHeader, 0, count)
	for i := uint64(0); i < count; i++ {
		h, n, err := parseBlockHeader(b[off:])
		if err != nil {
			return 0, err
		}
		off += n

		txCount, n, err := ReadVarInt(b[off:])
		if err != nil {
			return 0, err
		}
		off += n
		if txCount != 0 {
			return 0, messageError("MsgHeaders.Parse", ErrMalformed,
				fmt.Sprintf("non-zero transaction count %d in header entry", txCount))
		}

		hCopy := h
		m.Headers = append(m.Headers, &hCopy)
	}
	return off, nil
}

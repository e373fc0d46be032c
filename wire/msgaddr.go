// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import "fmt"

// MaxAddrPerMsg is the maximum number of addresses a single addr message
// may carry. It bounds the allocation MsgAddr.Parse performs before the bytes
// backing each entry have arrived.
const MaxAddrPerMsg = 1000

// MsgAddr carries a list of known peer addresses. Unlike the addresses
// embedded in a version message, every entry here carries a Timestamp.
type MsgAddr struct {
	AddrList []NetAddress
}

// NewMsgAddr returns an addr message with no entries.
func NewMsgAddr() *MsgAddr {
	return &MsgAddr{AddrList: make([]NetAddress, 0, 10)}
}

// AddAddress appends na to the message, rejecting it once the per-message
// cap is reached.
func (m *MsgAddr) AddAddress(na NetAddress) error {
	if len(m.AddrList) >= MaxAddrPerMsg {
		return messageError("MsgAddr.AddAddress", ErrMalformed,
			fmt.Sprintf("too many addresses, max %d", MaxAddrPerMsg))
	}
	na.HasTimestamp = true
	m.AddrList = append(m.AddrList, na)
	return nil
}

func (m *MsgAddr) Command() string { return CmdAddr }

func (m *MsgAddr) SerializeSize() int {
	n := VarIntSerializeSize(uint64(len(m.AddrList)))
	for _, na := range m.AddrList {
		n += na.SerializeSize()
	}
	return n
}

func (m *MsgAddr) Serialize(buf []byte) []byte {
	buf = AppendVarInt(buf, uint64(len(m.AddrList)))
	for i := range m.AddrList {
		na := m.AddrList[i]
		na.HasTimestamp = true
		buf = na.Serialize(buf)
	}
	return buf
}

func (m *MsgAddr) Parse(b []byte) (int, error) {
	count, off, err := ReadVarInt(b)
	if err != nil {
		return 0, err
	}
	if count > MaxAddrPerMsg {
		return 0, messageError("MsgAddr.Parse", ErrMalformed,
			fmt.Sprintf("address count %d exceeds max %d", count, MaxAddrPerMsg))
	}

	m.AddrList = make([]NetAddress, 0, count)
	for i := uint64(0); i < count; i++ {
		na, n, err := ParseNetAddress(b[off:], true)
		if err != nil {
			return 0, err
		}
		m.AddrList = append(m.AddrList, na)
		off += n
	}
	return off, nil
}

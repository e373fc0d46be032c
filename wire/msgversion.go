// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import "encoding/binary"

// maxUserAgentLen bounds the user-agent string so a malicious peer can't
// force an unbounded allocation before enough bytes have even arrived.
const maxUserAgentLen = 2000

// MsgVersion implements the version handshake message: protocol version,
// service bits, timestamp, the two peer addresses (without a timestamp
// field), a random nonce, the user agent, start height, and — from
// protocol version 70001 onward — a one-byte relay flag.
type MsgVersion struct {
	ProtocolVersion int32
	Services        uint64
	Timestamp       int64
	AddrRecv        NetAddress
	AddrFrom        NetAddress
	Nonce           uint64
	UserAgent       string
	StartHeight     int32
	Relay           bool
	hasRelay        bool
}

// NewMsgVersion returns a version message ready for Serialize.
func NewMsgVersion(protocolVersion int32, services uint64, timestamp int64,
	addrRecv, addrFrom NetAddress, nonce uint64, userAgent string,
	startHeight int32, relay bool) *MsgVersion {

	addrRecv.HasTimestamp = false
	addrFrom.HasTimestamp = false

	return &MsgVersion{
		ProtocolVersion: protocolVersion,
		Services:        services,
		Timestamp:       timestamp,
		AddrRecv:        addrRecv,
		AddrFrom:        addrFrom,
		Nonce:           nonce,
		UserAgent:       userAgent,
		StartHeight:     startHeight,
		Relay:           relay,
		hasRelay:        protocolVersion >= int32(BIP0037Version),
	}
}

// Command returns "version".
func (m *MsgVersion) Command() string { return CmdVersion }

// SerializeSize returns the encoded size of m.
func (m *MsgVersion) SerializeSize() int {
	n := 4 + 8 + 8 + netAddressSize + netAddressSize + 8
	n += VarStringSerializeSize(m.UserAgent)
	n += 4
	if m.hasRelay {
		n++
	}
	return n
}

// Serialize appends m's wire encoding to buf.
func (m *MsgVersion) Serialize(buf []byte) []byte {
	var scratch [8]byte

	binary.LittleEndian.PutUint32(scratch[:4], uint32(m.ProtocolVersion))
	buf = append(buf, scratch[:4]...)

	binary.LittleEndian.PutUint64(scratch[:], m.Services)
	buf = append(buf, scratch[:]...)

	binary.LittleEndian.PutUint64(scratch[:], uint64(m.Timestamp))
	buf = append(buf, scratch[:]...)

	buf = m.AddrRecv.Serialize(buf)
	buf = m.AddrFrom.Serialize(buf)

	binary.LittleEndian.PutUint64(scratch[:], m.Nonce)
	buf = append(buf, scratch[:]...)

	buf = AppendVarString(buf, m.UserAgent)

	binary.LittleEndian.PutUint32(scratch[:4], uint32(m.StartHeight))
	buf = append(buf, scratch[:4]...)

	if m.hasRelay {
		if m.Relay {
			buf = append(buf, 1)
		} else {
			buf = append(buf, 0)
		}
	}

	return buf
}

// Parse decodes m from the prefix of b.
func (m *MsgVersion) Parse(b []byte) (int, error) {
	const minLen = 4 + 8 + 8 + netAddressSize + netAddressSize + 8
	if len(b) < minLen {
		return 0, messageError("MsgVersion.Parse", ErrTruncated, "fixed fields")
	}

	off := 0
	m.ProtocolVersion = int32(binary.LittleEndian.Uint32(b[off:]))
	off += 4
	m.Services = binary.LittleEndian.Uint64(b[off:])
	off += 8
	m.Timestamp = int64(binary.LittleEndian.Uint64(b[off:]))
	off += 8

	recv, n, err := ParseNetAddress(b[off:], false)
	if err != nil {
		return 0, err
	}
	m.AddrRecv = recv
	off += n

	from, n, err := ParseNetAddress(b[off:], false)
	if err != nil {
		return 0, err
	}
	m.AddrFrom = from
	off += n

	m.Nonce = binary.LittleEndian.Uint64(b[off:])
	off += 8

	ua, n, err := ReadVarString(b[off:], maxUserAgentLen)
	if err != nil {
		return 0, err
	}
	m.UserAgent = ua
	off += n

	if len(b)-off < 4 {
		return 0, messageError("MsgVersion.Parse", ErrTruncated, "start height")
	}
	m.StartHeight = int32(binary.LittleEndian.Uint32(b[off:]))
	off += 4

	m.hasRelay = m.ProtocolVersion >= int32(BIP0037Version)
	if m.hasRelay && len(b) > off {
		m.Relay = b[off] != 0
		off++
	}

	return off, nil
}

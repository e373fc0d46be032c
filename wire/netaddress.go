// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"encoding/binary"
	"net"
)

// ipv4InIPv6Prefix is prepended to an IPv4 address to represent it as the
// 16-byte IPv6 form the wire protocol always uses.
var ipv4InIPv6Prefix = []byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0xff, 0xff}

// NetAddress represents the network address of a peer. Services and the
// optional Timestamp are little-endian on the wire; some historical
// implementations label the timestamp field "big-endian" while their
// observed wire behavior is little-endian, and this package follows the
// wire, not the mislabelled name.
type NetAddress struct {
	// Timestamp is only present on the wire for addr-list entries, never
	// for the version message's embedded addresses. HasTimestamp records
	// which form a given value uses.
	Timestamp    uint32
	HasTimestamp bool
	Services     uint64
	IP           net.IP
	Port         uint16
}

const netAddressSize = 26 // services(8) + ip(16) + port(2)

// SerializeSize returns the number of bytes it takes to serialize na.
func (na *NetAddress) SerializeSize() int {
	n := netAddressSize
	if na.HasTimestamp {
		n += 4
	}
	return n
}

// ip16 returns na.IP normalized to its 16-byte IPv4-in-IPv6 or native IPv6
// representation.
func (na *NetAddress) ip16() [16]byte {
	var out [16]byte
	ip4 := na.IP.To4()
	if ip4 != nil {
		copy(out[:], ipv4InIPv6Prefix)
		copy(out[12:], ip4)
		return out
	}
	ip16 := na.IP.To16()
	if ip16 != nil {
		copy(out[:], ip16)
	}
	return out
}

// Serialize appends na's wire encoding to buf and returns the extended
// slice.
func (na *NetAddress) Serialize(buf []byte) []byte {
	if na.HasTimestamp {
		var ts [4]byte
		binary.LittleEndian.PutUint32(ts[:], na.Timestamp)
		buf = append(buf, ts[:]...)
	}

	var svc [8]byte
	binary.LittleEndian.PutUint64(svc[:], na.Services)
	buf = append(buf, svc[:]...)

	ip := na.ip16()
	buf = append(buf, ip[:]...)

	// Port is the sole big-endian field in the network address.
	var port [2]byte
	binary.BigEndian.PutUint16(port[:], na.Port)
	buf = append(buf, port[:]...)

	return buf
}

// ParseNetAddress parses a NetAddress from the prefix of b. hasTimestamp
// selects whether a leading 4-byte timestamp is present, per the calling
// message's layout (version message addresses never carry one; addr-list
// entries always do).
func ParseNetAddress(b []byte, hasTimestamp bool) (NetAddress, int, error) {
	var na NetAddress
	na.HasTimestamp = hasTimestamp

	need := netAddressSize
	if hasTimestamp {
		need += 4
	}
	if len(b) < need {
		return na, 0, messageError("ParseNetAddress", ErrTruncated, "net address")
	}

	off := 0
	if hasTimestamp {
		na.Timestamp = binary.LittleEndian.Uint32(b[off:])
		off += 4
	}

	na.Services = binary.LittleEndian.Uint64(b[off:])
	off += 8

	ip := make(net.IP, 16)
	copy(ip, b[off:off+16])
	off += 16
	if v4 := ip.To4(); v4 != nil {
		na.IP = v4
	} else {
		na.IP = ip
	}

	na.Port = binary.BigEndian.Uint16(b[off:])
	off += 2

	return na, off, nil
}

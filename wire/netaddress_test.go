// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"net"
	"testing"
)

// TestNetAddressCaptureFixture pins ParseNetAddress/Serialize against a
// hand-built raw byte sequence in the same field order a real addr-list
// entry uses: timestamp (little-endian), services (little-endian), a
// 16-byte IPv4-mapped IP, and a big-endian port. The leading timestamp is
// the field the original C++ source reads with the wrong endianness; this
// fixture exists to pin the little-endian resolution down permanently.
func TestNetAddressCaptureFixture(t *testing.T) {
	raw := []byte{
		0x29, 0xab, 0x5f, 0x49, // timestamp = 0x495fab29, little-endian
		0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // services = 1 (SFNodeNetwork)
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0xff, 0xff, 0x0a, 0x00, 0x00, 0x01, // ::ffff:10.0.0.1
		0x20, 0x8d, // port = 8333, big-endian
	}

	na, n, err := ParseNetAddress(raw, true)
	if err != nil {
		t.Fatalf("ParseNetAddress: %v", err)
	}
	if n != len(raw) {
		t.Fatalf("consumed %d bytes, want %d", n, len(raw))
	}
	if na.Timestamp != 0x495fab29 {
		t.Errorf("timestamp = 0x%x, want 0x495fab29", na.Timestamp)
	}
	if na.Services != 1 {
		t.Errorf("services = %d, want 1", na.Services)
	}
	if !na.IP.Equal(net.ParseIP("10.0.0.1")) {
		t.Errorf("ip = %v, want 10.0.0.1", na.IP)
	}
	if na.Port != 8333 {
		t.Errorf("port = %d, want 8333", na.Port)
	}

	if got := na.Serialize(nil); !bytes.Equal(got, raw) {
		t.Errorf("re-serialized = % x, want % x", got, raw)
	}
}

func TestNetAddressWithoutTimestampRoundTrip(t *testing.T) {
	na := NetAddress{
		Services: 0,
		IP:       net.ParseIP("127.0.0.1"),
		Port:     18333,
	}
	buf := na.Serialize(nil)
	if len(buf) != netAddressSize {
		t.Fatalf("serialized size = %d, want %d", len(buf), netAddressSize)
	}

	got, n, err := ParseNetAddress(buf, false)
	if err != nil {
		t.Fatalf("ParseNetAddress: %v", err)
	}
	if n != netAddressSize {
		t.Errorf("consumed %d bytes, want %d", n, netAddressSize)
	}
	if !got.IP.Equal(na.IP) || got.Port != na.Port {
		t.Errorf("round-tripped address = %+v, want IP=%v Port=%d", got, na.IP, na.Port)
	}
}

func TestNetAddressTruncated(t *testing.T) {
	if _, _, err := ParseNetAddress(make([]byte, netAddressSize-1), false); err == nil {
		t.Error("expected an error parsing a truncated net address")
	}
}

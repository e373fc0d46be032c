// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"net"
	"testing"
)

func testVersionMsg() *MsgVersion {
	recv := NetAddress{Services: uint64(SFNodeNetwork), IP: net.ParseIP("127.0.0.1"), Port: 8333}
	from := NetAddress{Services: uint64(SFNodeNetwork), IP: net.ParseIP("127.0.0.1"), Port: 8334}
	return NewMsgVersion(int32(ProtocolVersion), uint64(SFNodeNetwork), 1600000000, recv, from, 1234, "/coinkit:0.1.0/", 0, true)
}

func TestMessageFramingFixture(t *testing.T) {
	msg := testVersionMsg()
	payload := msg.Serialize(nil)

	framed := WriteMessage(nil, MainNet, msg)

	var wantHeader []byte
	wantHeader = append(wantHeader, 0xf9, 0xbe, 0xb4, 0xd9)
	wantHeader = append(wantHeader, 0x76, 0x65, 0x72, 0x73, 0x69, 0x6f, 0x6e, 0x00, 0x00, 0x00, 0x00, 0x00)
	wantHeader = append(wantHeader,
		byte(len(payload)), byte(len(payload)>>8), byte(len(payload)>>16), byte(len(payload)>>24))
	sum := DoubleSha256(payload)
	wantHeader = append(wantHeader, sum[:4]...)

	if !bytes.Equal(framed[:len(wantHeader)], wantHeader) {
		t.Fatalf("header = % x, want % x", framed[:len(wantHeader)], wantHeader)
	}
	if !bytes.Equal(framed[len(wantHeader):], payload) {
		t.Fatal("payload does not follow header")
	}
}

func TestReadMessageRoundTrip(t *testing.T) {
	msg := testVersionMsg()
	framed := WriteMessage(nil, MainNet, msg)

	got, net, n, err := ReadMessage(framed)
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	if net != MainNet || n != len(framed) {
		t.Fatalf("ReadMessage = (net=%v, n=%d), want (%v, %d)", net, n, MainNet, len(framed))
	}
	gotVer, ok := got.(*MsgVersion)
	if !ok {
		t.Fatalf("ReadMessage returned %T, want *MsgVersion", got)
	}
	if gotVer.UserAgent != msg.UserAgent || gotVer.Nonce != msg.Nonce {
		t.Error("round-tripped version message fields do not match")
	}
}

func TestReadMessageVerAckHasNoChecksum(t *testing.T) {
	framed := WriteMessage(nil, MainNet, &MsgVerAck{})
	if len(framed) != headerSizeNoChecksum {
		t.Fatalf("verack framed length = %d, want %d", len(framed), headerSizeNoChecksum)
	}
	_, _, n, err := ReadMessage(framed)
	if err != nil || n != len(framed) {
		t.Fatalf("ReadMessage(verack) = (%d, %v), want (%d, nil)", n, err, len(framed))
	}
}

func TestReadMessageUnknownCommandConsumesBytes(t *testing.T) {
	msg := testVersionMsg()
	framed := WriteMessage(nil, MainNet, msg)
	// Corrupt the command field to something unrecognized, leaving length
	// and checksum consistent with the payload so only the command lookup
	// fails.
	copy(framed[4:16], []byte("bogus\x00\x00\x00\x00\x00\x00\x00"))

	_, _, n, err := ReadMessage(framed)
	if err == nil {
		t.Fatal("expected ErrUnknownCommand")
	}
	if n != len(framed) {
		t.Errorf("bytes consumed = %d, want %d (full frame, so the reader can resync)", n, len(framed))
	}
}

func TestReadMessageChecksumMismatchConsumesBytes(t *testing.T) {
	msg := testVersionMsg()
	framed := WriteMessage(nil, MainNet, msg)
	framed[len(framed)-1] ^= 0xff // corrupt payload without touching the checksum

	_, _, n, err := ReadMessage(framed)
	if err == nil {
		t.Fatal("expected error from corrupted payload")
	}
	if n != len(framed) {
		t.Errorf("bytes consumed = %d, want %d", n, len(framed))
	}
}

func TestInventoryFixture(t *testing.T) {
	var hash Hash256
	for i := range hash {
		hash[i] = 0x01
	}
	inv := NewMsgInv()
	if err := inv.AddInvVect(InventoryItem{Type: InvTypeBlock, Hash: hash}); err != nil {
		t.Fatal(err)
	}

	got := inv.Serialize(nil)

	want := []byte{0x01, 0x02, 0x00, 0x00, 0x00}
	var hashBytes [32]byte
	for i := range hashBytes {
		hashBytes[i] = 0x01
	}
	want = append(want, hashBytes[:]...)

	if !bytes.Equal(got, want) {
		t.Fatalf("inventory serialize = % x, want % x", got, want)
	}
}

// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"testing"

	"pgregory.net/rapid"
)

func TestVarIntConcreteFixtures(t *testing.T) {
	tests := []struct {
		val  uint64
		want []byte
	}{
		{0xfd, []byte{0xfd, 0xfd, 0x00}},
		{252, []byte{0xfc}},
	}
	for _, tc := range tests {
		got := AppendVarInt(nil, tc.val)
		if !bytes.Equal(got, tc.want) {
			t.Errorf("AppendVarInt(%d) = % x, want % x", tc.val, got, tc.want)
		}
	}
}

func TestVarIntAcceptsAllFourForms(t *testing.T) {
	// 17 fits in one byte, but all four encodings must still decode to it.
	forms := [][]byte{
		{17},
		{0xfd, 17, 0x00},
		{0xfe, 17, 0x00, 0x00, 0x00},
		{0xff, 17, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
	}
	for _, b := range forms {
		val, n, err := ReadVarInt(b)
		if err != nil {
			t.Fatalf("ReadVarInt(% x): %v", b, err)
		}
		if val != 17 || n != len(b) {
			t.Errorf("ReadVarInt(% x) = (%d, %d), want (17, %d)", b, val, n, len(b))
		}
	}
}

func TestVarIntRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		val := rapid.Uint64().Draw(rt, "val")

		buf := AppendVarInt(nil, val)
		if len(buf) != VarIntSerializeSize(val) {
			rt.Fatalf("SerializeSize(%d) = %d, encoded %d bytes", val, VarIntSerializeSize(val), len(buf))
		}

		got, n, err := ReadVarInt(buf)
		if err != nil {
			rt.Fatalf("ReadVarInt: %v", err)
		}
		if got != val || n != len(buf) {
			rt.Fatalf("round trip: got (%d, %d), want (%d, %d)", got, n, val, len(buf))
		}
	})
}

func TestVarIntTruncated(t *testing.T) {
	if _, _, err := ReadVarInt(nil); err == nil {
		t.Error("expected error on empty input")
	}
	if _, _, err := ReadVarInt([]byte{0xff, 1, 2, 3}); err == nil {
		t.Error("expected error on short 8-byte form")
	}
}

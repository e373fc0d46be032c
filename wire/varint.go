// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"encoding/binary"
	"fmt"
)

// Tag bytes that introduce the three multi-byte VarInt encodings.
const (
	varIntTag16 = 0xfd
	varIntTag32 = 0xfe
	varIntTag64 = 0xff
)

// MaxVarIntPayload is the maximum payload size a variable length integer
// can represent.
const MaxVarIntPayload = 9

// VarIntSerializeSize returns the number of bytes it would take to serialize
// val as a variable length integer, always the shortest of the four forms.
func VarIntSerializeSize(val uint64) int {
	switch {
	case val < varIntTag16:
		return 1
	case val <= 0xffff:
		return 3
	case val <= 0xffffffff:
		return 5
	default:
		return 9
	}
}

// WriteVarInt serializes val into buf using the shortest of the four
// self-describing forms and returns the number of bytes written.
func WriteVarInt(buf []byte, val uint64) int {
	switch {
	case val < varIntTag16:
		buf[0] = byte(val)
		return 1
	case val <= 0xffff:
		buf[0] = varIntTag16
		binary.LittleEndian.PutUint16(buf[1:], uint16(val))
		return 3
	case val <= 0xffffffff:
		buf[0] = varIntTag32
		binary.LittleEndian.PutUint32(buf[1:], uint32(val))
		return 5
	default:
		buf[0] = varIntTag64
		binary.LittleEndian.PutUint64(buf[1:], val)
		return 9
	}
}

// AppendVarInt appends the serialized form of val to buf and returns the
// extended slice.
func AppendVarInt(buf []byte, val uint64) []byte {
	var scratch [9]byte
	n := WriteVarInt(scratch[:], val)
	return append(buf, scratch[:n]...)
}

// ReadVarInt parses a VarInt from the prefix of b. It accepts any of the
// four length forms regardless of whether the value could have been
// represented more compactly, per this package's round-trip contract. It
// returns the decoded value and the number of bytes consumed.
func ReadVarInt(b []byte) (uint64, int, error) {
	if len(b) < 1 {
		return 0, 0, messageError("ReadVarInt", ErrTruncated, "empty input")
	}

	switch b[0] {
	case varIntTag64:
		if len(b) < 9 {
			return 0, 0, messageError("ReadVarInt", ErrTruncated, "8-byte form")
		}
		return binary.LittleEndian.Uint64(b[1:9]), 9, nil
	case varIntTag32:
		if len(b) < 5 {
			return 0, 0, messageError("ReadVarInt", ErrTruncated, "4-byte form")
		}
		return uint64(binary.LittleEndian.Uint32(b[1:5])), 5, nil
	case varIntTag16:
		if len(b) < 3 {
			return 0, 0, messageError("ReadVarInt", ErrTruncated, "2-byte form")
		}
		return uint64(binary.LittleEndian.Uint16(b[1:3])), 3, nil
	default:
		return uint64(b[0]), 1, nil
	}
}

// VarStringSerializeSize returns the number of bytes it would take to
// serialize s as a variable length string.
func VarStringSerializeSize(s string) int {
	return VarIntSerializeSize(uint64(len(s))) + len(s)
}

// AppendVarString appends the VarInt-prefixed bytes of s to buf.
func AppendVarString(buf []byte, s string) []byte {
	buf = AppendVarInt(buf, uint64(len(s)))
	return append(buf, s...)
}

// ReadVarString parses a VarInt-prefixed string from the prefix of b,
// rejecting a claimed length that exceeds maxLen to avoid allocating an
// attacker-controlled amount of memory before any bytes have even arrived.
func ReadVarString(b []byte, maxLen uint64) (string, int, error) {
	length, n, err := ReadVarInt(b)
	if err != nil {
		return "", 0, err
	}
	if length > maxLen {
		return "", 0, messageError("ReadVarString", ErrMalformed,
			fmt.Sprintf("string length %d exceeds max %d", length, maxLen))
	}
	if uint64(len(b)-n) < length {
		return "", 0, messageError("ReadVarString", ErrTruncated, "string body")
	}
	return string(b[n : n+int(length)]), n + int(length), nil
}

// AppendVarBytes appends the VarInt-prefixed bytes of p to buf.
func AppendVarBytes(buf []byte, p []byte) []byte {
	buf = AppendVarInt(buf, uint64(len(p)))
	return append(buf, p...)
}

// ReadVarBytes parses a VarInt-prefixed byte string from the prefix of b,
// rejecting a claimed length over maxLen.
func ReadVarBytes(b []byte, maxLen uint64, fieldName string) ([]byte, int, error) {
	length, n, err := ReadVarInt(b)
	if err != nil {
		return nil, 0, err
	}
	if length > maxLen {
		return nil, 0, messageError("ReadVarBytes", ErrMalformed,
			fmt.Sprintf("%s length %d exceeds max %d", fieldName, length, maxLen))
	}
	if uint64(len(b)-n) < length {
		return nil, 0, messageError("ReadVarBytes", ErrTruncated, fieldName)
	}
	out := make([]byte, length)
	copy(out, b[n:n+int(length)])
	return out, n + int(length), nil
}

// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"encoding/binary"
	"fmt"
)

// Command strings, zero-padded to 12 bytes on the wire.
const (
	CmdVersion    = "version"
	CmdVerAck     = "verack"
	CmdAddr       = "addr"
	CmdInv        = "inv"
	CmdGetData    = "getdata"
	CmdGetBlocks  = "getblocks"
	CmdGetHeaders = "getheaders"
	CmdTx         = "tx"
	CmdBlock      = "block"
	CmdHeaders    = "headers"
	CmdGetAddr    = "getaddr"
	CmdMemPool    = "mempool"
	CmdMerkleBlock = "merkleblock"
	CmdFilterLoad  = "filterload"
)

// MaxMessagePayload is the maximum bytes a message payload can be. This
// package will refuse to allocate more than this for any single field or
// message, regardless of what a length prefix on the wire claims.
const MaxMessagePayload = 32 * 1024 * 1024

// commandSize is the fixed, zero-padded width of the command field in a
// message header.
const commandSize = 12

// headerSizeNoChecksum is the header length for the one exception to the
// checksum rule: verack historically carried none.
const headerSizeNoChecksum = 4 + commandSize + 4

// headerSize is the full header length when a checksum is present.
const headerSize = headerSizeNoChecksum + 4

// Message is the common interface every typed payload implements.
type Message interface {
	// Command returns the wire protocol command name for the message.
	Command() string

	// SerializeSize returns the number of bytes the payload would occupy
	// on the wire without constructing it.
	SerializeSize() int

	// Serialize appends the message's wire-encoded payload to buf and
	// returns the extended slice.
	Serialize(buf []byte) []byte

	// Parse decodes the message's payload from the prefix of b and
	// returns the number of bytes consumed.
	Parse(b []byte) (int, error)
}

// knownCommands lists every command this package can decode into a typed
// Message. An unrecognized command fails with ErrUnknownCommand, a
// non-fatal error at the session layer.
var knownCommands = map[string]func() Message{
	CmdVersion:     func() Message { return &MsgVersion{} },
	CmdVerAck:      func() Message { return &MsgVerAck{} },
	CmdAddr:        func() Message { return &MsgAddr{} },
	CmdInv:         func() Message { return &MsgInv{} },
	CmdGetData:     func() Message { return &MsgGetData{} },
	CmdGetBlocks:   func() Message { return &MsgGetBlocks{} },
	CmdGetHeaders:  func() Message { return &MsgGetHeaders{} },
	CmdTx:          func() Message { return &MsgTx{} },
	CmdBlock:       func() Message { return &MsgBlock{} },
	CmdHeaders:     func() Message { return &MsgHeaders{} },
	CmdGetAddr:     func() Message { return &MsgGetAddr{} },
	CmdMemPool:     func() Message { return &MsgMemPool{} },
	CmdMerkleBlock: func() Message { return &MsgMerkleBlock{} },
	CmdFilterLoad:  func() Message { return &MsgFilterLoad{} },
}

// encodeCommand zero-pads cmd into a 12-byte field, per the message header
// layout.
func encodeCommand(cmd string) [commandSize]byte {
	var out [commandSize]byte
	copy(out[:], cmd)
	return out
}

// decodeCommand trims the zero padding from a 12-byte command field.
func decodeCommand(b [commandSize]byte) string {
	n := 0
	for n < commandSize && b[n] != 0 {
		n++
	}
	return string(b[:n])
}

// WriteMessage serializes msg with the given network magic and appends the
// header-plus-payload to buf, returning the extended slice. The verack
// command is the sole message with no checksum field.
func WriteMessage(buf []byte, btcnet BitcoinNet, msg Message) []byte {
	cmd := msg.Command()
	payloadLen := msg.SerializeSize()

	var magic [4]byte
	binary.LittleEndian.PutUint32(magic[:], uint32(btcnet))
	buf = append(buf, magic[:]...)

	cmdBytes := encodeCommand(cmd)
	buf = append(buf, cmdBytes[:]...)

	var lenBytes [4]byte
	binary.LittleEndian.PutUint32(lenBytes[:], uint32(payloadLen))
	buf = append(buf, lenBytes[:]...)

	// Collect the payload separately so the checksum can be computed
	// over exactly its bytes before appending.
	payload := msg.Serialize(make([]byte, 0, payloadLen))

	if cmd != CmdVerAck {
		sum := DoubleSha256(payload)
		buf = append(buf, sum[:4]...)
	}

	return append(buf, payload...)
}

// ReadMessage parses one framed message from the prefix of b: a header
// (with an optional checksum, present for every command but verack),
// followed by its payload. It returns the decoded Message, the network
// magic observed, and the number of bytes consumed.
//
// An unrecognized command yields ErrUnknownCommand; a checksum that
// disagrees with the payload yields ErrChecksumMismatch. Both are
// non-fatal: the caller (the peer session's reader loop) re-synchronizes
// on the next occurrence of the magic rather than closing the connection.
func ReadMessage(b []byte) (Message, BitcoinNet, int, error) {
	if len(b) < headerSizeNoChecksum {
		return nil, 0, 0, messageError("ReadMessage", ErrTruncated, "header")
	}

	magic := BitcoinNet(binary.LittleEndian.Uint32(b[0:4]))

	var cmdBytes [commandSize]byte
	copy(cmdBytes[:], b[4:4+commandSize])
	cmd := decodeCommand(cmdBytes)

	off := 4 + commandSize
	payloadLen := binary.LittleEndian.Uint32(b[off : off+4])
	off += 4

	hasChecksum := cmd != CmdVerAck
	var wantChecksum [4]byte
	if hasChecksum {
		if len(b) < off+4 {
			return nil, 0, 0, messageError("ReadMessage", ErrTruncated, "checksum")
		}
		copy(wantChecksum[:], b[off:off+4])
		off += 4
	}

	if payloadLen > MaxMessagePayload {
		return nil, 0, 0, messageError("ReadMessage", ErrMalformed,
			fmt.Sprintf("payload length %d exceeds max %d", payloadLen, MaxMessagePayload))
	}
	if uint64(len(b)-off) < uint64(payloadLen) {
		return nil, 0, 0, messageError("ReadMessage", ErrTruncated, "payload")
	}
	payload := b[off : off+int(payloadLen)]
	off += int(payloadLen)

	if hasChecksum {
		sum := DoubleSha256(payload)
		if sum[0] != wantChecksum[0] || sum[1] != wantChecksum[1] ||
			sum[2] != wantChecksum[2] || sum[3] != wantChecksum[3] {
			return nil, magic, off, messageError("ReadMessage", ErrChecksumMismatch, cmd)
		}
	}

	newMsg, ok := knownCommands[cmd]
	if !ok {
		return nil, magic, off, messageError("ReadMessage", ErrUnknownCommand, cmd)
	}

	msg := newMsg()
	if _, err := msg.Parse(payload); err != nil {
		return nil, magic, off, err
	}

	return msg, magic, off, nil
}

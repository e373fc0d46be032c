// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

// MsgVerAck acknowledges a version message and completes the handshake.
// It is the one message historically sent without a checksum.
type MsgVerAck struct{}

func (m *MsgVerAck) Command() string        { return CmdVerAck }
func (m *MsgVerAck) SerializeSize() int      { return 0 }
func (m *MsgVerAck) Serialize(b []byte) []byte { return b }
func (m *MsgVerAck) Parse(b []byte) (int, error) { return 0, nil }

// MsgGetAddr requests a list of known active peers.
type MsgGetAddr struct{}

func (m *MsgGetAddr) Command() string          { return CmdGetAddr }
func (m *MsgGetAddr) SerializeSize() int        { return 0 }
func (m *MsgGetAddr) Serialize(b []byte) []byte { return b }
func (m *MsgGetAddr) Parse(b []byte) (int, error) { return 0, nil }

// MsgMemPool requests the inventory of the peer's transaction mempool.
type MsgMemPool struct{}

func (m *MsgMemPool) Command() string          { return CmdMemPool }
func (m *MsgMemPool) SerializeSize() int        { return 0 }
func (m *MsgMemPool) Serialize(b []byte) []byte { return b }
func (m *MsgMemPool) Parse(b []byte) (int, error) { return 0, nil }

// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import "github.com/coinkit/p2pnode/wire"

// Listeners holds one optional callback per inbound command. A nil field is
// a no-op: the caller only wires up the commands it cares about, and the
// session silently skips delivery for the rest.
//
// version and verack drive the handshake automatically (the session replies
// to version with verack, and unblocks WaitOnHandshakeComplete on verack)
// before these listeners, if set, are invoked.
type Listeners struct {
	OnVersion func(s *Session, msg *wire.MsgVersion)
	OnVerAck  func(s *Session)

	OnAddr       func(s *Session, msg *wire.MsgAddr)
	OnInv        func(s *Session, msg *wire.MsgInv)
	OnGetData    func(s *Session, msg *wire.MsgGetData)
	OnGetBlocks  func(s *Session, msg *wire.MsgGetBlocks)
	OnGetHeaders func(s *Session, msg *wire.MsgGetHeaders)
	OnTx         func(s *Session, msg *wire.MsgTx)
	OnBlock      func(s *Session, msg *wire.MsgBlock)
	OnHeaders    func(s *Session, msg *wire.MsgHeaders)
	OnGetAddr    func(s *Session)
	OnMemPool    func(s *Session)

	OnMerkleBlock func(s *Session, msg *wire.MsgMerkleBlock)
	OnFilterLoad  func(s *Session, msg *wire.MsgFilterLoad)

	// OnSocketClosed fires exactly once, whether the close was initiated
	// locally or the remote end hung up. code is 0 for a clean shutdown
	// (EOF) or a platform errno otherwise; -1 when no errno could be
	// extracted from the underlying error.
	OnSocketClosed func(s *Session, code int)
}
